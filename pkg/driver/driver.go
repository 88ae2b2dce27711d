// Package driver turns a source file into a run: it splits the file into
// sections, parses each one, and executes them in order against a shared
// export table and persistence store.
package driver

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gulfofmexico/interpreter-go/pkg/ast"
	"gulfofmexico/interpreter-go/pkg/interpreter"
	"gulfofmexico/interpreter-go/pkg/lexer"
	"gulfofmexico/interpreter-go/pkg/parser"
	"gulfofmexico/interpreter-go/pkg/storage"
)

// Section is one independently scoped stretch of a source file. Sections
// only exchange names through export and import.
type Section struct {
	Name      string
	Source    string
	StartLine int
}

// sectionMarker matches a divider line: five or more '=' optionally
// followed by the next section's name.
func sectionMarker(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	n := 0
	for n < len(trimmed) && trimmed[n] == '=' {
		n++
	}
	if n < 5 {
		return "", false
	}
	rest := strings.TrimSpace(strings.TrimRight(trimmed[n:], "= \t"))
	return rest, true
}

// SplitSections cuts source on divider lines. The first section is named
// "main"; later unnamed sections are numbered.
func SplitSections(source string) []Section {
	lines := strings.Split(source, "\n")
	var sections []Section
	name := "main"
	start := 0
	flush := func(end int) {
		body := strings.Join(lines[start:end], "\n")
		sections = append(sections, Section{Name: name, Source: body, StartLine: start + 1})
	}
	for idx, line := range lines {
		next, ok := sectionMarker(line)
		if !ok {
			continue
		}
		flush(idx)
		if next == "" {
			next = fmt.Sprintf("section-%d", len(sections)+1)
		}
		name = next
		start = idx + 1
	}
	flush(len(lines))
	return sections
}

// Options configures a run.
type Options struct {
	Filename string
	Source   string
	Out      io.Writer
	Store    storage.Store
	Indent   int // indentation unit; zero means the default
	Clock    func() time.Time
}

// Run executes every section of a source file in order. It returns the
// process exit code; a non-nil error is a diagnostic, already positioned.
func Run(opts Options) (int, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Indent == 0 {
		opts.Indent = lexer.DefaultIndentUnit
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	sections := SplitSections(opts.Source)
	parsed := make([][]ast.Statement, len(sections))
	for idx, section := range sections {
		tokens, err := lexer.TokenizeIndent(opts.Filename, section.Source, opts.Indent)
		if err != nil {
			if err.Line > 0 {
				err.Line += section.StartLine - 1
			}
			return 1, err
		}
		// Token lines are section-relative; shift them so every diagnostic
		// downstream reports positions in the whole file.
		for ti := range tokens {
			tokens[ti].Line += section.StartLine - 1
		}
		statements, err := parser.ParseTokens(opts.Filename, opts.Source, tokens)
		if err != nil {
			return 1, err
		}
		parsed[idx] = statements
	}

	table := interpreter.NewExportTable()
	for idx, section := range sections {
		interp := interpreter.New(
			interpreter.WithOutput(opts.Out),
			interpreter.WithStore(opts.Store),
			interpreter.WithSection(section.Name, table),
			interpreter.WithClock(opts.Clock),
		)
		if err := interp.LoadPersisted(); err != nil {
			return 1, err
		}
		if err := interp.Execute(parsed[idx]); err != nil {
			return 1, err
		}
		if interp.ExitCode != 0 {
			return interp.ExitCode, nil
		}
	}
	return 0, nil
}

// OpenStore builds the persistence backend a manifest asks for.
func OpenStore(spec StoreSpec, dir string) (storage.Store, error) {
	switch spec.Backend {
	case StoreFile:
		return storage.NewFileStore(dir)
	case StoreGit:
		return storage.NewGitStore(dir)
	default:
		return storage.NewMemoryStore(), nil
	}
}

// RunFile loads and executes a source file with no manifest: memory store,
// default indentation.
func RunFile(path string, out io.Writer) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 1, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return Run(Options{
		Filename: path,
		Source:   string(data),
		Out:      out,
		Store:    storage.NewMemoryStore(),
	})
}

// RunManifest executes a project described by its manifest.
func RunManifest(m *Manifest, out io.Writer) (int, error) {
	store, err := OpenStore(m.Store, m.StoreDir())
	if err != nil {
		return 1, err
	}
	data, err := os.ReadFile(m.EntryPath())
	if err != nil {
		return 1, fmt.Errorf("cannot read entry %s: %w", m.EntryPath(), err)
	}
	return Run(Options{
		Filename: m.Entry,
		Source:   string(data),
		Out:      out,
		Store:    store,
		Indent:   m.Indent,
	})
}
