package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is the parsed contents of project.yml.
type Manifest struct {
	Path   string
	Name   string
	Entry  string
	Indent int
	Store  StoreSpec
}

// StoreSpec selects the persistence backend for globally immutable
// declarations.
type StoreSpec struct {
	Backend StoreBackend
	Dir     string
}

// StoreBackend enumerates supported persistence backends.
type StoreBackend string

const (
	StoreMemory StoreBackend = "memory"
	StoreFile   StoreBackend = "file"
	StoreGit    StoreBackend = "git"
)

// IsValid reports whether the backend is recognised.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreMemory, StoreFile, StoreGit:
		return true
	default:
		return false
	}
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

type manifestFile struct {
	Name   string `yaml:"name"`
	Entry  string `yaml:"entry"`
	Indent int    `yaml:"indent"`
	Store  struct {
		Backend string `yaml:"backend"`
		Dir     string `yaml:"dir"`
	} `yaml:"store"`
}

// LoadManifest parses project.yml from disk, returning a validated
// manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (mf manifestFile) toManifest(path string) *Manifest {
	backend := StoreBackend(strings.TrimSpace(mf.Store.Backend))
	if backend == "" {
		backend = StoreMemory
	}
	return &Manifest{
		Path:   path,
		Name:   strings.TrimSpace(mf.Name),
		Entry:  strings.TrimSpace(mf.Entry),
		Indent: mf.Indent,
		Store: StoreSpec{
			Backend: backend,
			Dir:     strings.TrimSpace(mf.Store.Dir),
		},
	}
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Entry == "" {
		errs.Issues = append(errs.Issues, "entry must name a source file")
	}
	if m.Indent < 0 {
		errs.Issues = append(errs.Issues, "indent must be positive")
	}
	if !m.Store.Backend.IsValid() {
		errs.Issues = append(errs.Issues, fmt.Sprintf("unsupported store backend %q", m.Store.Backend))
	}
	if m.Store.Backend != StoreMemory && m.Store.Dir == "" {
		errs.Issues = append(errs.Issues, fmt.Sprintf("store backend %q requires a dir", m.Store.Backend))
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// EntryPath resolves the entry source file relative to the manifest.
func (m *Manifest) EntryPath() string {
	if filepath.IsAbs(m.Entry) {
		return m.Entry
	}
	return filepath.Join(filepath.Dir(m.Path), m.Entry)
}

// StoreDir resolves the store directory relative to the manifest.
func (m *Manifest) StoreDir() string {
	if m.Store.Dir == "" || filepath.IsAbs(m.Store.Dir) {
		return m.Store.Dir
	}
	return filepath.Join(filepath.Dir(m.Path), m.Store.Dir)
}
