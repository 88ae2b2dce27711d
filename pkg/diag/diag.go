package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Error kinds for the different categories of failures.
const (
	KindLex                = "LEX_ERROR"
	KindIndentation        = "INDENTATION_ERROR"
	KindParse              = "PARSE_ERROR"
	KindImmutableAssign    = "IMMUTABLE_ASSIGN_ERROR"
	KindImmutableContent   = "IMMUTABLE_CONTENT_ERROR"
	KindUndefinedReference = "UNDEFINED_REFERENCE_ERROR"
	KindTypeMismatch       = "TYPE_MISMATCH_ERROR"
	KindSingleInstance     = "SINGLE_INSTANCE_VIOLATION"
	KindRuntime            = "RUNTIME_ERROR"
	KindStorage            = "STORAGE_ERROR"
)

// Error is the structured failure surfaced by every stage of the pipeline.
// Line and Column are 1-based; zero means unknown.
type Error struct {
	Kind    string
	Message string
	Line    int
	Column  int
	Snippet string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Kind, e.Message)
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	if e.Snippet != "" {
		b.WriteString("\n")
		b.WriteString(e.Snippet)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error without source position.
func New(kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// At creates an error pinned to a source position and renders a caret
// snippet from the source text when it is available.
func At(kind, message, source string, line, column, width int) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Line:    line,
		Column:  column,
		Snippet: Snippet(source, line, column, width),
	}
}

// Snippet renders the offending source line with a caret underline.
func Snippet(source string, line, column, width int) string {
	if source == "" || line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	if width < 1 {
		width = 1
	}
	if column < 1 {
		column = 1
	}
	return fmt.Sprintf("  %s\n  %s%s",
		lines[line-1],
		strings.Repeat(" ", column-1),
		strings.Repeat("^", width))
}

// Suggest returns the closest candidate name for a misspelled reference,
// or "" when nothing ranks.
func Suggest(target string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(target, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

// WithSuggestion appends a "did you mean" hint to the message when one
// ranks close enough to be useful.
func WithSuggestion(err *Error, target string, candidates []string) *Error {
	if hint := Suggest(target, candidates); hint != "" && hint != target {
		err.Message += fmt.Sprintf(" (did you mean %q?)", hint)
	}
	return err
}
