// Package rowdiff computes line-addressable text diffs for rendering
// unified, side-by-side, and inline views.
//
// Line diffing is reduced to a generic sequence diff: every distinct line of
// the two inputs is encoded as a Symbol, the symbol sequences are diffed, and
// the resulting operations are decoded back into numbered lines. When a
// single deleted line is immediately replaced by a single inserted line, the
// pair is treated as a modification and annotated with a character-level
// diff.
//
// For example, comparing:
//
//	total := add(a, b)
//	total := sum(a, b)
//
// yields one deleted and one inserted line, both carrying character diffs
// that isolate "add" -> "sum".
//
// The sequence diff itself is delegated to github.com/sergi/go-diff
// (diff-match-patch) by default, or to github.com/dacharyc/diffx.
package rowdiff

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimeout is the time budget given to the diff-match-patch backend.
// Inputs that cannot be diffed within it yield a coarser, still valid diff.
const DefaultTimeout = 200 * time.Millisecond

// Algorithm names accepted by Options.Algorithm.
const (
	AlgorithmDMP       = "dmp"
	AlgorithmHistogram = "histogram"
	AlgorithmMyers     = "myers"
)

// Operation represents a diff operation type.
type Operation int

const (
	// Equal indicates the content is unchanged.
	Equal Operation = iota
	// Insert indicates the content was added.
	Insert
	// Delete indicates the content was removed.
	Delete
)

// String returns a human-readable representation of the operation.
func (o Operation) String() string {
	switch o {
	case Equal:
		return "Equal"
	case Insert:
		return "Insert"
	case Delete:
		return "Delete"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the operation as "equal", "insert" or "delete".
func (o Operation) MarshalText() ([]byte, error) {
	switch o {
	case Equal, Insert, Delete:
		return []byte(strings.ToLower(o.String())), nil
	}
	return nil, fmt.Errorf("invalid operation: %d", int(o))
}

// UnmarshalText decodes the form produced by MarshalText.
func (o *Operation) UnmarshalText(text []byte) error {
	switch string(text) {
	case "equal":
		*o = Equal
	case "insert":
		*o = Insert
	case "delete":
		*o = Delete
	default:
		return fmt.Errorf("invalid operation: %q", text)
	}
	return nil
}

// CharDiff is one run of a character-level diff between a deleted line and
// the inserted line that replaced it.
type CharDiff struct {
	Type Operation `json:"type"`
	Text string    `json:"text"`
}

// DiffLine is a single line of a unified or inline diff.
//
// OldLineNumber is set (1-based) for Equal and Delete lines and is 0
// otherwise; NewLineNumber is set for Equal and Insert lines. CharDiffs is
// non-nil only for lines produced from a one-to-one delete/insert pair.
type DiffLine struct {
	Type          Operation  `json:"type"`
	Content       string     `json:"content"`
	OldLineNumber int        `json:"oldLineNumber,omitempty"`
	NewLineNumber int        `json:"newLineNumber,omitempty"`
	CharDiffs     []CharDiff `json:"charDiffs,omitempty"`
}

// HasChanges reports whether the line is anything other than a plain
// unchanged line. Inline modifications are Equal lines with CharDiffs.
func (l DiffLine) HasChanges() bool {
	return l.Type != Equal || l.CharDiffs != nil
}

// DiffResult holds the lines of a unified or inline diff along with the
// texts it was computed from.
type DiffResult struct {
	Lines   []DiffLine `json:"lines"`
	OldText string     `json:"oldText"`
	NewText string     `json:"newText"`
}

// Cleanup selects how the line-level edit script is normalized.
type Cleanup int

const (
	// CleanupLossless merges adjacent runs and shifts edit boundaries to
	// more readable positions without changing the edit cost.
	CleanupLossless Cleanup = iota
	// CleanupSemantic additionally folds short equalities between edits
	// into the edits, trading minimality for coarser groupings.
	CleanupSemantic
	// CleanupNone only merges adjacent runs of the same kind.
	CleanupNone
)

// String returns the name used for the cleanup mode in configuration.
func (c Cleanup) String() string {
	switch c {
	case CleanupLossless:
		return "lossless"
	case CleanupSemantic:
		return "semantic"
	case CleanupNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseCleanup parses a cleanup mode name.
func ParseCleanup(s string) (Cleanup, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lossless", "":
		return CleanupLossless, nil
	case "semantic":
		return CleanupSemantic, nil
	case "none":
		return CleanupNone, nil
	}
	return CleanupLossless, fmt.Errorf("invalid cleanup: %s (use lossless, semantic, or none)", s)
}

// Options configures how diffs are computed.
type Options struct {
	// Algorithm selects the line-level sequence differ: AlgorithmDMP,
	// AlgorithmHistogram or AlgorithmMyers. Empty or unknown values use
	// AlgorithmDMP. Character-level diffs always use diff-match-patch.
	Algorithm string

	// Timeout bounds each diff-match-patch computation. 0 means no limit.
	Timeout time.Duration

	// LineCleanup normalizes the line-level edit script (dmp only; the
	// diffx backends shift boundaries themselves).
	LineCleanup Cleanup
}

// DefaultOptions returns Options with default settings.
func DefaultOptions() Options {
	return Options{
		Algorithm:   AlgorithmDMP,
		Timeout:     DefaultTimeout,
		LineCleanup: CleanupLossless,
	}
}

// ValidAlgorithm reports whether name is a supported algorithm.
func ValidAlgorithm(name string) bool {
	switch name {
	case AlgorithmDMP, AlgorithmHistogram, AlgorithmMyers:
		return true
	}
	return false
}

// CalculateUnifiedDiff computes a unified diff with default options.
func CalculateUnifiedDiff(oldText, newText string) DiffResult {
	return UnifiedDiff(oldText, newText, DefaultOptions())
}

// CalculateSideBySideDiff computes a side-by-side diff with default options.
func CalculateSideBySideDiff(oldText, newText string) SideBySideResult {
	return SideBySideDiff(oldText, newText, DefaultOptions())
}

// CalculateInlineDiff computes an inline diff with default options.
func CalculateInlineDiff(oldText, newText string) DiffResult {
	return InlineDiff(oldText, newText, DefaultOptions())
}
