package rowdiff

import (
	"fmt"
	"slices"
)

// RowType is the kind of one side of a side-by-side row.
type RowType int

const (
	// RowEqual is an unchanged line, present on both sides.
	RowEqual RowType = iota
	// RowDelete is a deleted line (left side only).
	RowDelete
	// RowInsert is an inserted line (right side only).
	RowInsert
	// RowEmpty pads one side against a deleted or inserted line.
	RowEmpty
)

// String returns the name of the row type.
func (t RowType) String() string {
	switch t {
	case RowEqual:
		return "equal"
	case RowDelete:
		return "delete"
	case RowInsert:
		return "insert"
	case RowEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// MarshalText encodes the row type by name.
func (t RowType) MarshalText() ([]byte, error) {
	if t < RowEqual || t > RowEmpty {
		return nil, fmt.Errorf("invalid row type: %d", int(t))
	}
	return []byte(t.String()), nil
}

// SideBySideRow is one side of a visual row.
//
// For RowEmpty, Content is "" and LineNumber is the next line number of the
// padded side; it does not refer to a line of that side.
type SideBySideRow struct {
	LineNumber int        `json:"lineNumber"`
	Content    string     `json:"content"`
	Type       RowType    `json:"type"`
	CharDiffs  []CharDiff `json:"charDiffs,omitempty"`
}

// SideBySideResult holds two parallel columns. Left[i] and Right[i] form
// one visual row; both slices always have the same length.
type SideBySideResult struct {
	Left  []SideBySideRow `json:"left"`
	Right []SideBySideRow `json:"right"`
}

// SideBySideDiff computes a side-by-side diff. Deleted lines get a row with
// an empty right side, inserted lines a row with an empty left side, and
// unchanged lines a row that is equal on both sides. The deleted and the
// inserted row of a one-to-one modification both carry the character diff.
func SideBySideDiff(oldText, newText string, opts Options) SideBySideResult {
	d := NewDiffer(opts)
	runs := diffLineRuns(splitLines(oldText), splitLines(newText), d)

	result := SideBySideResult{
		Left:  make([]SideBySideRow, 0, len(runs)),
		Right: make([]SideBySideRow, 0, len(runs)),
	}
	c := newCursor()
	add := func(left, right SideBySideRow) {
		result.Left = append(result.Left, left)
		result.Right = append(result.Right, right)
	}

	for _, b := range groupBlocks(runs) {
		for _, line := range b.Equal {
			add(
				SideBySideRow{LineNumber: c.nextOld(), Content: line, Type: RowEqual},
				SideBySideRow{LineNumber: c.nextNew(), Content: line, Type: RowEqual},
			)
		}

		charDiffs := matchBlock(d, b)
		for _, line := range b.Deleted {
			add(
				SideBySideRow{LineNumber: c.nextOld(), Content: line, Type: RowDelete, CharDiffs: charDiffs},
				SideBySideRow{LineNumber: c.new, Type: RowEmpty},
			)
		}
		for _, line := range b.Inserted {
			add(
				SideBySideRow{LineNumber: c.old, Type: RowEmpty},
				SideBySideRow{LineNumber: c.nextNew(), Content: line, Type: RowInsert, CharDiffs: slices.Clone(charDiffs)},
			)
		}
	}

	return result
}

// Changed reports whether row i is anything but an unchanged line.
func (r SideBySideResult) Changed(i int) bool {
	return r.Left[i].Type != RowEqual || r.Right[i].Type != RowEqual
}
