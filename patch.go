package rowdiff

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DiffHunk represents a single hunk from a unified diff.
type DiffHunk struct {
	// OldStart is the starting line number in the old file.
	OldStart int
	// OldCount is the number of lines from the old file.
	OldCount int
	// NewStart is the starting line number in the new file.
	NewStart int
	// NewCount is the number of lines in the new file.
	NewCount int
	// Section is the text after the closing "@@", usually a function name.
	Section string
	// Lines holds the hunk body with the leading " ", "-" or "+" kept.
	Lines []string

	oldLeft, newLeft int
}

// FileDiff is the parsed unified diff of one file.
type FileDiff struct {
	// OldFile is the name of the old file (from "---" line).
	OldFile string
	// NewFile is the name of the new file (from "+++" line).
	NewFile string
	// Hunks contains all the diff hunks.
	Hunks []DiffHunk
}

// ErrHunkHeader is returned for a "@@" line that is not a valid hunk header.
var ErrHunkHeader = errors.New("malformed hunk header")

var hunkHeaderRE = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@ ?(.*)$`)

// parseHunkHeader parses "@@ -start[,count] +start[,count] @@ [section]".
// A missing count means 1.
func parseHunkHeader(line string) (DiffHunk, error) {
	m := hunkHeaderRE.FindStringSubmatch(line)
	if m == nil {
		return DiffHunk{}, fmt.Errorf("%w: %q", ErrHunkHeader, line)
	}

	nums := make([]int, 4)
	for i, s := range m[1:5] {
		if s == "" {
			nums[i] = 1
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return DiffHunk{}, fmt.Errorf("%w: %q: %w", ErrHunkHeader, line, err)
		}
		nums[i] = n
	}

	return DiffHunk{
		OldStart: nums[0],
		OldCount: nums[1],
		NewStart: nums[2],
		NewCount: nums[3],
		Section:  m[5],
		oldLeft:  nums[1],
		newLeft:  nums[3],
	}, nil
}

// addLine appends a body line to the hunk. It returns false, leaving the
// hunk unchanged, for a line that cannot be part of a hunk body. Some tools
// strip the space from blank context lines, so "" counts as context.
func (h *DiffHunk) addLine(line string) bool {
	switch {
	case strings.HasPrefix(line, `\`):
		// "\ No newline at end of file"
		return true
	case line == "" || line[0] == ' ':
		h.oldLeft--
		h.newLeft--
	case line[0] == '-':
		h.oldLeft--
	case line[0] == '+':
		h.newLeft--
	default:
		return false
	}
	h.Lines = append(h.Lines, line)
	return true
}

// complete reports whether the hunk has all the lines its header announced.
func (h *DiffHunk) complete() bool {
	return h.oldLeft <= 0 && h.newLeft <= 0
}

// OldLines returns the hunk's lines as they were in the old file: context
// and removed lines, without their prefix.
func (h DiffHunk) OldLines() []string {
	return h.side('-')
}

// NewLines returns the hunk's lines as they are in the new file: context
// and added lines, without their prefix.
func (h DiffHunk) NewLines() []string {
	return h.side('+')
}

func (h DiffHunk) side(prefix byte) []string {
	var lines []string
	for _, l := range h.Lines {
		switch {
		case l == "":
			lines = append(lines, "")
		case l[0] == ' ' || l[0] == prefix:
			lines = append(lines, l[1:])
		}
	}
	return lines
}

// Inline computes the inline diff of the hunk, numbering lines from the
// hunk's start lines.
func (h DiffHunk) Inline(opts Options) DiffResult {
	oldLines, newLines := h.OldLines(), h.NewLines()
	d := NewDiffer(opts)
	runs := diffLineRuns(oldLines, newLines, d)
	c := cursor{old: max(1, h.OldStart), new: max(1, h.NewStart)}
	return DiffResult{
		Lines:   inlineLines(runs, d, c),
		OldText: strings.Join(oldLines, "\n"),
		NewText: strings.Join(newLines, "\n"),
	}
}

// ParseUnifiedDiff parses a unified diff string into structured data.
// It handles standard unified diff format as produced by diff -u or git diff.
// Hunk bodies are read according to the counts in their headers, so removed
// lines that start with "--" are not mistaken for file headers.
func ParseUnifiedDiff(input string) ([]FileDiff, error) {
	var results []FileDiff
	var current *FileDiff
	var hunk *DiffHunk

	flushHunk := func() {
		if hunk != nil && current != nil {
			current.Hunks = append(current.Hunks, *hunk)
		}
		hunk = nil
	}

	for i, line := range strings.Split(input, "\n") {
		if hunk != nil {
			if hunk.addLine(line) {
				if hunk.complete() {
					flushHunk()
				}
				continue
			}
			flushHunk()
		}

		switch {
		case strings.HasPrefix(line, "--- "):
			if current != nil {
				results = append(results, *current)
			}
			current = &FileDiff{OldFile: strings.TrimPrefix(line, "--- ")}
		case strings.HasPrefix(line, "+++ ") && current != nil:
			current.NewFile = strings.TrimPrefix(line, "+++ ")
		case strings.HasPrefix(line, "@@") && current != nil:
			h, err := parseHunkHeader(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			hunk = &h
			if hunk.complete() {
				flushHunk()
			}
		}
	}

	// Flush remaining
	flushHunk()
	if current != nil {
		results = append(results, *current)
	}

	return results, nil
}
