package rowdiff

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds a single input line of ProcessUnifiedDiff.
const maxLineSize = 16 << 20

// ProcessUnifiedDiff reads a unified diff from input and re-renders each
// hunk as an inline diff. File headers, hunk headers and any other text
// between hunks are written to output unchanged; hunk bodies are replaced
// with their FormatInline rendering, numbered from the hunk header.
//
// This is useful for enhancing the output of tools like "git diff" to show
// exactly which characters changed within each modified line.
func ProcessUnifiedDiff(input io.Reader, output io.Writer, opts Options, fmtOpts FormatOptions) error {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var hunk *DiffHunk
	var werr error
	emit := func(s string) {
		if werr == nil {
			_, werr = fmt.Fprintln(output, s)
		}
	}

	flushHunk := func() {
		if hunk == nil {
			return
		}
		if out := FormatInline(hunk.Inline(opts), fmtOpts); out != "" {
			emit(out)
		}
		hunk = nil
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if hunk != nil {
			if hunk.addLine(line) {
				if hunk.complete() {
					flushHunk()
				}
				continue
			}
			// Unknown line format - end the hunk early and pass it through
			flushHunk()
		}

		if strings.HasPrefix(line, "@@") {
			h, err := parseHunkHeader(line)
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			emit(line)
			hunk = &h
			if hunk.complete() {
				flushHunk()
			}
			continue
		}

		emit(line)
	}

	// A truncated hunk is rendered with the lines it has.
	flushHunk()

	if err := scanner.Err(); err != nil {
		return err
	}
	return werr
}
