package rowdiff

import "slices"

// UnifiedDiff computes a unified diff: every line of both texts in a single
// ordered list, with deletions of a change placed before its insertions.
// Both lines of a one-to-one modification carry the same character diff.
func UnifiedDiff(oldText, newText string, opts Options) DiffResult {
	d := NewDiffer(opts)
	runs := diffLineRuns(splitLines(oldText), splitLines(newText), d)
	return DiffResult{
		Lines:   unifiedLines(runs, d, newCursor()),
		OldText: oldText,
		NewText: newText,
	}
}

func unifiedLines(runs []lineRun, d Differ, c cursor) []DiffLine {
	lines := make([]DiffLine, 0, len(runs))

	for _, b := range groupBlocks(runs) {
		for _, line := range b.Equal {
			lines = append(lines, DiffLine{
				Type:          Equal,
				Content:       line,
				OldLineNumber: c.nextOld(),
				NewLineNumber: c.nextNew(),
			})
		}

		charDiffs := matchBlock(d, b)
		for _, line := range b.Deleted {
			lines = append(lines, DiffLine{
				Type:          Delete,
				Content:       line,
				OldLineNumber: c.nextOld(),
				CharDiffs:     charDiffs,
			})
		}
		for _, line := range b.Inserted {
			lines = append(lines, DiffLine{
				Type:          Insert,
				Content:       line,
				NewLineNumber: c.nextNew(),
				CharDiffs:     slices.Clone(charDiffs),
			})
		}
	}

	return lines
}
