package rowdiff

// InlineDiff computes an inline diff. It decodes lines exactly like
// UnifiedDiff, except that a one-to-one modification is emitted as a single
// Equal line holding the inserted text, both line numbers, and the
// character diff. Renderers tell such lines apart from unchanged ones by
// their non-nil CharDiffs.
func InlineDiff(oldText, newText string, opts Options) DiffResult {
	d := NewDiffer(opts)
	runs := diffLineRuns(splitLines(oldText), splitLines(newText), d)
	return DiffResult{
		Lines:   inlineLines(runs, d, newCursor()),
		OldText: oldText,
		NewText: newText,
	}
}

func inlineLines(runs []lineRun, d Differ, c cursor) []DiffLine {
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

		if charDiffs := matchBlock(d, b); charDiffs != nil {
			lines = append(lines, DiffLine{
				Type:          Equal,
				Content:       b.Inserted[0],
				OldLineNumber: c.nextOld(),
				NewLineNumber: c.nextNew(),
				CharDiffs:     charDiffs,
			})
			continue
		}

		for _, line := range b.Deleted {
			lines = append(lines, DiffLine{
				Type:          Delete,
				Content:       line,
				OldLineNumber: c.nextOld(),
			})
		}
		for _, line := range b.Inserted {
			lines = append(lines, DiffLine{
				Type:          Insert,
				Content:       line,
				NewLineNumber: c.nextNew(),
			})
		}
	}

	return lines
}

// OldContent returns the old-side text of a line. For an inline
// modification that is the deleted line the character diff was computed
// from; for every other line it is Content.
func (l DiffLine) OldContent() string {
	if l.Type == Equal && l.CharDiffs != nil {
		return OldText(l.CharDiffs)
	}
	return l.Content
}
