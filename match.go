package rowdiff

// correspondent reports whether a block is a modification: exactly one
// deleted line replaced by exactly one inserted line. Any other shape is
// treated as independent deletions and insertions.
func (b block) correspondent() bool {
	return len(b.Deleted) == 1 && len(b.Inserted) == 1
}

// matchBlock returns the character diff between the deleted and inserted
// line of a correspondent block, and nil for every other block. The result
// is never nil for a correspondent block, even when the Differ returns no
// runs.
func matchBlock(d Differ, b block) []CharDiff {
	if !b.correspondent() {
		return nil
	}
	charDiffs := d.DiffChars(b.Deleted[0], b.Inserted[0])
	if charDiffs == nil {
		charDiffs = []CharDiff{}
	}
	return charDiffs
}

// OldText rebuilds the deleted side of a character diff.
func OldText(charDiffs []CharDiff) string {
	return joinCharDiffs(charDiffs, Delete)
}

// NewText rebuilds the inserted side of a character diff.
func NewText(charDiffs []CharDiff) string {
	return joinCharDiffs(charDiffs, Insert)
}

func joinCharDiffs(charDiffs []CharDiff, side Operation) string {
	n := 0
	for _, cd := range charDiffs {
		n += len(cd.Text)
	}
	buf := make([]byte, 0, n)
	for _, cd := range charDiffs {
		if cd.Type == Equal || cd.Type == side {
			buf = append(buf, cd.Text...)
		}
	}
	return string(buf)
}
