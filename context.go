package rowdiff

// Hunk is a half-open range [Start, End) of lines or rows kept by a context
// filter.
type Hunk struct {
	Start int
	End   int
}

// ContextHunks groups the changed entries of a diff, together with up to
// contextLines entries on each side, into hunks. Hunks that touch or overlap
// are joined. If contextLines is 0 or negative, a single hunk covers every
// entry; if nothing changed, there are no hunks.
func ContextHunks(changed []bool, contextLines int) []Hunk {
	if len(changed) == 0 {
		return nil
	}
	if contextLines <= 0 {
		return []Hunk{{Start: 0, End: len(changed)}}
	}

	var hunks []Hunk
	for i, c := range changed {
		if !c {
			continue
		}
		start := max(0, i-contextLines)
		end := min(len(changed), i+contextLines+1)
		if n := len(hunks); n > 0 && start <= hunks[n-1].End {
			hunks[n-1].End = max(hunks[n-1].End, end)
			continue
		}
		hunks = append(hunks, Hunk{Start: start, End: end})
	}
	return hunks
}

// FilterWithContext returns only the lines that are changes or within
// contextLines of a change. If contextLines is 0 or negative, lines is
// returned unchanged.
func FilterWithContext(lines []DiffLine, contextLines int) []DiffLine {
	if contextLines <= 0 {
		return lines
	}

	var result []DiffLine
	for _, h := range ContextHunks(lineChanges(lines), contextLines) {
		result = append(result, lines[h.Start:h.End]...)
	}
	return result
}

// FilterRowsWithContext is FilterWithContext for side-by-side rows. Rows are
// kept or dropped as pairs, so both columns stay aligned.
func FilterRowsWithContext(rows SideBySideResult, contextLines int) SideBySideResult {
	if contextLines <= 0 {
		return rows
	}

	var result SideBySideResult
	for _, h := range ContextHunks(rowChanges(rows), contextLines) {
		result.Left = append(result.Left, rows.Left[h.Start:h.End]...)
		result.Right = append(result.Right, rows.Right[h.Start:h.End]...)
	}
	return result
}

func rowChanges(rows SideBySideResult) []bool {
	changed := make([]bool, len(rows.Left))
	for i := range rows.Left {
		changed[i] = rows.Changed(i)
	}
	return changed
}

func lineChanges(lines []DiffLine) []bool {
	changed := make([]bool, len(lines))
	for i, l := range lines {
		changed[i] = l.HasChanges()
	}
	return changed
}
