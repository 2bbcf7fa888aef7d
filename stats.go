package rowdiff

// DiffStatistics holds line counts for a diff.
type DiffStatistics struct {
	OldLines      int `json:"oldLines"`      // total lines in old text
	NewLines      int `json:"newLines"`      // total lines in new text
	CommonLines   int `json:"commonLines"`   // lines unchanged between the texts
	DeletedLines  int `json:"deletedLines"`  // lines present in old but not new, modified lines included
	InsertedLines int `json:"insertedLines"` // lines present in new but not old, modified lines included
	ModifiedLines int `json:"modifiedLines"` // one-to-one delete/insert pairs
}

// ComputeStatistics counts the lines of a unified or inline diff. A
// modification counts once as deleted, once as inserted, and once as
// modified, whichever view produced it.
func ComputeStatistics(result DiffResult) DiffStatistics {
	var st DiffStatistics
	for _, l := range result.Lines {
		switch l.Type {
		case Equal:
			st.OldLines++
			st.NewLines++
			if l.CharDiffs != nil {
				st.DeletedLines++
				st.InsertedLines++
				st.ModifiedLines++
			} else {
				st.CommonLines++
			}
		case Delete:
			st.OldLines++
			st.DeletedLines++
		case Insert:
			st.NewLines++
			st.InsertedLines++
			if l.CharDiffs != nil {
				st.ModifiedLines++
			}
		}
	}
	return st
}

// ComputeRowStatistics counts the lines of a side-by-side diff the same
// way ComputeStatistics counts a unified diff.
func ComputeRowStatistics(rows SideBySideResult) DiffStatistics {
	var st DiffStatistics
	for i := range rows.Left {
		switch rows.Left[i].Type {
		case RowEqual:
			st.CommonLines++
			st.OldLines++
			st.NewLines++
		case RowDelete:
			st.OldLines++
			st.DeletedLines++
			if rows.Left[i].CharDiffs != nil {
				st.ModifiedLines++
			}
		}
		if rows.Right[i].Type == RowInsert {
			st.NewLines++
			st.InsertedLines++
		}
	}
	return st
}

// HasChanges returns true if the diff contains any changed line.
func HasChanges(result DiffResult) bool {
	for _, l := range result.Lines {
		if l.HasChanges() {
			return true
		}
	}
	return false
}
