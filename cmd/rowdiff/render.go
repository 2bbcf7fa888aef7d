package main

import (
	"encoding/json"

	"github.com/dacharyc/rowdiff"
)

// view holds everything needed to turn two texts into output.
type view struct {
	mode    string
	json    bool
	opts    rowdiff.Options
	fmtOpts rowdiff.FormatOptions
}

// rendered is the output of one diff.
type rendered struct {
	text    string
	stats   rowdiff.DiffStatistics
	changed bool
}

// jsonOutput is the document printed by --json.
type jsonOutput struct {
	Mode       string                 `json:"mode"`
	Statistics rowdiff.DiffStatistics `json:"statistics"`
	Diff       any                    `json:"diff"`
}

// render diffs oldText against newText in the view's mode.
func (v view) render(oldText, newText string) (rendered, error) {
	var out rendered
	var diff any

	// Format* apply the context filter themselves, so only the JSON
	// document is filtered here.
	switch v.mode {
	case modeSideBySide:
		rows := rowdiff.SideBySideDiff(oldText, newText, v.opts)
		out.stats = rowdiff.ComputeRowStatistics(rows)
		out.text = rowdiff.FormatSideBySide(rows, v.fmtOpts)
		diff = rowdiff.FilterRowsWithContext(rows, v.fmtOpts.Context)
	case modeInline:
		result := rowdiff.InlineDiff(oldText, newText, v.opts)
		out.stats = rowdiff.ComputeStatistics(result)
		out.text = rowdiff.FormatInline(result, v.fmtOpts)
		result.Lines = rowdiff.FilterWithContext(result.Lines, v.fmtOpts.Context)
		diff = result
	default:
		result := rowdiff.UnifiedDiff(oldText, newText, v.opts)
		out.stats = rowdiff.ComputeStatistics(result)
		out.text = rowdiff.FormatUnified(result, v.fmtOpts)
		result.Lines = rowdiff.FilterWithContext(result.Lines, v.fmtOpts.Context)
		diff = result
	}

	out.changed = out.stats.DeletedLines > 0 || out.stats.InsertedLines > 0

	if v.json {
		data, err := json.MarshalIndent(jsonOutput{Mode: v.mode, Statistics: out.stats, Diff: diff}, "", "  ")
		if err != nil {
			return rendered{}, err
		}
		out.text = string(data)
	}
	return out, nil
}
