package rowdiff

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// FormatOptions configures diff output formatting.
type FormatOptions struct {
	// StartDelete is the string to mark the beginning of deleted text.
	// Default: "[-"
	StartDelete string

	// StopDelete is the string to mark the end of deleted text.
	// Default: "-]"
	StopDelete string

	// StartInsert is the string to mark the beginning of inserted text.
	// Default: "{+"
	StartInsert string

	// StopInsert is the string to mark the end of inserted text.
	// Default: "+}"
	StopInsert string

	// NoDeleted, when true, suppresses deleted lines and text from unified
	// and inline output.
	NoDeleted bool

	// NoInserted, when true, suppresses inserted lines and text from unified
	// and inline output.
	NoInserted bool

	// NoCommon, when true, suppresses unchanged lines from unified and
	// inline output.
	NoCommon bool

	// UseColor enables ANSI color output. When true, DeleteColor and InsertColor
	// are used instead of text markers.
	UseColor bool

	// DeleteColor is the ANSI escape sequence for deleted text color.
	// Example: "\033[31m" for red
	DeleteColor string

	// InsertColor is the ANSI escape sequence for inserted text color.
	// Example: "\033[32m" for green
	InsertColor string

	// ChangeColor is the ANSI escape sequence for the change bar of
	// inline output.
	ChangeColor string

	// ColorReset is the ANSI escape sequence to reset colors.
	// Default: "\033[0m"
	ColorReset string

	// LessMode uses overstrike underlining for deleted text (for less -r).
	LessMode bool

	// PrinterMode uses overstrike bold for inserted text (for printing).
	PrinterMode bool

	// ShowLineNumbers enables line number display.
	ShowLineNumbers bool

	// LineNumWidth is the minimum width for line numbers. 0 means auto-calculate.
	LineNumWidth int

	// Context limits output to changed lines and this many lines around
	// them. 0 shows every line.
	Context int

	// Width is the total width of side-by-side output. 0 means DefaultWidth.
	Width int
}

// DefaultWidth is the side-by-side width used when FormatOptions.Width is 0.
const DefaultWidth = 120

// tabWidth is the number of spaces a tab expands to in side-by-side cells.
const tabWidth = 4

// ANSI escape code constants
const (
	ANSIReset       = "\033[0m"
	ANSIDeleteColor = "\033[0;31;1m" // bold red
	ANSIInsertColor = "\033[0;32;1m" // bold green
	ANSIChangeColor = "\033[0;33;1m" // bold yellow
	ANSIBold        = "\033[1m"
)

// ForegroundColors maps color names to ANSI foreground escape codes.
var ForegroundColors = map[string]string{
	"black":         "\033[30m",
	"red":           "\033[31m",
	"green":         "\033[32m",
	"yellow":        "\033[33m",
	"blue":          "\033[34m",
	"magenta":       "\033[35m",
	"cyan":          "\033[36m",
	"white":         "\033[37m",
	"brightblack":   "\033[90m",
	"brightred":     "\033[91m",
	"brightgreen":   "\033[92m",
	"brightyellow":  "\033[93m",
	"brightblue":    "\033[94m",
	"brightmagenta": "\033[95m",
	"brightcyan":    "\033[96m",
	"brightwhite":   "\033[97m",
}

// BackgroundColors maps color names to ANSI background escape codes.
var BackgroundColors = map[string]string{
	"black":         "\033[40m",
	"red":           "\033[41m",
	"green":         "\033[42m",
	"yellow":        "\033[43m",
	"blue":          "\033[44m",
	"magenta":       "\033[45m",
	"cyan":          "\033[46m",
	"white":         "\033[47m",
	"brightblack":   "\033[100m",
	"brightred":     "\033[101m",
	"brightgreen":   "\033[102m",
	"brightyellow":  "\033[103m",
	"brightblue":    "\033[104m",
	"brightmagenta": "\033[105m",
	"brightcyan":    "\033[106m",
	"brightwhite":   "\033[107m",
}

// ColorNames returns a list of all available color names.
func ColorNames() []string {
	return []string{
		"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
		"brightblack", "brightred", "brightgreen", "brightyellow",
		"brightblue", "brightmagenta", "brightcyan", "brightwhite",
	}
}

// ParseColor parses a color specification and returns the ANSI escape sequence.
// The spec can be:
//   - A single color name: "red" -> foreground red
//   - Foreground:background: "red:white" -> red text on white background
//   - Empty string returns empty string (no color)
//
// Returns an error if the color name is not recognized.
func ParseColor(spec string) (string, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", nil
	}

	fgName, bgName, hasBg := strings.Cut(spec, ":")
	fgName = strings.ToLower(strings.TrimSpace(fgName))

	var result string
	if fgName != "" {
		fg, ok := ForegroundColors[fgName]
		if !ok {
			return "", fmt.Errorf("unknown color: %s", fgName)
		}
		result = fg
	}

	if hasBg {
		bgName = strings.ToLower(strings.TrimSpace(bgName))
		if bgName != "" {
			bg, ok := BackgroundColors[bgName]
			if !ok {
				return "", fmt.Errorf("unknown background color: %s", bgName)
			}
			result += bg
		}
	}

	return result, nil
}

// ParseColorSpec parses a color specification for diff output.
// The format is: "delete_color,insert_color" where each color can be
// "fg" or "fg:bg" (e.g., "red,green" or "red:white,green:black").
//
// If only one color is specified, it's used for deletions and the default
// insert color (bold green) is used for insertions.
func ParseColorSpec(spec string) (deleteColor, insertColor string, err error) {
	del, ins, hasIns := strings.Cut(spec, ",")

	deleteColor, err = ParseColor(del)
	if err != nil {
		return "", "", fmt.Errorf("delete color: %w", err)
	}

	if !hasIns {
		return deleteColor, ANSIInsertColor, nil
	}
	insertColor, err = ParseColor(ins)
	if err != nil {
		return "", "", fmt.Errorf("insert color: %w", err)
	}
	return deleteColor, insertColor, nil
}

// DefaultFormatOptions returns FormatOptions with default settings.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{
		StartDelete: "[-",
		StopDelete:  "-]",
		StartInsert: "{+",
		StopInsert:  "+}",
		ColorReset:  ANSIReset,
		DeleteColor: ANSIDeleteColor,
		InsertColor: ANSIInsertColor,
		ChangeColor: ANSIChangeColor,
		Width:       DefaultWidth,
	}
}

// OverstrikeUnderline returns text with overstrike underlining (_\bchar for each char).
// This is used for less -r mode to highlight deleted text.
func OverstrikeUnderline(text string) string {
	var sb strings.Builder
	for _, r := range text {
		sb.WriteRune('_')
		sb.WriteRune('\b')
		sb.WriteRune(r)
	}
	return sb.String()
}

// OverstrikeBold returns text with overstrike bold (char\bchar for each char).
// This is used for printer mode to highlight inserted text.
func OverstrikeBold(text string) string {
	var sb strings.Builder
	for _, r := range text {
		sb.WriteRune(r)
		sb.WriteRune('\b')
		sb.WriteRune(r)
	}
	return sb.String()
}

// usesMarkers reports whether changed text is delimited by text markers
// rather than colors or overstrike.
func (opts FormatOptions) usesMarkers() bool {
	return !opts.UseColor && !opts.LessMode && !opts.PrinterMode
}

func (opts FormatOptions) withDefaults() FormatOptions {
	if opts.ColorReset == "" {
		opts.ColorReset = ANSIReset
	}
	if opts.StartDelete == "" && opts.StopDelete == "" {
		opts.StartDelete = "[-"
		opts.StopDelete = "-]"
	}
	if opts.StartInsert == "" && opts.StopInsert == "" {
		opts.StartInsert = "{+"
		opts.StopInsert = "+}"
	}
	return opts
}

// markers returns the text markers around a changed span of type t.
func (opts FormatOptions) markers(t Operation) (start, stop string) {
	switch {
	case !opts.usesMarkers():
		return "", ""
	case t == Delete:
		return opts.StartDelete, opts.StopDelete
	case t == Insert:
		return opts.StartInsert, opts.StopInsert
	}
	return "", ""
}

// styleSpan formats one run of text with the markers, colors, or overstrike
// for its operation.
func styleSpan(t Operation, text string, opts FormatOptions) string {
	switch t {
	case Delete:
		if opts.NoDeleted {
			return ""
		}
		if opts.LessMode || opts.PrinterMode {
			return OverstrikeUnderline(text)
		}
		if opts.UseColor {
			return opts.DeleteColor + text + opts.ColorReset
		}
		return opts.StartDelete + text + opts.StopDelete
	case Insert:
		if opts.NoInserted {
			return ""
		}
		if opts.LessMode || opts.PrinterMode {
			return OverstrikeBold(text)
		}
		if opts.UseColor {
			return opts.InsertColor + text + opts.ColorReset
		}
		return opts.StartInsert + text + opts.StopInsert
	}
	if opts.NoCommon {
		return ""
	}
	return text
}

// styleLine formats a wholly deleted or inserted line. The line prefix or
// gutter already tells the change apart, so text markers are omitted.
func styleLine(t Operation, text string, opts FormatOptions) string {
	if opts.usesMarkers() {
		return text
	}
	return styleSpan(t, text, opts)
}

// FormatCharDiffs renders a character diff as a single line, marking
// deleted and inserted runs. Unchanged runs are always shown.
func FormatCharDiffs(diffs []CharDiff, opts FormatOptions) string {
	opts = opts.withDefaults()
	opts.NoCommon = false
	var sb strings.Builder
	for _, d := range diffs {
		sb.WriteString(styleSpan(d.Type, d.Text, opts))
	}
	return sb.String()
}

// formatSide renders one side of a changed line: the runs of the character
// diff that belong to side, or the whole line when there is no character
// diff.
func formatSide(l DiffLine, side Operation, opts FormatOptions) string {
	if l.CharDiffs == nil {
		return styleLine(side, l.Content, opts)
	}
	var sb strings.Builder
	for _, d := range l.CharDiffs {
		switch d.Type {
		case Equal:
			sb.WriteString(d.Text)
		case side:
			sb.WriteString(styleSpan(d.Type, d.Text, opts))
		}
	}
	return sb.String()
}

// lineNumWidth returns the width to print line numbers up to maxLine with.
func lineNumWidth(opts FormatOptions, maxLine int) int {
	if opts.LineNumWidth > 0 {
		return opts.LineNumWidth
	}
	return max(3, len(strconv.Itoa(maxLine)))
}

func maxLineNumber(lines []DiffLine) int {
	n := 0
	for _, l := range lines {
		n = max(n, l.OldLineNumber, l.NewLineNumber)
	}
	return n
}

// linePrefix renders the old:new line number column. Missing numbers are
// left blank.
func linePrefix(oldNum, newNum, width int) string {
	// Old line: width + 1 (right-aligned with one leading space for largest number)
	// New line: width + 2 (left-aligned with trailing space plus breathing room)
	oldWidth := width + 1
	newWidth := width + 2
	oldStr := fmt.Sprintf("%*d", oldWidth, oldNum)
	newStr := fmt.Sprintf("%-*d", newWidth, newNum)
	if oldNum == 0 {
		oldStr = strings.Repeat(" ", oldWidth)
	}
	if newNum == 0 {
		newStr = strings.Repeat(" ", newWidth)
	}
	return oldStr + ":" + newStr
}

// FormatUnified renders a unified diff with "-", "+" and " " line prefixes.
// Changed runs of modified lines are marked; when opts.Context is set,
// hunks are separated by "---".
func FormatUnified(result DiffResult, opts FormatOptions) string {
	opts = opts.withDefaults()
	width := lineNumWidth(opts, maxLineNumber(result.Lines))

	var out []string
	for i, h := range ContextHunks(lineChanges(result.Lines), opts.Context) {
		if i > 0 {
			out = append(out, "---")
		}
		for _, l := range result.Lines[h.Start:h.End] {
			var body string
			switch l.Type {
			case Equal:
				if opts.NoCommon {
					continue
				}
				body = "  " + l.Content
			case Delete:
				if opts.NoDeleted {
					continue
				}
				body = "- " + formatSide(l, Delete, opts)
			case Insert:
				if opts.NoInserted {
					continue
				}
				body = "+ " + formatSide(l, Insert, opts)
			}
			if opts.ShowLineNumbers {
				body = linePrefix(l.OldLineNumber, l.NewLineNumber, width) + body
			}
			out = append(out, body)
		}
	}
	return strings.Join(out, "\n")
}

// FormatInline renders an inline diff. Modified lines show deleted and
// inserted runs side by side within the line; changed lines are flagged
// with a "| " bar, or with their line numbers when opts.ShowLineNumbers is
// set.
func FormatInline(result DiffResult, opts FormatOptions) string {
	opts = opts.withDefaults()
	width := lineNumWidth(opts, maxLineNumber(result.Lines))

	var out []string
	for i, h := range ContextHunks(lineChanges(result.Lines), opts.Context) {
		if i > 0 {
			out = append(out, "---")
		}
		for _, l := range result.Lines[h.Start:h.End] {
			var body string
			switch {
			case l.Type == Equal && l.CharDiffs != nil:
				body = FormatCharDiffs(l.CharDiffs, opts)
			case l.Type == Equal:
				if opts.NoCommon {
					continue
				}
				body = l.Content
			case l.Type == Delete:
				if opts.NoDeleted {
					continue
				}
				body = styleSpan(Delete, l.Content, opts)
			case l.Type == Insert:
				if opts.NoInserted {
					continue
				}
				body = styleSpan(Insert, l.Content, opts)
			}

			switch {
			case opts.ShowLineNumbers:
				body = linePrefix(l.OldLineNumber, l.NewLineNumber, width) + body
			case l.HasChanges() && opts.UseColor:
				body = opts.ChangeColor + "| " + opts.ColorReset + body
			case l.HasChanges():
				body = "| " + body
			default:
				body = "  " + body
			}
			out = append(out, body)
		}
	}
	return strings.Join(out, "\n")
}

// cellSpan is one run of text in a side-by-side cell. marked runs come from
// a character diff and get text markers in marker mode.
type cellSpan struct {
	t      Operation
	text   string
	marked bool
}

func cellSpans(row SideBySideRow, side Operation) []cellSpan {
	switch {
	case row.Type == RowEmpty:
		return nil
	case row.Type == RowEqual:
		return []cellSpan{{t: Equal, text: row.Content}}
	case row.CharDiffs == nil:
		return []cellSpan{{t: side, text: row.Content}}
	}
	var spans []cellSpan
	for _, d := range row.CharDiffs {
		if d.Type == Equal || d.Type == side {
			spans = append(spans, cellSpan{t: d.Type, text: d.Text, marked: d.Type != Equal})
		}
	}
	return spans
}

// renderCell lays spans out in exactly width display columns, truncating
// or padding as needed. Widths are measured before styling so color codes
// and overstrike sequences do not count.
func renderCell(spans []cellSpan, width int, opts FormatOptions) string {
	var sb strings.Builder
	used := 0
	for _, s := range spans {
		text := cellText(s.text)
		var start, stop string
		if s.marked {
			start, stop = opts.markers(s.t)
		}
		overhead := runewidth.StringWidth(start) + runewidth.StringWidth(stop)
		avail := width - used - overhead
		if avail <= 0 {
			break
		}
		clipped := runewidth.StringWidth(text) > avail
		if clipped {
			text = runewidth.Truncate(text, avail, "")
		}
		switch {
		case s.t == Equal:
			sb.WriteString(text)
		case s.marked:
			sb.WriteString(styleSpan(s.t, text, opts))
		default:
			sb.WriteString(styleLine(s.t, text, opts))
		}
		used += runewidth.StringWidth(text) + overhead
		if clipped {
			break
		}
	}
	sb.WriteString(runewidth.FillRight("", width-used))
	return sb.String()
}

// cellText expands tabs and drops carriage returns. Any other control
// character is shown as "?" so it cannot move the cursor.
func cellText(text string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\r':
			return -1
		case unicode.IsControl(r):
			return '?'
		}
		return r
	}, strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth)))
}

// FormatSideBySide renders two columns separated by a gutter that shows "<"
// for deleted rows, ">" for inserted rows and "|" for unchanged rows. Text
// that does not fit its column is truncated.
func FormatSideBySide(rows SideBySideResult, opts FormatOptions) string {
	opts = opts.withDefaults()
	opts.NoCommon, opts.NoDeleted, opts.NoInserted = false, false, false

	total := opts.Width
	if total <= 0 {
		total = DefaultWidth
	}
	numWidth := 0
	if opts.ShowLineNumbers {
		maxLine := 0
		for i := range rows.Left {
			maxLine = max(maxLine, rows.Left[i].LineNumber, rows.Right[i].LineNumber)
		}
		numWidth = lineNumWidth(opts, maxLine) + 1
	}
	const gutter = 3
	column := max(1, (total-gutter)/2-numWidth)

	number := func(row SideBySideRow) string {
		if numWidth == 0 {
			return ""
		}
		if row.Type == RowEmpty {
			return strings.Repeat(" ", numWidth)
		}
		return fmt.Sprintf("%*d ", numWidth-1, row.LineNumber)
	}

	var out []string
	for i, h := range ContextHunks(rowChanges(rows), opts.Context) {
		if i > 0 {
			out = append(out, "---")
		}
		for j := h.Start; j < h.End; j++ {
			left, right := rows.Left[j], rows.Right[j]
			mid := " | "
			switch {
			case left.Type == RowDelete:
				mid = " < "
			case right.Type == RowInsert:
				mid = " > "
			}
			line := number(left) + renderCell(cellSpans(left, Delete), column, opts) +
				mid + number(right) + renderCell(cellSpans(right, Insert), column, opts)
			out = append(out, strings.TrimRight(line, " "))
		}
	}
	return strings.Join(out, "\n")
}
