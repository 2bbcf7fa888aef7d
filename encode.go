package rowdiff

import "strings"

// Symbol identifies one distinct line within a single diff computation.
// Symbol 0 is always the empty line.
type Symbol int

// splitLines splits text on "\n". A trailing newline yields a trailing empty
// line, but the empty text has no lines at all: splitting "" produces a lone
// empty string that does not correspond to any input line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// EncodeLines maps each distinct line of oldText and newText to a Symbol.
// Symbols are assigned in order of first occurrence, oldText's lines before
// newText's, so a line repeated anywhere in either text gets one symbol.
// table[s] is the line for symbol s; table[0] is "".
func EncodeLines(oldText, newText string) (oldSyms, newSyms []Symbol, table []string) {
	return encodeLineSlices(splitLines(oldText), splitLines(newText))
}

// encodeLineSlices is EncodeLines for input that is already split.
func encodeLineSlices(oldLines, newLines []string) (oldSyms, newSyms []Symbol, table []string) {
	table = []string{""}
	index := map[string]Symbol{"": 0}

	encode := func(lines []string) []Symbol {
		syms := make([]Symbol, len(lines))
		for i, line := range lines {
			sym, ok := index[line]
			if !ok {
				sym = Symbol(len(table))
				table = append(table, line)
				index[line] = sym
			}
			syms[i] = sym
		}
		return syms
	}

	oldSyms = encode(oldLines)
	newSyms = encode(newLines)
	return oldSyms, newSyms, table
}
