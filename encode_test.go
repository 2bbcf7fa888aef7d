package rowdiff

import (
	"reflect"
	"testing"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a\n", []string{"a", ""}},
		{"\n", []string{"", ""}},
		{"a\n\nb", []string{"a", "", "b"}},
		{"a\r\nb", []string{"a\r", "b"}},
	}

	for _, tt := range tests {
		got := splitLines(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitLines(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestEncodeLines(t *testing.T) {
	tests := []struct {
		name      string
		old, new  string
		wantOld   []Symbol
		wantNew   []Symbol
		wantTable []string
	}{
		{
			name:      "both empty",
			wantOld:   []Symbol{},
			wantNew:   []Symbol{},
			wantTable: []string{""},
		},
		{
			name:      "shared lines share symbols",
			old:       "a\nb\na",
			new:       "b\nc",
			wantOld:   []Symbol{1, 2, 1},
			wantNew:   []Symbol{2, 3},
			wantTable: []string{"", "a", "b", "c"},
		},
		{
			name:      "blank line is symbol zero",
			old:       "a\n\nb",
			new:       "\n",
			wantOld:   []Symbol{1, 0, 2},
			wantNew:   []Symbol{0, 0},
			wantTable: []string{"", "a", "b"},
		},
		{
			name:      "new text only",
			new:       "x\ny",
			wantOld:   []Symbol{},
			wantNew:   []Symbol{1, 2},
			wantTable: []string{"", "x", "y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotOld, gotNew, table := EncodeLines(tt.old, tt.new)
			if len(gotOld) != len(tt.wantOld) || (len(gotOld) > 0 && !reflect.DeepEqual(gotOld, tt.wantOld)) {
				t.Errorf("old symbols = %v, want %v", gotOld, tt.wantOld)
			}
			if len(gotNew) != len(tt.wantNew) || (len(gotNew) > 0 && !reflect.DeepEqual(gotNew, tt.wantNew)) {
				t.Errorf("new symbols = %v, want %v", gotNew, tt.wantNew)
			}
			if !reflect.DeepEqual(table, tt.wantTable) {
				t.Errorf("table = %q, want %q", table, tt.wantTable)
			}
		})
	}
}

func TestEncodeLinesRoundTrip(t *testing.T) {
	oldText := "package main\n\nfunc main() {\n}\n"
	newText := "package main\n\nimport \"fmt\"\n\nfunc main() {\n\tfmt.Println()\n}\n"

	oldSyms, newSyms, table := EncodeLines(oldText, newText)
	decode := func(syms []Symbol) []string {
		lines := make([]string, len(syms))
		for i, s := range syms {
			lines[i] = table[s]
		}
		return lines
	}

	if got, want := decode(oldSyms), splitLines(oldText); !reflect.DeepEqual(got, want) {
		t.Errorf("decoded old = %q, want %q", got, want)
	}
	if got, want := decode(newSyms), splitLines(newText); !reflect.DeepEqual(got, want) {
		t.Errorf("decoded new = %q, want %q", got, want)
	}
}

func TestSymbolRunes(t *testing.T) {
	tests := []struct {
		sym  Symbol
		want rune
	}{
		{0, 0},
		{1, 1},
		{surrogateMin - 1, surrogateMin - 1},
		{surrogateMin, surrogateMin + surrogateLen},
		{surrogateMin + 1, surrogateMin + surrogateLen + 1},
		{maxRuneSym, 0x10FFFF},
	}

	for _, tt := range tests {
		r := symbolRune(tt.sym)
		if r != tt.want {
			t.Errorf("symbolRune(%d) = %#x, want %#x", tt.sym, r, tt.want)
		}
		if r >= surrogateMin && r < surrogateMin+surrogateLen {
			t.Errorf("symbolRune(%d) = %#x is a surrogate", tt.sym, r)
		}
		if back := runeSymbol(r); back != tt.sym {
			t.Errorf("runeSymbol(symbolRune(%d)) = %d", tt.sym, back)
		}
		if back := []rune(string(r)); len(back) != 1 || back[0] != r {
			t.Errorf("rune %#x does not survive a string round trip", r)
		}
	}
}
