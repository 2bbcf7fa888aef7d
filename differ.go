package rowdiff

import (
	"strconv"
	"unicode"

	"github.com/dacharyc/diffx"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// SymbolOp is one run of a line-level edit script.
type SymbolOp struct {
	Type    Operation
	Symbols []Symbol
}

// Differ is the sequence-diff primitive the engine is built on.
//
// DiffSymbols returns a well-formed edit script: the Equal and Delete runs,
// concatenated in order, reproduce a; the Equal and Insert runs reproduce b.
// Adjacent runs of the same kind are merged and, within every stretch of
// changes, the Delete run precedes the Insert run.
//
// DiffChars returns a semantically cleaned character diff of two lines.
type Differ interface {
	DiffSymbols(a, b []Symbol) []SymbolOp
	DiffChars(a, b string) []CharDiff
}

// NewDiffer returns the Differ selected by opts.Algorithm.
func NewDiffer(opts Options) Differ {
	chars := newDMPDiffer(opts)
	switch opts.Algorithm {
	case AlgorithmHistogram:
		return &diffxDiffer{histogram: true, dmpDiffer: chars}
	case AlgorithmMyers:
		return &diffxDiffer{dmpDiffer: chars}
	default:
		return chars
	}
}

// Symbols are carried through diff-match-patch as runes. The surrogate block
// is skipped because those values are not valid runes and would not survive
// conversion to a string.
const (
	surrogateMin = 0xD800
	surrogateLen = 0x800
	maxRuneSym   = unicode.MaxRune - surrogateLen
)

func symbolRune(s Symbol) rune {
	if s >= surrogateMin {
		return rune(s + surrogateLen)
	}
	return rune(s)
}

func runeSymbol(r rune) Symbol {
	if r >= surrogateMin+surrogateLen {
		return Symbol(r - surrogateLen)
	}
	return Symbol(r)
}

// dmpDiffer diffs with diff-match-patch.
type dmpDiffer struct {
	dmp     *diffmatchpatch.DiffMatchPatch
	cleanup Cleanup
}

func newDMPDiffer(opts Options) *dmpDiffer {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = opts.Timeout
	return &dmpDiffer{dmp: dmp, cleanup: opts.LineCleanup}
}

func (d *dmpDiffer) DiffSymbols(a, b []Symbol) []SymbolOp {
	if exceedsRuneAlphabet(a) || exceedsRuneAlphabet(b) {
		return diffHistogram(a, b, d.cleanup)
	}

	ra := make([]rune, len(a))
	for i, s := range a {
		ra[i] = symbolRune(s)
	}
	rb := make([]rune, len(b))
	for i, s := range b {
		rb[i] = symbolRune(s)
	}

	diffs := d.dmp.DiffMainRunes(ra, rb, false)

	ops := make([]SymbolOp, 0, len(diffs))
	for _, df := range diffs {
		runes := []rune(df.Text)
		syms := make([]Symbol, len(runes))
		for i, r := range runes {
			syms[i] = runeSymbol(r)
		}
		ops = append(ops, SymbolOp{Type: fromDMP(df.Type), Symbols: syms})
	}
	return cleanupOps(ops, d.cleanup)
}

func (d *dmpDiffer) DiffChars(a, b string) []CharDiff {
	diffs := d.dmp.DiffMain(a, b, false)
	diffs = d.dmp.DiffCleanupSemantic(diffs)

	result := make([]CharDiff, 0, len(diffs))
	for _, df := range diffs {
		if df.Text == "" {
			continue
		}
		result = append(result, CharDiff{Type: fromDMP(df.Type), Text: df.Text})
	}
	return result
}

func fromDMP(op diffmatchpatch.Operation) Operation {
	switch op {
	case diffmatchpatch.DiffDelete:
		return Delete
	case diffmatchpatch.DiffInsert:
		return Insert
	default:
		return Equal
	}
}

func exceedsRuneAlphabet(syms []Symbol) bool {
	for _, s := range syms {
		if s > maxRuneSym {
			return true
		}
	}
	return false
}

// diffxDiffer diffs lines with diffx and characters with diff-match-patch.
type diffxDiffer struct {
	*dmpDiffer
	histogram bool
}

func (d *diffxDiffer) DiffSymbols(a, b []Symbol) []SymbolOp {
	if d.histogram {
		return diffHistogram(a, b, CleanupNone)
	}
	ops := diffx.DiffElements(symbolElements(a), symbolElements(b))
	return cleanupOps(fromDiffx(ops, a, b), CleanupNone)
}

func diffHistogram(a, b []Symbol, cleanup Cleanup) []SymbolOp {
	ops := diffx.DiffHistogram(symbolStrings(a), symbolStrings(b))
	return cleanupOps(fromDiffx(ops, a, b), cleanup)
}

// fromDiffx rebuilds an edit script from the Equal ops of a diffx result.
// The Delete and Insert ranges diffx reports may overlap or leave gaps, so
// they are ignored: the changes are whatever lies between two consecutive
// equal stretches. Equal ranges that run backwards, out of bounds, or over
// differing symbols are trimmed to the part that really matches.
func fromDiffx(ops []diffx.DiffOp, a, b []Symbol) []SymbolOp {
	result := make([]SymbolOp, 0, len(ops))
	prevA, prevB := 0, 0

	for _, op := range ops {
		if op.Type != diffx.Equal {
			continue
		}
		skip := max(prevA-op.AStart, prevB-op.BStart, 0)
		as, bs := op.AStart+skip, op.BStart+skip
		n := min(op.AEnd-as, op.BEnd-bs, len(a)-as, len(b)-bs)
		if as < 0 || bs < 0 || n <= 0 {
			continue
		}
		n = commonPrefix(a[as:as+n], b[bs:bs+n])
		if n == 0 {
			continue
		}

		result = appendRun(result, Delete, a[prevA:as])
		result = appendRun(result, Insert, b[prevB:bs])
		result = appendRun(result, Equal, a[as:as+n])
		prevA, prevB = as+n, bs+n
	}

	result = appendRun(result, Delete, a[prevA:])
	result = appendRun(result, Insert, b[prevB:])
	return result
}

func symbolStrings(syms []Symbol) []string {
	strs := make([]string, len(syms))
	for i, s := range syms {
		strs[i] = strconv.Itoa(int(s))
	}
	return strs
}

// symbolElement lets diffx compare symbols without formatting them.
type symbolElement Symbol

func (s symbolElement) Equal(other diffx.Element) bool {
	o, ok := other.(symbolElement)
	return ok && s == o
}

func (s symbolElement) Hash() uint64 {
	return uint64(s)
}

func symbolElements(syms []Symbol) []diffx.Element {
	elems := make([]diffx.Element, len(syms))
	for i, s := range syms {
		elems[i] = symbolElement(s)
	}
	return elems
}
