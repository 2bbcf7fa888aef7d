package rowdiff

// lineRun is a SymbolOp decoded back into line text.
type lineRun struct {
	Type  Operation
	Lines []string
}

// block is the unit every view walks: either a run of unchanged lines, or a
// stretch of changes made of a Delete run and the Insert run immediately
// following it (either may be empty).
type block struct {
	Equal    []string
	Deleted  []string
	Inserted []string
}

// cursor holds the next 1-based line number on each side.
type cursor struct {
	old, new int
}

func newCursor() cursor {
	return cursor{old: 1, new: 1}
}

func (c *cursor) nextOld() int {
	n := c.old
	c.old++
	return n
}

func (c *cursor) nextNew() int {
	n := c.new
	c.new++
	return n
}

// decodeRuns maps each symbol back to exactly one line. Runs that decode to
// no lines are dropped, so no view ever sees a phantom empty line.
func decodeRuns(ops []SymbolOp, table []string) []lineRun {
	runs := make([]lineRun, 0, len(ops))
	for _, op := range ops {
		if len(op.Symbols) == 0 {
			continue
		}
		lines := make([]string, len(op.Symbols))
		for i, s := range op.Symbols {
			lines[i] = table[s]
		}
		runs = append(runs, lineRun{Type: op.Type, Lines: lines})
	}
	return runs
}

// diffLineRuns runs the line pass shared by every view: encode, diff, decode.
func diffLineRuns(oldLines, newLines []string, d Differ) []lineRun {
	oldSyms, newSyms, table := encodeLineSlices(oldLines, newLines)
	return decodeRuns(d.DiffSymbols(oldSyms, newSyms), table)
}

// groupBlocks pairs each Delete run with the Insert run directly after it.
// An Insert run with no Delete run before it, or a Delete run followed by
// anything but an Insert run, forms a block on its own.
func groupBlocks(runs []lineRun) []block {
	blocks := make([]block, 0, len(runs))
	for i := 0; i < len(runs); i++ {
		r := runs[i]
		switch r.Type {
		case Equal:
			blocks = append(blocks, block{Equal: r.Lines})
		case Insert:
			blocks = append(blocks, block{Inserted: r.Lines})
		case Delete:
			b := block{Deleted: r.Lines}
			if i+1 < len(runs) && runs[i+1].Type == Insert {
				b.Inserted = runs[i+1].Lines
				i++
			}
			blocks = append(blocks, b)
		}
	}
	return blocks
}
