package rowdiff

// cleanupOps normalizes a raw line-level edit script.
func cleanupOps(ops []SymbolOp, mode Cleanup) []SymbolOp {
	ops = mergeOps(ops)
	switch mode {
	case CleanupSemantic:
		ops = foldEqualities(ops)
		ops = shiftBoundaries(ops)
	case CleanupLossless:
		ops = shiftBoundaries(ops)
	}
	return ops
}

// appendRun appends syms as a run of type t, extending the last run when it
// has the same type. Symbols are always copied so runs never share storage.
func appendRun(ops []SymbolOp, t Operation, syms []Symbol) []SymbolOp {
	if len(syms) == 0 {
		return ops
	}
	if n := len(ops); n > 0 && ops[n-1].Type == t {
		ops[n-1].Symbols = append(ops[n-1].Symbols, syms...)
		return ops
	}
	return append(ops, SymbolOp{Type: t, Symbols: append([]Symbol(nil), syms...)})
}

// commonPrefix returns the length of the common prefix of a and b.
func commonPrefix(a, b []Symbol) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// commonSuffix returns the length of the common suffix of a and b.
func commonSuffix(a, b []Symbol) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}
	return n
}

// mergeOps joins every stretch of changes into one Delete run followed by
// one Insert run, drops empty runs, and moves symbols common to the start or
// end of both runs into the surrounding Equal runs.
func mergeOps(ops []SymbolOp) []SymbolOp {
	result := make([]SymbolOp, 0, len(ops))
	var deletes, inserts []Symbol

	flush := func() {
		var suffix []Symbol
		if len(deletes) > 0 && len(inserts) > 0 {
			if n := commonPrefix(deletes, inserts); n > 0 {
				result = appendRun(result, Equal, deletes[:n])
				deletes = deletes[n:]
				inserts = inserts[n:]
			}
			if n := commonSuffix(deletes, inserts); n > 0 {
				suffix = deletes[len(deletes)-n:]
				deletes = deletes[:len(deletes)-n]
				inserts = inserts[:len(inserts)-n]
			}
		}
		result = appendRun(result, Delete, deletes)
		result = appendRun(result, Insert, inserts)
		result = appendRun(result, Equal, suffix)
		deletes, inserts = nil, nil
	}

	for _, op := range ops {
		if len(op.Symbols) == 0 {
			continue
		}
		switch op.Type {
		case Delete:
			deletes = append(deletes, op.Symbols...)
		case Insert:
			inserts = append(inserts, op.Symbols...)
		default:
			flush()
			result = appendRun(result, Equal, op.Symbols)
		}
	}
	flush()

	return result
}

// boundaryScore rates how readable an edit boundary between two lines is.
// Text edges score highest, then boundaries just after a blank line (symbol
// 0), then boundaries just before one.
func boundaryScore(before, after []Symbol) int {
	switch {
	case len(before) == 0 || len(after) == 0:
		return 3
	case before[len(before)-1] == 0:
		return 2
	case after[0] == 0:
		return 1
	}
	return 0
}

// shiftBoundaries slides each single-kind edit that sits between two Equal
// runs to the position with the most readable boundaries. Sliding never
// changes the edit itself, only which copy of a repeated line is reported as
// changed, e.g. with "" as the blank line
//
//	EQUAL[a] INSERT["" b] EQUAL["" c]  ->  EQUAL[a ""] INSERT[b ""] EQUAL[c]
func shiftBoundaries(ops []SymbolOp) []SymbolOp {
	if len(ops) < 3 {
		return ops
	}
	changed := false

	for i := 1; i < len(ops)-1; i++ {
		if ops[i-1].Type != Equal || ops[i+1].Type != Equal || ops[i].Type == Equal {
			continue
		}
		eq1 := append([]Symbol(nil), ops[i-1].Symbols...)
		edit := append([]Symbol(nil), ops[i].Symbols...)
		eq2 := append([]Symbol(nil), ops[i+1].Symbols...)

		// Slide as far left as possible.
		for len(eq1) > 0 && eq1[len(eq1)-1] == edit[len(edit)-1] {
			last := eq1[len(eq1)-1]
			eq1 = eq1[:len(eq1)-1]
			edit = append([]Symbol{last}, edit[:len(edit)-1]...)
			eq2 = append([]Symbol{last}, eq2...)
		}

		// Step right, keeping the best scoring position. Ties go right.
		bestEq1, bestEdit, bestEq2 := eq1, edit, eq2
		bestScore := boundaryScore(eq1, edit) + boundaryScore(edit, eq2)
		for len(eq2) > 0 && edit[0] == eq2[0] {
			eq1 = append(append([]Symbol(nil), eq1...), edit[0])
			edit = append(append([]Symbol(nil), edit[1:]...), eq2[0])
			eq2 = eq2[1:]
			if score := boundaryScore(eq1, edit) + boundaryScore(edit, eq2); score >= bestScore {
				bestScore = score
				bestEq1, bestEdit, bestEq2 = eq1, edit, eq2
			}
		}

		if len(bestEq1) != len(ops[i-1].Symbols) {
			ops[i-1].Symbols = bestEq1
			ops[i].Symbols = bestEdit
			ops[i+1].Symbols = bestEq2
			changed = true
		}
	}

	if changed {
		return mergeOps(ops)
	}
	return ops
}

// changeLengths returns the number of deleted and inserted symbols in the
// stretch of changes ending before index end, or starting at index start.
func changeLengths(ops []SymbolOp, from, step int) (deleted, inserted int) {
	for i := from; i >= 0 && i < len(ops) && ops[i].Type != Equal; i += step {
		if ops[i].Type == Delete {
			deleted += len(ops[i].Symbols)
		} else {
			inserted += len(ops[i].Symbols)
		}
	}
	return deleted, inserted
}

// foldEqualities turns short Equal runs sandwiched between larger changes
// into a deletion plus an insertion, so that a block rewritten around a
// coincidentally shared line reads as one change. An Equal run is folded
// when it is no longer than the larger side of the changes on each side of
// it. Folding repeats until nothing changes, since each fold can make a
// neighbouring Equal run eligible.
func foldEqualities(ops []SymbolOp) []SymbolOp {
	for {
		folded := false
		result := make([]SymbolOp, 0, len(ops))

		for i, op := range ops {
			if op.Type != Equal || i == 0 || i == len(ops)-1 {
				result = append(result, op)
				continue
			}
			del1, ins1 := changeLengths(ops, i-1, -1)
			del2, ins2 := changeLengths(ops, i+1, 1)
			n := len(op.Symbols)
			if n <= max(del1, ins1) && n <= max(del2, ins2) {
				result = append(result, SymbolOp{Type: Delete, Symbols: op.Symbols})
				result = append(result, SymbolOp{Type: Insert, Symbols: op.Symbols})
				folded = true
				continue
			}
			result = append(result, op)
		}

		if !folded {
			return ops
		}
		ops = mergeOps(result)
	}
}
