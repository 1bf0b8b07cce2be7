package walker

// Boundary predicates. Each one probes with ordinary primitives under a
// scoped save of the cursor and restores it unconditionally, so all are
// side-effect-free. None of these are stored attributes; they are
// derived from the tree by attempting movement and watching whether it
// happens.

// AtRoot reports whether no compound expression encloses the cursor,
// i.e. exiting from here would be a no-op.
func (w *Walker) AtRoot() bool {
	start := w.sc.Pos()
	defer w.sc.SetPos(start)
	return !w.sc.AscendEnclosing()
}

// AtFirstInLevel reports whether no sibling precedes the cursor's
// expression, i.e. moving backward from here would be a no-op.
func (w *Walker) AtFirstInLevel() bool {
	start := w.sc.Pos()
	defer w.sc.SetPos(start)
	_, ok := w.Backward(1)
	return !ok
}

// AtLastInLevel reports whether no sibling follows the cursor's
// expression, i.e. moving forward from here would be a no-op.
func (w *Walker) AtLastInLevel() bool {
	start := w.sc.Pos()
	defer w.sc.SetPos(start)
	_, ok := w.Forward(1)
	return !ok
}

// AtFinalExpr reports whether the cursor is on the last expression in
// the buffer: forward is a no-op here and at every ancestor level.
func (w *Walker) AtFinalExpr() bool {
	start := w.sc.Pos()
	defer w.sc.SetPos(start)
	for {
		if _, ok := w.Forward(1); ok {
			return false
		}
		if _, ok := w.Exit(1); !ok {
			return true
		}
	}
}

// AtInitialExpr reports whether the cursor is on the first expression
// in the buffer: nothing precedes it at its level and no compound
// encloses it.
func (w *Walker) AtInitialExpr() bool {
	start := w.sc.Pos()
	defer w.sc.SetPos(start)
	if _, ok := w.Backward(1); ok {
		return false
	}
	return !w.sc.AscendEnclosing()
}

// OnEmptyCompound reports whether the cursor rests on the opening
// delimiter of a compound expression with no expressions inside.
func (w *Walker) OnEmptyCompound() bool {
	if !w.sc.AtOpenDelim() {
		return false
	}
	start := w.sc.Pos()
	defer w.sc.SetPos(start)
	w.sc.SetPos(start + 1)
	return !w.sc.SkipExprForward(1)
}

// OnCommentLine reports whether the cursor rests in comment text.
func (w *Walker) OnCommentLine() bool {
	return w.sc.AtComment()
}
