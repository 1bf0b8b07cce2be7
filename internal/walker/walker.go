package walker

import (
	"github.com/dshills/symflow/internal/traverse"
)

// Walker executes directional intents against a scanner's cursor. Each
// primitive returns the displacement actually achieved together with an
// ok flag; ok is false exactly when no movement occurred. Primitives
// never panic and never leave the cursor worse than where it started.
//
// The walker is not safe for concurrent use: it drives a single shared
// cursor, and every operation assumes exclusive access to it.
type Walker struct {
	sc Scanner
}

// New returns a walker over sc. The scanner's cursor is used as-is.
func New(sc Scanner) *Walker {
	return &Walker{sc: sc}
}

// Scanner returns the oracle the walker drives.
func (w *Walker) Scanner() Scanner {
	return w.sc
}

// ifStuck runs op and inspects the cursor: if the position is unchanged
// afterward the result is discarded and fallback runs instead. Position
// comparison is the only failure signal the oracle guarantees, so this
// is the canonical way to turn "nothing happened" into an alternative
// action.
func (w *Walker) ifStuck(fallback, op func() bool) bool {
	start := w.sc.Pos()
	ok := op()
	if w.sc.Pos() == start {
		return fallback()
	}
	return ok
}

// Forward moves to the start of the next sibling expression, count
// times, accumulating the achieved displacement. A cursor in the gap
// between siblings normalizes onto the following expression as its
// first step.
func (w *Walker) Forward(count int) (traverse.Move, bool) {
	total := 0
	for i := 0; i < count; i++ {
		if !w.forwardOne() {
			break
		}
		total++
	}
	if total == 0 {
		return traverse.Stay, false
	}
	return traverse.NewMove(total, 0), true
}

// forwardOne skips over two expressions and back over one, landing at
// the start of the next sibling. When fewer than two remain, a single
// skip and backtrack normalizes gap positions; from the start of the
// final sibling the round trip ends where it began, which reads as no
// movement.
func (w *Walker) forwardOne() bool {
	return w.ifStuck(
		func() bool { return false },
		func() bool {
			if !w.sc.SkipExprForward(2) && !w.sc.SkipExprForward(1) {
				return false
			}
			return w.sc.SkipExprBackward(1)
		},
	)
}

// Backward moves to the start of the previous sibling expression,
// count times, accumulating the achieved displacement.
func (w *Walker) Backward(count int) (traverse.Move, bool) {
	total := 0
	for i := 0; i < count; i++ {
		if !w.sc.SkipExprBackward(1) {
			break
		}
		total++
	}
	if total == 0 {
		return traverse.Stay, false
	}
	return traverse.NewMove(-total, 0), true
}

// Enter descends into the expression at the cursor, count times. From
// an opening delimiter of a non-empty compound it lands on the first
// child; from comment text it flows to the expression after the
// comment. At an atom or an empty compound there is nowhere to go.
func (w *Walker) Enter(count int) (traverse.Move, bool) {
	total := 0
	for i := 0; i < count; i++ {
		if !w.enterOne() {
			break
		}
		total++
	}
	if total == 0 {
		return traverse.Stay, false
	}
	return traverse.NewMove(0, total), true
}

func (w *Walker) enterOne() bool {
	if w.sc.AtComment() {
		return w.sc.EnterComment()
	}
	if !w.sc.AtOpenDelim() {
		return false
	}
	start := w.sc.Pos()
	w.sc.SetPos(start + 1)
	if !w.sc.SkipExprForward(1) {
		// Empty compound.
		w.sc.SetPos(start)
		return false
	}
	w.sc.SkipExprBackward(1)
	return true
}

// Exit ascends to the opening delimiter of the enclosing compound,
// count times. At the outermost level there is no enclosing expression
// and no movement.
func (w *Walker) Exit(count int) (traverse.Move, bool) {
	total := 0
	for i := 0; i < count; i++ {
		if !w.sc.AscendEnclosing() {
			break
		}
		total++
	}
	if total == 0 {
		return traverse.Stay, false
	}
	return traverse.NewMove(0, -total), true
}
