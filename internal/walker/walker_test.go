package walker

import (
	"testing"

	"github.com/dshills/symflow/internal/buffer"
	"github.com/dshills/symflow/internal/lang"
	"github.com/dshills/symflow/internal/sexp"
	"github.com/dshills/symflow/internal/traverse"
)

func testWalker(text string) (*Walker, Scanner) {
	sc := sexp.NewScanner(buffer.New(text), lang.Lisp)
	return New(sc), sc
}

// (a (b c) d)
// (e)
// a=1 (b c)=3 b=4 c=6 d=9 second-form=12 e=13
const tree = "(a (b c) d)\n(e)"

func TestForward(t *testing.T) {
	tests := []struct {
		name  string
		from  int64
		count int
		move  traverse.Move
		ok    bool
		pos   int64
	}{
		{"first to second sibling", 1, 1, traverse.Move{X: 1}, true, 3},
		{"second to third sibling", 3, 1, traverse.Move{X: 1}, true, 9},
		{"two steps", 1, 2, traverse.Move{X: 2}, true, 9},
		{"partial achievement", 1, 5, traverse.Move{X: 2}, true, 9},
		{"stuck at last in level", 9, 1, traverse.Stay, false, 9},
		{"across top level", 0, 1, traverse.Move{X: 1}, true, 12},
		{"stuck at last top level", 12, 1, traverse.Stay, false, 12},
		{"inner level", 4, 1, traverse.Move{X: 1}, true, 6},
		{"stuck at inner last", 6, 1, traverse.Stay, false, 6},
		{"zero count", 1, 0, traverse.Stay, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, sc := testWalker(tree)
			sc.SetPos(tt.from)
			move, ok := w.Forward(tt.count)
			if ok != tt.ok || move != tt.move {
				t.Errorf("Forward(%d) = %v, %v; want %v, %v", tt.count, move, ok, tt.move, tt.ok)
			}
			if sc.Pos() != tt.pos {
				t.Errorf("cursor at %d, want %d", sc.Pos(), tt.pos)
			}
		})
	}
}

func TestForwardFromGap(t *testing.T) {
	w, sc := testWalker(tree)

	// A gap before the final sibling normalizes onto it.
	sc.SetPos(8)
	move, ok := w.Forward(1)
	if !ok || move.X != 1 {
		t.Fatalf("Forward from gap = %v, %v", move, ok)
	}
	if sc.Pos() != 9 {
		t.Errorf("cursor at %d, want 9", sc.Pos())
	}

	// A gap inside (b c) before c normalizes onto c.
	sc.SetPos(5)
	move, ok = w.Forward(1)
	if !ok || move.X != 1 {
		t.Fatalf("Forward from inner gap = %v, %v", move, ok)
	}
	if sc.Pos() != 6 {
		t.Errorf("cursor at %d, want 6", sc.Pos())
	}
}

func TestBackward(t *testing.T) {
	tests := []struct {
		name  string
		from  int64
		count int
		move  traverse.Move
		ok    bool
		pos   int64
	}{
		{"third to second sibling", 9, 1, traverse.Move{X: -1}, true, 3},
		{"two steps", 9, 2, traverse.Move{X: -2}, true, 1},
		{"partial achievement", 9, 5, traverse.Move{X: -2}, true, 1},
		{"stuck at first in level", 1, 1, traverse.Stay, false, 1},
		{"across top level", 12, 1, traverse.Move{X: -1}, true, 0},
		{"inner level", 6, 1, traverse.Move{X: -1}, true, 4},
		{"stuck at inner first", 4, 1, traverse.Stay, false, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, sc := testWalker(tree)
			sc.SetPos(tt.from)
			move, ok := w.Backward(tt.count)
			if ok != tt.ok || move != tt.move {
				t.Errorf("Backward(%d) = %v, %v; want %v, %v", tt.count, move, ok, tt.move, tt.ok)
			}
			if sc.Pos() != tt.pos {
				t.Errorf("cursor at %d, want %d", sc.Pos(), tt.pos)
			}
		})
	}
}

func TestEnter(t *testing.T) {
	tests := []struct {
		name  string
		from  int64
		count int
		move  traverse.Move
		ok    bool
		pos   int64
	}{
		{"into top form", 0, 1, traverse.Move{Y: 1}, true, 1},
		{"into nested form", 3, 1, traverse.Move{Y: 1}, true, 4},
		{"atom is a leaf", 1, 1, traverse.Stay, false, 1},
		{"partial descent", 0, 2, traverse.Move{Y: 1}, true, 1},
		{"into second form", 12, 1, traverse.Move{Y: 1}, true, 13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, sc := testWalker(tree)
			sc.SetPos(tt.from)
			move, ok := w.Enter(tt.count)
			if ok != tt.ok || move != tt.move {
				t.Errorf("Enter(%d) = %v, %v; want %v, %v", tt.count, move, ok, tt.move, tt.ok)
			}
			if sc.Pos() != tt.pos {
				t.Errorf("cursor at %d, want %d", sc.Pos(), tt.pos)
			}
		})
	}
}

func TestEnterEmptyCompound(t *testing.T) {
	w, sc := testWalker("(() a)")

	sc.SetPos(1)
	if _, ok := w.Enter(1); ok {
		t.Error("Enter on empty compound should fail")
	}
	if sc.Pos() != 1 {
		t.Errorf("failed Enter moved cursor to %d", sc.Pos())
	}

	// The enclosing form is not empty; its first child is the empty one.
	sc.SetPos(0)
	move, ok := w.Enter(1)
	if !ok || move.Y != 1 {
		t.Fatalf("Enter = %v, %v", move, ok)
	}
	if sc.Pos() != 1 {
		t.Errorf("cursor at %d, want 1", sc.Pos())
	}
}

func TestEnterPaddedCompound(t *testing.T) {
	w, sc := testWalker("(  a)")

	sc.SetPos(0)
	if _, ok := w.Enter(1); !ok {
		t.Fatal("Enter on padded compound failed")
	}
	if sc.Pos() != 3 {
		t.Errorf("cursor at %d, want 3 (first child start)", sc.Pos())
	}
}

func TestEnterComment(t *testing.T) {
	w, sc := testWalker(";; top\n(a)")

	sc.SetPos(0)
	move, ok := w.Enter(1)
	if !ok || move.Y != 1 {
		t.Fatalf("Enter from comment = %v, %v", move, ok)
	}
	if sc.Pos() != 7 {
		t.Errorf("cursor at %d, want 7", sc.Pos())
	}
}

func TestExit(t *testing.T) {
	tests := []struct {
		name  string
		from  int64
		count int
		move  traverse.Move
		ok    bool
		pos   int64
	}{
		{"one level", 4, 1, traverse.Move{Y: -1}, true, 3},
		{"two levels", 4, 2, traverse.Move{Y: -2}, true, 0},
		{"partial ascent", 4, 5, traverse.Move{Y: -2}, true, 0},
		{"stuck at top", 0, 1, traverse.Stay, false, 0},
		{"from first-level child", 1, 1, traverse.Move{Y: -1}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, sc := testWalker(tree)
			sc.SetPos(tt.from)
			move, ok := w.Exit(tt.count)
			if ok != tt.ok || move != tt.move {
				t.Errorf("Exit(%d) = %v, %v; want %v, %v", tt.count, move, ok, tt.move, tt.ok)
			}
			if sc.Pos() != tt.pos {
				t.Errorf("cursor at %d, want %d", sc.Pos(), tt.pos)
			}
		})
	}
}

func TestForwardBackwardRoundTrip(t *testing.T) {
	w, sc := testWalker(tree)

	sc.SetPos(1)
	if _, ok := w.Forward(2); !ok {
		t.Fatal("Forward(2) failed")
	}
	if _, ok := w.Backward(2); !ok {
		t.Fatal("Backward(2) failed")
	}
	if sc.Pos() != 1 {
		t.Errorf("round trip ended at %d, want 1", sc.Pos())
	}
}

func TestEnterExitRoundTrip(t *testing.T) {
	w, sc := testWalker(tree)

	sc.SetPos(3)
	if _, ok := w.Enter(1); !ok {
		t.Fatal("Enter failed")
	}
	if _, ok := w.Exit(1); !ok {
		t.Fatal("Exit failed")
	}
	if sc.Pos() != 3 {
		t.Errorf("round trip ended at %d, want 3", sc.Pos())
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		pos  int64
		pred func(*Walker) bool
		want bool
	}{
		{"root at top form", 0, (*Walker).AtRoot, true},
		{"root at second form", 12, (*Walker).AtRoot, true},
		{"not root inside", 4, (*Walker).AtRoot, false},
		{"first in level", 1, (*Walker).AtFirstInLevel, true},
		{"first in inner level", 4, (*Walker).AtFirstInLevel, true},
		{"not first", 9, (*Walker).AtFirstInLevel, false},
		{"not first top level", 12, (*Walker).AtFirstInLevel, false},
		{"last in level", 9, (*Walker).AtLastInLevel, true},
		{"last in inner level", 6, (*Walker).AtLastInLevel, true},
		{"not last", 3, (*Walker).AtLastInLevel, false},
		{"final expression", 12, (*Walker).AtFinalExpr, true},
		{"final inside last form", 13, (*Walker).AtFinalExpr, true},
		{"ancestor has later sibling", 9, (*Walker).AtFinalExpr, false},
		{"not final mid buffer", 6, (*Walker).AtFinalExpr, false},
		{"initial expression", 0, (*Walker).AtInitialExpr, true},
		{"first child is not initial", 1, (*Walker).AtInitialExpr, false},
		{"second form is not initial", 12, (*Walker).AtInitialExpr, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, sc := testWalker(tree)
			sc.SetPos(tt.pos)
			if got := tt.pred(w); got != tt.want {
				t.Errorf("predicate at %d = %v, want %v", tt.pos, got, tt.want)
			}
			if sc.Pos() != tt.pos {
				t.Errorf("predicate moved cursor from %d to %d", tt.pos, sc.Pos())
			}
		})
	}
}

func TestOnEmptyCompound(t *testing.T) {
	w, sc := testWalker("(() a)")

	sc.SetPos(1)
	if !w.OnEmptyCompound() {
		t.Error("OnEmptyCompound at () = false")
	}
	if sc.Pos() != 1 {
		t.Errorf("predicate moved cursor to %d", sc.Pos())
	}

	sc.SetPos(0)
	if w.OnEmptyCompound() {
		t.Error("OnEmptyCompound at non-empty form = true")
	}

	sc.SetPos(4)
	if w.OnEmptyCompound() {
		t.Error("OnEmptyCompound at atom = true")
	}
}

func TestOnCommentLine(t *testing.T) {
	w, sc := testWalker(";; top\n(a)")

	sc.SetPos(0)
	if !w.OnCommentLine() {
		t.Error("OnCommentLine at comment = false")
	}

	sc.SetPos(7)
	if w.OnCommentLine() {
		t.Error("OnCommentLine at form = true")
	}
}

func TestFailedPrimitivesRestoreCursor(t *testing.T) {
	w, sc := testWalker(tree)

	positions := []int64{9, 12}
	for _, pos := range positions {
		sc.SetPos(pos)
		if _, ok := w.Forward(1); ok {
			t.Fatalf("Forward at %d should fail", pos)
		}
		if sc.Pos() != pos {
			t.Errorf("failed Forward left cursor at %d, want %d", sc.Pos(), pos)
		}
	}

	sc.SetPos(0)
	if _, ok := w.Exit(1); ok {
		t.Fatal("Exit at root should fail")
	}
	if sc.Pos() != 0 {
		t.Errorf("failed Exit left cursor at %d", sc.Pos())
	}
}
