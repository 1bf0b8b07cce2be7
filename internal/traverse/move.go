package traverse

import "fmt"

// Move is a displacement over the expression tree: X counts sibling
// steps (positive is forward), Y counts depth steps (positive is
// deeper in).
type Move struct {
	X int
	Y int
}

// Canonical unit moves.
var (
	Stay     = Move{}
	Forward  = Move{X: 1}
	Backward = Move{X: -1}
	In       = Move{Y: 1}
	Out      = Move{Y: -1}
)

// NewMove returns the displacement x siblings across and y levels deep.
func NewMove(x, y int) Move {
	return Move{X: x, Y: y}
}

// Add returns the vector sum of m and other.
func (m Move) Add(other Move) Move {
	return Move{X: m.X + other.X, Y: m.Y + other.Y}
}

// Sum folds moves into their vector sum. Sum of nothing is the zero
// move.
func Sum(moves ...Move) Move {
	var total Move
	for _, m := range moves {
		total = total.Add(m)
	}
	return total
}

// Length returns the dominant-axis magnitude: X when nonzero,
// otherwise Y. Meaningful for axis-aligned moves, defined for all.
func (m Move) Length() int {
	if m.X != 0 {
		return m.X
	}
	return m.Y
}

// IsZero reports whether m is the identity displacement.
func (m Move) IsZero() bool {
	return m.X == 0 && m.Y == 0
}

// Invert returns the displacement that undoes m.
func (m Move) Invert() Move {
	return Move{X: -m.X, Y: -m.Y}
}

// String returns the move in (x, y) form.
func (m Move) String() string {
	return fmt.Sprintf("(%d, %d)", m.X, m.Y)
}
