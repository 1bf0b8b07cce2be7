package traverse

// Condition is a predicate consulted during evaluation, typically
// closing over cursor state. It must not move the cursor.
type Condition func() bool

// Traversal is a navigation program: one of Move, Maneuver, Circuit,
// Detour, Precaution, or Protocol. The variant set is closed, so an
// evaluator can switch over it exhaustively.
type Traversal interface {
	isTraversal()
}

// Maneuver executes its phases in order as one all-or-nothing unit.
type Maneuver struct {
	Phases []Traversal
}

// Circuit repeats Traversal. Times zero means repeat until an
// application fails, keeping the successes; a positive Times demands
// exactly that many repetitions.
type Circuit struct {
	Traversal Traversal
	Times     int
}

// Detour applies Reorientation then attempts Traversal, repeating the
// pair until Traversal succeeds or Reorientation fails.
type Detour struct {
	Reorientation Traversal
	Traversal     Traversal
}

// Precaution gates Traversal on Pre and Post. A nil condition counts
// as true. A false Pre skips the attempt entirely; a false Post rolls
// the attempt back.
type Precaution struct {
	Traversal Traversal
	Pre       Condition
	Post      Condition
}

// Protocol tries its options in order and keeps the first success.
type Protocol struct {
	Options []Traversal
}

func (Move) isTraversal()       {}
func (Maneuver) isTraversal()   {}
func (Circuit) isTraversal()    {}
func (Detour) isTraversal()     {}
func (Precaution) isTraversal() {}
func (Protocol) isTraversal()   {}

// NewManeuver composes phases into one all-or-nothing sequence.
func NewManeuver(phases ...Traversal) Maneuver {
	return Maneuver{Phases: phases}
}

// NewCircuit repeats t the given number of times; pass zero to repeat
// until failure.
func NewCircuit(t Traversal, times int) Circuit {
	return Circuit{Traversal: t, Times: times}
}

// NewDetour pairs a reorientation with the traversal it is meant to
// enable.
func NewDetour(reorientation, t Traversal) Detour {
	return Detour{Reorientation: reorientation, Traversal: t}
}

// NewPrecaution guards t with pre and post conditions. Either may be
// nil, which reads as always true.
func NewPrecaution(t Traversal, pre, post Condition) Precaution {
	return Precaution{Traversal: t, Pre: pre, Post: post}
}

// NewProtocol lists alternatives to try in order.
func NewProtocol(options ...Traversal) Protocol {
	return Protocol{Options: options}
}

// IsMove reports whether v is a Move.
func IsMove(v any) bool {
	_, ok := v.(Move)
	return ok
}

// IsManeuver reports whether v is a Maneuver.
func IsManeuver(v any) bool {
	_, ok := v.(Maneuver)
	return ok
}

// IsCircuit reports whether v is a Circuit.
func IsCircuit(v any) bool {
	_, ok := v.(Circuit)
	return ok
}

// IsDetour reports whether v is a Detour.
func IsDetour(v any) bool {
	_, ok := v.(Detour)
	return ok
}

// IsPrecaution reports whether v is a Precaution.
func IsPrecaution(v any) bool {
	_, ok := v.(Precaution)
	return ok
}

// IsProtocol reports whether v is a Protocol.
func IsProtocol(v any) bool {
	_, ok := v.(Protocol)
	return ok
}

// IsTraversal reports whether v is any traversal variant.
func IsTraversal(v any) bool {
	_, ok := v.(Traversal)
	return ok
}
