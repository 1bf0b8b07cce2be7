package walker

import (
	"github.com/dshills/symflow/internal/traverse"
)

// Run evaluates a traversal against the cursor. On success the cursor
// has moved by exactly the returned displacement; on failure it is
// restored to where Run began. Failed sub-traversals inside combinators
// roll back their own partial effects the same way, so the cursor is
// never left mid-phase.
func (w *Walker) Run(t traverse.Traversal) (traverse.Move, bool) {
	start := w.sc.Pos()
	m, ok := w.eval(t)
	if !ok {
		w.sc.SetPos(start)
		return traverse.Stay, false
	}
	return m, true
}

// eval dispatches over the closed variant set. Every branch restores
// the cursor on failure before returning.
func (w *Walker) eval(t traverse.Traversal) (traverse.Move, bool) {
	switch v := t.(type) {
	case traverse.Move:
		return w.evalMove(v)
	case traverse.Maneuver:
		return w.evalManeuver(v)
	case traverse.Circuit:
		return w.evalCircuit(v)
	case traverse.Detour:
		return w.evalDetour(v)
	case traverse.Precaution:
		return w.evalPrecaution(v)
	case traverse.Protocol:
		return w.evalProtocol(v)
	}
	return traverse.Stay, false
}

// evalMove executes a move leaf axis-wise, siblings before depth. The
// whole displacement must be achieved; partial progress is undone. The
// zero move asks for nothing, achieves nothing, and therefore fails.
func (w *Walker) evalMove(m traverse.Move) (traverse.Move, bool) {
	start := w.sc.Pos()
	achieved := traverse.Stay

	switch {
	case m.X > 0:
		got, ok := w.Forward(m.X)
		if !ok || got.X != m.X {
			w.sc.SetPos(start)
			return traverse.Stay, false
		}
		achieved = achieved.Add(got)
	case m.X < 0:
		got, ok := w.Backward(-m.X)
		if !ok || got.X != m.X {
			w.sc.SetPos(start)
			return traverse.Stay, false
		}
		achieved = achieved.Add(got)
	}

	switch {
	case m.Y > 0:
		got, ok := w.Enter(m.Y)
		if !ok || got.Y != m.Y {
			w.sc.SetPos(start)
			return traverse.Stay, false
		}
		achieved = achieved.Add(got)
	case m.Y < 0:
		got, ok := w.Exit(-m.Y)
		if !ok || got.Y != m.Y {
			w.sc.SetPos(start)
			return traverse.Stay, false
		}
		achieved = achieved.Add(got)
	}

	if achieved.IsZero() {
		return traverse.Stay, false
	}
	return achieved, true
}

// evalManeuver runs phases in order; all must succeed or the cursor
// returns to the maneuver's start. A maneuver with no phases has
// nothing to achieve and fails.
func (w *Walker) evalManeuver(m traverse.Maneuver) (traverse.Move, bool) {
	if len(m.Phases) == 0 {
		return traverse.Stay, false
	}
	start := w.sc.Pos()
	total := traverse.Stay
	for _, phase := range m.Phases {
		got, ok := w.eval(phase)
		if !ok {
			w.sc.SetPos(start)
			return traverse.Stay, false
		}
		total = total.Add(got)
	}
	return total, true
}

// evalCircuit repeats its traversal. Bounded circuits demand every
// repetition and undo everything otherwise. Unbounded circuits keep
// repeating until an application fails or stops progressing, keep the
// successes, and fail only when not even one repetition advanced.
func (w *Walker) evalCircuit(c traverse.Circuit) (traverse.Move, bool) {
	if c.Times > 0 {
		start := w.sc.Pos()
		total := traverse.Stay
		for i := 0; i < c.Times; i++ {
			got, ok := w.eval(c.Traversal)
			if !ok {
				w.sc.SetPos(start)
				return traverse.Stay, false
			}
			total = total.Add(got)
		}
		return total, true
	}

	reps := 0
	total := traverse.Stay
	for {
		before := w.sc.Pos()
		got, ok := w.eval(c.Traversal)
		if !ok {
			break
		}
		if got.IsZero() {
			w.sc.SetPos(before)
			break
		}
		total = total.Add(got)
		reps++
	}
	if reps == 0 {
		return traverse.Stay, false
	}
	return total, true
}

// evalDetour reorients and retries until the target traversal succeeds
// or reorientation fails. A reorientation that leaves the cursor where
// the attempt began cannot unstick anything, so it also ends the detour.
func (w *Walker) evalDetour(d traverse.Detour) (traverse.Move, bool) {
	start := w.sc.Pos()
	total := traverse.Stay
	for {
		before := w.sc.Pos()
		re, ok := w.eval(d.Reorientation)
		if !ok {
			break
		}
		total = total.Add(re)
		got, ok := w.eval(d.Traversal)
		if ok {
			return total.Add(got), true
		}
		if w.sc.Pos() == before {
			break
		}
	}
	w.sc.SetPos(start)
	return traverse.Stay, false
}

// evalPrecaution gates its traversal: a false pre-condition means no
// attempt at all, and a false post-condition reverses a completed
// attempt.
func (w *Walker) evalPrecaution(p traverse.Precaution) (traverse.Move, bool) {
	if p.Pre != nil && !p.Pre() {
		return traverse.Stay, false
	}
	start := w.sc.Pos()
	got, ok := w.eval(p.Traversal)
	if !ok {
		return traverse.Stay, false
	}
	if p.Post != nil && !p.Post() {
		w.sc.SetPos(start)
		return traverse.Stay, false
	}
	return got, true
}

// evalProtocol tries options in order; the first success wins and
// failed attempts leave no trace.
func (w *Walker) evalProtocol(p traverse.Protocol) (traverse.Move, bool) {
	for _, opt := range p.Options {
		if got, ok := w.eval(opt); ok {
			return got, true
		}
	}
	return traverse.Stay, false
}
