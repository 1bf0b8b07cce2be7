package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dshills/symflow/internal/plugin"
	"github.com/dshills/symflow/internal/traverse"
	"github.com/dshills/symflow/internal/walker"
)

// runTrace executes a whitespace-separated step script against the
// walker, printing the move each step achieved and the byte position
// it landed on. Steps are f, b, i, o (optionally counted, e.g. 2f),
// F and B for unbounded sweeps, r for return to top level, or a
// qualified plugin traversal name.
func runTrace(out io.Writer, w *walker.Walker, reg *plugin.Registry, script string) error {
	steps := strings.Fields(script)
	if len(steps) == 0 {
		return errors.New("empty trace script")
	}
	for _, tok := range steps {
		m, ok, err := traceStep(w, reg, tok)
		if err != nil {
			return err
		}
		label := "stuck"
		if ok {
			label = m.String()
		}
		fmt.Fprintf(out, "%-8s %-10s pos %d\n", tok, label, w.Scanner().Pos())
	}
	return nil
}

// traceStep runs a single step token. A count prefix repeats the step:
// primitives take it directly, plugin traversals run as an exact
// circuit.
func traceStep(w *walker.Walker, reg *plugin.Registry, tok string) (traverse.Move, bool, error) {
	count, op := splitCount(tok)
	switch op {
	case "f":
		m, ok := w.Forward(count)
		return m, ok, nil
	case "b":
		m, ok := w.Backward(count)
		return m, ok, nil
	case "i":
		m, ok := w.Enter(count)
		return m, ok, nil
	case "o":
		m, ok := w.Exit(count)
		return m, ok, nil
	case "F":
		m, ok := w.Run(traverse.NewCircuit(traverse.Forward, 0))
		return m, ok, nil
	case "B":
		m, ok := w.Run(traverse.NewCircuit(traverse.Backward, 0))
		return m, ok, nil
	case "r":
		m, ok := w.Run(traverse.NewCircuit(traverse.Out, 0))
		return m, ok, nil
	}
	if reg != nil {
		if t, found := reg.Traversal(op); found {
			var tr traverse.Traversal = t
			if count > 1 {
				tr = traverse.NewCircuit(t, count)
			}
			m, ok := w.Run(tr)
			return m, ok, nil
		}
	}
	return traverse.Stay, false, fmt.Errorf("unknown step %q", tok)
}

// splitCount splits a leading decimal count off a step token. Plugin
// traversal names never start with a digit, so any leading digits are
// a count.
func splitCount(tok string) (int, string) {
	i := 0
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	if i == 0 || i == len(tok) {
		return 1, tok
	}
	count, err := strconv.Atoi(tok[:i])
	if err != nil || count < 1 {
		return 1, tok
	}
	return count, tok[i:]
}
