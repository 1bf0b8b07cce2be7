// Package walker turns directional intents into cursor motion over an
// expression tree. It owns no tree: an expression-boundary Scanner
// supplies the few structural facts needed, and everything else is
// cursor arithmetic.
//
// The four primitives (Forward, Backward, Enter, Exit) report the
// displacement they achieved; zero movement is the only failure signal
// and is returned by value, never panicked. Run evaluates composed
// traversal values with rollback on failure, so a traversal either
// lands the cursor exactly where its returned displacement says, or
// leaves it untouched.
package walker
