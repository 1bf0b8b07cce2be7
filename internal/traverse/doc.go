// Package traverse defines the navigation algebra: Move displacements
// and the closed set of traversal combinators composed over them.
//
// Traversal values are immutable and hold no cursor state. Clients
// construct them once, declaratively, and evaluate them any number of
// times against live cursor state elsewhere.
package traverse
