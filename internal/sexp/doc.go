// Package sexp locates expression boundaries in symbolic-expression
// text. It has no syntax tree: a one-pass token index over the immutable
// document answers every structural question with cursor arithmetic.
//
// An expression is an atom, a string, or a balanced delimiter pair with
// its contents. Comments and whitespace separate expressions but are
// never expressions themselves. Skip operations are scoped to the
// cursor's nesting level and are all-or-nothing: a skip that would cross
// the enclosing close delimiter fails without moving the cursor.
package sexp
