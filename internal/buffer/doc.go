// Package buffer provides the immutable text document the navigation
// engine reads from.
//
// The buffer package handles:
//
//   - Byte-offset addressing with ByteOffset
//   - Line/column positions with Point
//   - Line lookup via a precomputed line index
//
// Documents are read-only. The navigation engine moves a cursor over
// the text; it never modifies it, so Document carries no edit
// operations, no revision tracking, and no locking.
package buffer
