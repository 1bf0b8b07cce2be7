package walker

// Scanner is the expression-boundary oracle the walker drives. It owns
// the cursor, a byte offset into the text being navigated. Skip
// operations are sibling-scoped and all-or-nothing: they move over
// whole expressions at the cursor's nesting level, or not at all.
type Scanner interface {
	// SkipExprForward skips over the next n expressions, landing
	// immediately after the last one. False with no movement when
	// fewer than n remain at this level.
	SkipExprForward(n int) bool

	// SkipExprBackward skips back over the previous n expressions,
	// landing at the start of the last one skipped. False with no
	// movement when fewer than n precede at this level.
	SkipExprBackward(n int) bool

	// AtOpenDelim reports whether the cursor rests on an opening
	// delimiter; delimiters inside strings or comments do not count.
	AtOpenDelim() bool

	// AtCloseDelim reports whether the cursor rests on a closing
	// delimiter.
	AtCloseDelim() bool

	// AtComment reports whether the cursor rests inside comment text.
	AtComment() bool

	// EnterComment moves from comment text to the first expression
	// start after it. False when not on a comment or nothing follows.
	EnterComment() bool

	// AscendEnclosing moves to the opening delimiter of the innermost
	// enclosing compound expression. False at top level.
	AscendEnclosing() bool

	// Pos returns the cursor's byte offset.
	Pos() int64

	// SetPos moves the cursor to the given byte offset.
	SetPos(pos int64)
}
