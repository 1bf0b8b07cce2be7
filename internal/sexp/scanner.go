package sexp

import (
	"sort"
	"strings"

	"github.com/dshills/symflow/internal/buffer"
	"github.com/dshills/symflow/internal/lang"
)

type tokenKind uint8

const (
	tokenAtom tokenKind = iota
	tokenString
	tokenOpen
	tokenClose
	tokenComment
)

// token is one lexical unit of the document. Delimiters inside strings
// and comments never produce tokens, so structural questions reduce to
// token arithmetic.
type token struct {
	kind  tokenKind
	start buffer.ByteOffset
	end   buffer.ByteOffset

	// match pairs open and close delimiters by token index. -1 for
	// unbalanced delimiters and non-delimiter tokens.
	match int

	// parent is the token index of the innermost open delimiter in
	// scope. For a close delimiter this is the scope after it pops.
	parent int
}

// Scanner answers expression-boundary questions for a document and
// maintains the cursor the walker drives. The token index is built once;
// the document never changes underneath it.
type Scanner struct {
	doc     *buffer.Document
	profile lang.Profile
	tokens  []token
	pos     buffer.ByteOffset
}

// NewScanner builds a scanner for doc using the given dialect profile.
// The cursor starts at offset zero.
func NewScanner(doc *buffer.Document, profile lang.Profile) *Scanner {
	return &Scanner{
		doc:     doc,
		profile: profile,
		tokens:  tokenize(doc.Text(), profile),
	}
}

// Pos returns the current cursor offset.
func (s *Scanner) Pos() buffer.ByteOffset {
	return s.pos
}

// SetPos moves the cursor, clamping to the document bounds.
func (s *Scanner) SetPos(pos buffer.ByteOffset) {
	if pos < 0 {
		pos = 0
	}
	if max := s.doc.Len(); pos > max {
		pos = max
	}
	s.pos = pos
}

// SkipExprForward skips over the next n complete expressions at the
// cursor's nesting level, landing immediately after the last one. The
// skip is all-or-nothing: if fewer than n expressions remain before the
// enclosing close delimiter or end of input, the cursor does not move
// and the result is false. Inside an atom or string the remainder
// counts as the first expression.
func (s *Scanner) SkipExprForward(n int) bool {
	if n <= 0 {
		return false
	}
	pos := s.pos
	for step := 0; step < n; step++ {
		next, ok := s.skipForwardOnce(pos)
		if !ok {
			return false
		}
		pos = next
	}
	s.pos = pos
	return true
}

// SkipExprBackward skips back over the previous n complete expressions
// at the cursor's nesting level, landing at the start of the last one
// skipped. All-or-nothing, like SkipExprForward.
func (s *Scanner) SkipExprBackward(n int) bool {
	if n <= 0 {
		return false
	}
	pos := s.pos
	for step := 0; step < n; step++ {
		prev, ok := s.skipBackwardOnce(pos)
		if !ok {
			return false
		}
		pos = prev
	}
	s.pos = pos
	return true
}

func (s *Scanner) skipForwardOnce(pos buffer.ByteOffset) (buffer.ByteOffset, bool) {
	i := s.firstTokenEndingAfter(pos)
	if i >= len(s.tokens) {
		return pos, false
	}
	if t := s.tokens[i]; t.start < pos {
		// Mid-token: the remainder of an atom or string is the first
		// expression; the remainder of a comment is trivia.
		switch t.kind {
		case tokenAtom, tokenString:
			return t.end, true
		case tokenComment:
			i++
		}
	}
	for ; i < len(s.tokens); i++ {
		t := s.tokens[i]
		switch t.kind {
		case tokenComment:
			continue
		case tokenAtom, tokenString:
			return t.end, true
		case tokenOpen:
			if t.match < 0 {
				// Unterminated compound.
				return pos, false
			}
			return s.tokens[t.match].end, true
		case tokenClose:
			// The enclosing compound ends here.
			return pos, false
		}
	}
	return pos, false
}

func (s *Scanner) skipBackwardOnce(pos buffer.ByteOffset) (buffer.ByteOffset, bool) {
	i := s.lastTokenStartingBefore(pos)
	if i < 0 {
		return pos, false
	}
	if t := s.tokens[i]; t.end > pos {
		switch t.kind {
		case tokenAtom, tokenString:
			return t.start, true
		case tokenComment:
			i--
		}
	}
	for ; i >= 0; i-- {
		t := s.tokens[i]
		switch t.kind {
		case tokenComment:
			continue
		case tokenAtom, tokenString:
			return t.start, true
		case tokenClose:
			if t.match < 0 {
				return pos, false
			}
			return s.tokens[t.match].start, true
		case tokenOpen:
			// The enclosing compound begins here.
			return pos, false
		}
	}
	return pos, false
}

// AtOpenDelim reports whether the cursor rests on an opening delimiter.
// Delimiters inside strings or comments do not count.
func (s *Scanner) AtOpenDelim() bool {
	i, ok := s.tokenContaining(s.pos)
	return ok && s.tokens[i].kind == tokenOpen
}

// AtCloseDelim reports whether the cursor rests on a closing delimiter.
func (s *Scanner) AtCloseDelim() bool {
	i, ok := s.tokenContaining(s.pos)
	return ok && s.tokens[i].kind == tokenClose
}

// AtComment reports whether the cursor rests inside comment text.
func (s *Scanner) AtComment() bool {
	i, ok := s.tokenContaining(s.pos)
	return ok && s.tokens[i].kind == tokenComment
}

// EnterComment moves from comment text to the start of the first
// expression after the comment, skipping any further comments. Returns
// false when the cursor is not on a comment or when only a closing
// delimiter or end of input follows.
func (s *Scanner) EnterComment() bool {
	i, ok := s.tokenContaining(s.pos)
	if !ok || s.tokens[i].kind != tokenComment {
		return false
	}
	for i++; i < len(s.tokens); i++ {
		t := s.tokens[i]
		switch t.kind {
		case tokenComment:
			continue
		case tokenAtom, tokenString, tokenOpen:
			s.pos = t.start
			return true
		case tokenClose:
			return false
		}
	}
	return false
}

// AscendEnclosing moves the cursor to the opening delimiter of the
// innermost compound containing it. Returns false at top level.
func (s *Scanner) AscendEnclosing() bool {
	e := s.enclosingOpen(s.pos)
	if e < 0 {
		return false
	}
	s.pos = s.tokens[e].start
	return true
}

// ExprRange returns the span of the expression at pos: the atom, string,
// or comment containing pos, or the whole compound when pos rests on one
// of its delimiters. ok is false in whitespace and for unbalanced
// delimiters.
func (s *Scanner) ExprRange(pos buffer.ByteOffset) (start, end buffer.ByteOffset, ok bool) {
	i, found := s.tokenContaining(pos)
	if !found {
		return 0, 0, false
	}
	t := s.tokens[i]
	switch t.kind {
	case tokenAtom, tokenString, tokenComment:
		return t.start, t.end, true
	case tokenOpen:
		if t.match < 0 {
			return 0, 0, false
		}
		return t.start, s.tokens[t.match].end, true
	case tokenClose:
		if t.match < 0 {
			return 0, 0, false
		}
		return s.tokens[t.match].start, t.end, true
	}
	return 0, 0, false
}

// enclosingOpen returns the token index of the innermost open delimiter
// whose compound contains pos, or -1 at top level. A cursor on an open
// delimiter belongs to the parent scope; a cursor on a close delimiter
// is still inside.
func (s *Scanner) enclosingOpen(pos buffer.ByteOffset) int {
	i := s.lastTokenStartingBefore(pos)
	if i < 0 {
		return -1
	}
	t := s.tokens[i]
	if t.kind == tokenOpen {
		return i
	}
	return t.parent
}

func (s *Scanner) lastTokenStartingBefore(pos buffer.ByteOffset) int {
	n := sort.Search(len(s.tokens), func(i int) bool { return s.tokens[i].start >= pos })
	return n - 1
}

func (s *Scanner) firstTokenEndingAfter(pos buffer.ByteOffset) int {
	return sort.Search(len(s.tokens), func(i int) bool { return s.tokens[i].end > pos })
}

func (s *Scanner) tokenContaining(pos buffer.ByteOffset) (int, bool) {
	i := s.firstTokenEndingAfter(pos)
	if i < len(s.tokens) && s.tokens[i].start <= pos {
		return i, true
	}
	return 0, false
}

// tokenize makes a single pass over the text, pairing delimiters with a
// stack. Escape characters neutralize the following character both in
// atoms and in strings, so character literals like #\( never count as
// delimiters.
func tokenize(text string, prof lang.Profile) []token {
	var toks []token
	var stack []int

	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case isSpace(c):
			i++

		case prof.LineComment != "" && strings.HasPrefix(text[i:], prof.LineComment):
			start := i
			for i < len(text) && text[i] != '\n' {
				i++
			}
			toks = append(toks, token{
				kind:   tokenComment,
				start:  buffer.ByteOffset(start),
				end:    buffer.ByteOffset(i),
				match:  -1,
				parent: stackTop(stack),
			})

		case prof.IsStringDelim(c):
			start := i
			i++
			for i < len(text) {
				if prof.CharEscape != 0 && text[i] == prof.CharEscape && i+1 < len(text) {
					i += 2
					continue
				}
				if text[i] == c {
					i++
					break
				}
				i++
			}
			toks = append(toks, token{
				kind:   tokenString,
				start:  buffer.ByteOffset(start),
				end:    buffer.ByteOffset(i),
				match:  -1,
				parent: stackTop(stack),
			})

		case prof.IsOpen(c):
			toks = append(toks, token{
				kind:   tokenOpen,
				start:  buffer.ByteOffset(i),
				end:    buffer.ByteOffset(i + 1),
				match:  -1,
				parent: stackTop(stack),
			})
			stack = append(stack, len(toks)-1)
			i++

		case prof.IsClose(c):
			idx := len(toks)
			match := -1
			if len(stack) > 0 {
				match = stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				toks[match].match = idx
			}
			toks = append(toks, token{
				kind:   tokenClose,
				start:  buffer.ByteOffset(i),
				end:    buffer.ByteOffset(i + 1),
				match:  match,
				parent: stackTop(stack),
			})
			i++

		default:
			start := i
			for i < len(text) {
				c := text[i]
				if prof.CharEscape != 0 && c == prof.CharEscape {
					if i+1 < len(text) {
						i += 2
					} else {
						i++
					}
					continue
				}
				if isSpace(c) || prof.IsOpen(c) || prof.IsClose(c) || prof.IsStringDelim(c) {
					break
				}
				if prof.LineComment != "" && strings.HasPrefix(text[i:], prof.LineComment) {
					break
				}
				i++
			}
			toks = append(toks, token{
				kind:   tokenAtom,
				start:  buffer.ByteOffset(start),
				end:    buffer.ByteOffset(i),
				match:  -1,
				parent: stackTop(stack),
			})
		}
	}
	return toks
}

func stackTop(stack []int) int {
	if len(stack) == 0 {
		return -1
	}
	return stack[len(stack)-1]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
