package buffer

import (
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Document holds immutable text with a precomputed line index.
// Navigation never edits, so the text is stored as a plain string and
// every read operation is lock-free and safe for concurrent use.
type Document struct {
	text string

	// lineStarts[i] is the byte offset of the first character of line i.
	// Always has at least one entry (offset 0).
	lineStarts []ByteOffset
}

// New creates a document from a string. Line endings are normalized to LF.
func New(s string) *Document {
	s = normalizeLineEndings(s)
	return &Document{
		text:       s,
		lineStarts: indexLines(s),
	}
}

// NewFromReader creates a document from an io.Reader.
func NewFromReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return New(string(data)), nil
}

// NewFromFile creates a document from a file on disk.
func NewFromFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(string(data)), nil
}

// normalizeLineEndings converts CRLF and CR line endings to LF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// indexLines computes the starting offset of every line.
func indexLines(s string) []ByteOffset {
	starts := []ByteOffset{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			starts = append(starts, ByteOffset(i+1))
		}
	}
	return starts
}

// Read Operations

// Text returns the full document content.
func (d *Document) Text() string {
	return d.text
}

// TextRange returns text in the given byte range. The range is clamped
// to the document bounds.
func (d *Document) TextRange(start, end ByteOffset) string {
	if start < 0 {
		start = 0
	}
	if end > ByteOffset(len(d.text)) {
		end = ByteOffset(len(d.text))
	}
	if start >= end {
		return ""
	}
	return d.text[start:end]
}

// Len returns the total byte length of the document.
func (d *Document) Len() ByteOffset {
	return ByteOffset(len(d.text))
}

// ByteAt returns the byte at the given offset.
func (d *Document) ByteAt(offset ByteOffset) (byte, bool) {
	if offset < 0 || offset >= ByteOffset(len(d.text)) {
		return 0, false
	}
	return d.text[offset], true
}

// RuneAt returns the rune at the given byte offset.
// Returns utf8.RuneError and size 0 if offset is out of range.
func (d *Document) RuneAt(offset ByteOffset) (rune, int) {
	if offset < 0 || offset >= ByteOffset(len(d.text)) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(d.text[offset:])
}

// Line Operations

// LineCount returns the number of lines.
func (d *Document) LineCount() uint32 {
	return uint32(len(d.lineStarts))
}

// LineText returns the text of a specific line (without newline).
func (d *Document) LineText(line uint32) string {
	if line >= d.LineCount() {
		return ""
	}
	return d.text[d.LineStartOffset(line):d.LineEndOffset(line)]
}

// LineLen returns the length of a specific line in bytes (without newline).
func (d *Document) LineLen(line uint32) uint32 {
	if line >= d.LineCount() {
		return 0
	}
	return uint32(d.LineEndOffset(line) - d.LineStartOffset(line))
}

// LineStartOffset returns the byte offset of the start of a line.
func (d *Document) LineStartOffset(line uint32) ByteOffset {
	if line >= d.LineCount() {
		return d.Len()
	}
	return d.lineStarts[line]
}

// LineEndOffset returns the byte offset of the end of a line (before newline).
func (d *Document) LineEndOffset(line uint32) ByteOffset {
	if line+1 < d.LineCount() {
		return d.lineStarts[line+1] - 1
	}
	return d.Len()
}

// LineAt returns the line containing the given offset.
// Offsets past the end map to the last line.
func (d *Document) LineAt(offset ByteOffset) uint32 {
	if offset <= 0 {
		return 0
	}
	// Binary search for the last line start <= offset.
	lo, hi := 0, len(d.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if d.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return uint32(lo)
}

// Coordinate Conversion

// OffsetToPoint converts a byte offset to line/column.
func (d *Document) OffsetToPoint(offset ByteOffset) Point {
	if offset < 0 {
		offset = 0
	}
	if offset > d.Len() {
		offset = d.Len()
	}
	line := d.LineAt(offset)
	return Point{Line: line, Column: uint32(offset - d.lineStarts[line])}
}

// PointToOffset converts line/column to byte offset.
// Columns past the line end clamp to the end of the line.
func (d *Document) PointToOffset(p Point) ByteOffset {
	if p.Line >= d.LineCount() {
		return d.Len()
	}
	offset := d.lineStarts[p.Line] + ByteOffset(p.Column)
	if end := d.LineEndOffset(p.Line); offset > end {
		return end
	}
	return offset
}
