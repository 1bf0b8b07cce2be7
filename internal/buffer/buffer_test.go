package buffer

import (
	"strings"
	"testing"
)

func TestNewNormalizesLineEndings(t *testing.T) {
	d := New("a\r\nb\rc\nd")
	if d.Text() != "a\nb\nc\nd" {
		t.Errorf("expected normalized text, got %q", d.Text())
	}
}

func TestNewFromReader(t *testing.T) {
	d, err := NewFromReader(strings.NewReader("(a b)\n(c)"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Len() != 9 {
		t.Errorf("expected len 9, got %d", d.Len())
	}
}

func TestLen(t *testing.T) {
	d := New("hello")
	if d.Len() != 5 {
		t.Errorf("expected len 5, got %d", d.Len())
	}

	empty := New("")
	if empty.Len() != 0 {
		t.Errorf("empty document should have len 0, got %d", empty.Len())
	}
}

func TestTextRange(t *testing.T) {
	d := New("(a b c)")

	if got := d.TextRange(1, 2); got != "a" {
		t.Errorf("expected %q, got %q", "a", got)
	}
	if got := d.TextRange(-5, 2); got != "(a" {
		t.Errorf("negative start should clamp, got %q", got)
	}
	if got := d.TextRange(5, 100); got != "c)" {
		t.Errorf("end past length should clamp, got %q", got)
	}
	if got := d.TextRange(4, 2); got != "" {
		t.Errorf("inverted range should be empty, got %q", got)
	}
}

func TestByteAt(t *testing.T) {
	d := New("(a)")

	b, ok := d.ByteAt(0)
	if !ok || b != '(' {
		t.Errorf("expected '(' at 0, got %q ok=%v", b, ok)
	}
	if _, ok := d.ByteAt(3); ok {
		t.Error("offset past end should not be ok")
	}
	if _, ok := d.ByteAt(-1); ok {
		t.Error("negative offset should not be ok")
	}
}

func TestRuneAt(t *testing.T) {
	d := New("(λ x)")

	r, size := d.RuneAt(1)
	if r != 'λ' || size != 2 {
		t.Errorf("expected λ size 2, got %q size %d", r, size)
	}
	if _, size := d.RuneAt(100); size != 0 {
		t.Error("out of range should return size 0")
	}
}

func TestLineCount(t *testing.T) {
	tests := []struct {
		text string
		want uint32
	}{
		{"", 1},
		{"a", 1},
		{"a\n", 2},
		{"a\nb", 2},
		{"a\nb\nc", 3},
	}
	for _, tt := range tests {
		d := New(tt.text)
		if got := d.LineCount(); got != tt.want {
			t.Errorf("LineCount(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestLineText(t *testing.T) {
	d := New("(define x\n  (+ 1 2))\n")

	if got := d.LineText(0); got != "(define x" {
		t.Errorf("line 0 = %q", got)
	}
	if got := d.LineText(1); got != "  (+ 1 2))" {
		t.Errorf("line 1 = %q", got)
	}
	if got := d.LineText(2); got != "" {
		t.Errorf("trailing line should be empty, got %q", got)
	}
	if got := d.LineText(99); got != "" {
		t.Errorf("out of range line should be empty, got %q", got)
	}
}

func TestLineOffsets(t *testing.T) {
	d := New("ab\ncde\nf")

	if got := d.LineStartOffset(1); got != 3 {
		t.Errorf("line 1 start = %d, want 3", got)
	}
	if got := d.LineEndOffset(1); got != 6 {
		t.Errorf("line 1 end = %d, want 6", got)
	}
	if got := d.LineEndOffset(2); got != 8 {
		t.Errorf("last line end = %d, want 8", got)
	}
	if got := d.LineLen(1); got != 3 {
		t.Errorf("line 1 len = %d, want 3", got)
	}
}

func TestLineAt(t *testing.T) {
	d := New("ab\ncde\nf")

	tests := []struct {
		offset ByteOffset
		want   uint32
	}{
		{0, 0},
		{2, 0}, // the newline belongs to line 0
		{3, 1},
		{6, 1},
		{7, 2},
		{100, 2},
		{-1, 0},
	}
	for _, tt := range tests {
		if got := d.LineAt(tt.offset); got != tt.want {
			t.Errorf("LineAt(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestOffsetToPoint(t *testing.T) {
	d := New("ab\ncde")

	p := d.OffsetToPoint(4)
	if p.Line != 1 || p.Column != 1 {
		t.Errorf("expected (1:1), got %v", p)
	}

	p = d.OffsetToPoint(0)
	if !p.IsZero() {
		t.Errorf("expected zero point, got %v", p)
	}

	p = d.OffsetToPoint(100)
	if p.Line != 1 || p.Column != 3 {
		t.Errorf("past-end offset should clamp, got %v", p)
	}
}

func TestPointToOffset(t *testing.T) {
	d := New("ab\ncde")

	if got := d.PointToOffset(Point{Line: 1, Column: 1}); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
	if got := d.PointToOffset(Point{Line: 0, Column: 99}); got != 2 {
		t.Errorf("column past line end should clamp to 2, got %d", got)
	}
	if got := d.PointToOffset(Point{Line: 99, Column: 0}); got != 6 {
		t.Errorf("line past end should clamp to len, got %d", got)
	}
}

func TestRoundTripOffsetPoint(t *testing.T) {
	d := New("(a\n (b c)\n d)")
	for off := ByteOffset(0); off < d.Len(); off++ {
		p := d.OffsetToPoint(off)
		if got := d.PointToOffset(p); got != off {
			t.Errorf("round trip failed at %d: point %v gave %d", off, p, got)
		}
	}
}

func TestPointCompare(t *testing.T) {
	a := Point{Line: 1, Column: 2}
	b := Point{Line: 1, Column: 5}
	c := Point{Line: 2, Column: 0}

	if a.Compare(b) != -1 || !a.Before(b) {
		t.Error("a should come before b")
	}
	if c.Compare(a) != 1 || !c.After(a) {
		t.Error("c should come after a")
	}
	if a.Compare(a) != 0 {
		t.Error("a should equal itself")
	}
}
