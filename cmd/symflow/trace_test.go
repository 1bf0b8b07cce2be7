package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/symflow/internal/buffer"
	"github.com/dshills/symflow/internal/lang"
	"github.com/dshills/symflow/internal/plugin"
	"github.com/dshills/symflow/internal/sexp"
	"github.com/dshills/symflow/internal/walker"
)

const traceTree = "(a (b c) d)\n(e)"

func newTraceWalker(text string) *walker.Walker {
	doc := buffer.New(text)
	return walker.New(sexp.NewScanner(doc, lang.Lisp))
}

func writeTestPlugin(t *testing.T, base, name, manifest, script string) {
	t.Helper()
	dir := filepath.Join(base, name)
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("creating plugin dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, plugin.ManifestFile), []byte(manifest), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "init.lua"), []byte(script), 0o644); err != nil {
		t.Fatalf("writing script: %v", err)
	}
}

func traceLines(t *testing.T, out *bytes.Buffer, want int) []string {
	t.Helper()
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != want {
		t.Fatalf("trace produced %d lines, want %d:\n%s", len(lines), want, out.String())
	}
	return lines
}

func checkTraceLine(t *testing.T, line, tok, label string, pos int) {
	t.Helper()
	if !strings.HasPrefix(line, tok+" ") {
		t.Errorf("line %q does not start with step %q", line, tok)
	}
	if !strings.Contains(line, label) {
		t.Errorf("line %q missing %q", line, label)
	}
	if suffix := fmt.Sprintf("pos %d", pos); !strings.HasSuffix(line, suffix) {
		t.Errorf("line %q does not end with %q", line, suffix)
	}
}

func TestRunTrace(t *testing.T) {
	w := newTraceWalker(traceTree)
	var out bytes.Buffer
	if err := runTrace(&out, w, nil, "i 2f b o"); err != nil {
		t.Fatalf("runTrace() error: %v", err)
	}
	lines := traceLines(t, &out, 4)
	checkTraceLine(t, lines[0], "i", "(0, 1)", 1)
	checkTraceLine(t, lines[1], "2f", "(2, 0)", 9)
	checkTraceLine(t, lines[2], "b", "(-1, 0)", 3)
	checkTraceLine(t, lines[3], "o", "(0, -1)", 0)
}

func TestRunTraceStuck(t *testing.T) {
	w := newTraceWalker(traceTree)
	var out bytes.Buffer
	if err := runTrace(&out, w, nil, "b f"); err != nil {
		t.Fatalf("runTrace() error: %v", err)
	}
	lines := traceLines(t, &out, 2)
	checkTraceLine(t, lines[0], "b", "stuck", 0)
	checkTraceLine(t, lines[1], "f", "(1, 0)", 12)
}

func TestRunTraceSweep(t *testing.T) {
	w := newTraceWalker(traceTree)
	var out bytes.Buffer
	if err := runTrace(&out, w, nil, "F F"); err != nil {
		t.Fatalf("runTrace() error: %v", err)
	}
	lines := traceLines(t, &out, 2)
	checkTraceLine(t, lines[0], "F", "(1, 0)", 12)
	checkTraceLine(t, lines[1], "F", "stuck", 12)
}

func TestRunTraceRoot(t *testing.T) {
	w := newTraceWalker(traceTree)
	var out bytes.Buffer
	if err := runTrace(&out, w, nil, "i f i r"); err != nil {
		t.Fatalf("runTrace() error: %v", err)
	}
	lines := traceLines(t, &out, 4)
	checkTraceLine(t, lines[0], "i", "(0, 1)", 1)
	checkTraceLine(t, lines[1], "f", "(1, 0)", 3)
	checkTraceLine(t, lines[2], "i", "(0, 1)", 4)
	checkTraceLine(t, lines[3], "r", "(0, -2)", 0)
}

func TestRunTraceUnknownStep(t *testing.T) {
	w := newTraceWalker(traceTree)
	var out bytes.Buffer
	err := runTrace(&out, w, nil, "i x")
	if err == nil {
		t.Fatal("runTrace() succeeded with unknown step")
	}
	if !strings.Contains(err.Error(), `unknown step "x"`) {
		t.Errorf("error = %v, want unknown step", err)
	}
}

func TestRunTraceEmptyScript(t *testing.T) {
	w := newTraceWalker(traceTree)
	var out bytes.Buffer
	if err := runTrace(&out, w, nil, "   "); err == nil {
		t.Fatal("runTrace() succeeded with empty script")
	}
}

func TestRunTracePluginTraversal(t *testing.T) {
	base := t.TempDir()
	writeTestPlugin(t, base, "nav",
		`{"name": "nav", "traversals": [{"name": "hop"}]}`,
		`symflow.define("hop", symflow.move(0, 1))`)

	reg := plugin.NewRegistry(base)
	if err := reg.LoadAll(); err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}
	defer reg.Close()

	w := newTraceWalker(traceTree)
	reg.BindWalker(w)

	var out bytes.Buffer
	if err := runTrace(&out, w, reg, "nav.hop 2nav.hop"); err != nil {
		t.Fatalf("runTrace() error: %v", err)
	}
	lines := traceLines(t, &out, 2)
	checkTraceLine(t, lines[0], "nav.hop", "(0, 1)", 1)
	checkTraceLine(t, lines[1], "2nav.hop", "stuck", 1)
}

func TestSplitCount(t *testing.T) {
	tests := []struct {
		tok   string
		count int
		op    string
	}{
		{"f", 1, "f"},
		{"2f", 2, "f"},
		{"10i", 10, "i"},
		{"007b", 7, "b"},
		{"nav.zoom", 1, "nav.zoom"},
		{"42", 1, "42"},
	}
	for _, tt := range tests {
		count, op := splitCount(tt.tok)
		if count != tt.count || op != tt.op {
			t.Errorf("splitCount(%q) = %d, %q; want %d, %q",
				tt.tok, count, op, tt.count, tt.op)
		}
	}
}
