package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/symflow/internal/buffer"
	"github.com/dshills/symflow/internal/config"
	"github.com/dshills/symflow/internal/lang"
	"github.com/dshills/symflow/internal/plugin"
	"github.com/dshills/symflow/internal/sexp"
	"github.com/dshills/symflow/internal/traverse"
	"github.com/dshills/symflow/internal/walker"
)

// errQuit signals that the session should exit normally.
var errQuit = errors.New("quit")

var (
	styleText   = tcell.StyleDefault
	styleExpr   = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleStatus = tcell.StyleDefault.Reverse(true)
)

// sessionConfig carries everything a session needs at startup.
type sessionConfig struct {
	doc        *buffer.Document
	filename   string
	language   string
	profile    lang.Profile
	scanner    *sexp.Scanner
	walker     *walker.Walker
	registry   *plugin.Registry
	settings   config.Settings
	configPath string
	logger     *Logger
}

// session is the interactive terminal navigator. Keys drive the
// walker's primitives and plugin traversals; the expression under the
// cursor is highlighted after every move.
type session struct {
	screen tcell.Screen
	log    *Logger

	settings   config.Settings
	configPath string
	filename   string
	language   string

	doc     *buffer.Document
	profile lang.Profile
	sc      *sexp.Scanner
	w       *walker.Walker
	reg     *plugin.Registry

	keymap  map[rune]string
	top     uint32
	lastMsg string
}

// reloadedSettings is posted into the event loop when the config file
// changes on disk.
type reloadedSettings struct {
	settings config.Settings
	err      error
}

func newSession(cfg sessionConfig) *session {
	s := &session{
		log:        cfg.logger,
		settings:   cfg.settings,
		configPath: cfg.configPath,
		filename:   cfg.filename,
		language:   cfg.language,
		doc:        cfg.doc,
		profile:    cfg.profile,
		sc:         cfg.scanner,
		w:          cfg.walker,
		reg:        cfg.registry,
	}
	s.keymap = buildKeymap(cfg.registry, cfg.logger)
	s.lastMsg = "ready"
	return s
}

// buildKeymap collects single-rune bindings contributed by plugin
// manifests. Built-in keys cannot be shadowed.
func buildKeymap(reg *plugin.Registry, log *Logger) map[rune]string {
	builtin := map[rune]bool{
		'f': true, 'b': true, 'i': true, 'o': true,
		'F': true, 'B': true, 'r': true, 'R': true,
		'q': true,
	}
	keymap := make(map[rune]string)
	for _, inst := range reg.Instances() {
		for _, tc := range inst.Manifest.Traversals {
			if tc.Key == "" {
				continue
			}
			r, _ := utf8.DecodeRuneInString(tc.Key)
			name := inst.Manifest.Qualified(tc.Name)
			if builtin[r] {
				log.WithComponent("plugin").Warn("key %q for %s shadows a built-in, ignored", tc.Key, name)
				continue
			}
			if prev, taken := keymap[r]; taken {
				log.WithComponent("plugin").Warn("key %q for %s already bound to %s, ignored", tc.Key, name, prev)
				continue
			}
			keymap[r] = name
		}
	}
	return keymap
}

// Run owns the terminal until the user quits.
func (s *session) Run() error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	s.screen = screen
	defer screen.Fini()

	if s.configPath != "" {
		watcher, err := config.WatchFile(s.configPath, 0, func(settings config.Settings, err error) {
			_ = screen.PostEvent(tcell.NewEventInterrupt(reloadedSettings{settings: settings, err: err}))
		})
		if err != nil {
			s.log.Warn("config watch unavailable: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	s.draw()
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			screen.Sync()
			s.draw()
		case *tcell.EventInterrupt:
			s.applyReload(ev.Data())
			s.draw()
		case *tcell.EventKey:
			if err := s.handleKey(ev); err != nil {
				return err
			}
			s.draw()
		}
	}
}

func (s *session) handleKey(ev *tcell.EventKey) error {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return errQuit
	}
	if ev.Key() != tcell.KeyRune {
		return nil
	}
	switch r := ev.Rune(); r {
	case 'q':
		return errQuit
	case 'f':
		m, ok := s.w.Forward(1)
		s.report("forward", m, ok)
	case 'b':
		m, ok := s.w.Backward(1)
		s.report("backward", m, ok)
	case 'i':
		m, ok := s.w.Enter(1)
		s.report("enter", m, ok)
	case 'o':
		m, ok := s.w.Exit(1)
		s.report("exit", m, ok)
	case 'F':
		m, ok := s.w.Run(traverse.NewCircuit(traverse.Forward, 0))
		s.report("sweep forward", m, ok)
	case 'B':
		m, ok := s.w.Run(traverse.NewCircuit(traverse.Backward, 0))
		s.report("sweep backward", m, ok)
	case 'r':
		m, ok := s.w.Run(traverse.NewCircuit(traverse.Out, 0))
		s.report("root", m, ok)
	case 'R':
		s.reload()
	default:
		if name, ok := s.keymap[r]; ok {
			t, found := s.reg.Traversal(name)
			if !found {
				s.lastMsg = name + ": not defined"
				return nil
			}
			m, ok := s.w.Run(t)
			s.report(name, m, ok)
		}
	}
	return nil
}

// report records the outcome of a traversal for the status line.
func (s *session) report(label string, m traverse.Move, ok bool) {
	if !ok {
		s.lastMsg = label + ": no movement"
		return
	}
	s.lastMsg = fmt.Sprintf("%s: %s", label, m)
}

// reload re-reads the current file, keeping the cursor position where
// the new text allows. The demo document just resets to the start.
func (s *session) reload() {
	if s.filename == "" {
		s.sc.SetPos(0)
		s.lastMsg = "reset"
		return
	}
	doc, err := buffer.NewFromFile(s.filename)
	if err != nil {
		s.lastMsg = "reload failed: " + err.Error()
		return
	}
	s.rebuild(doc)
	s.lastMsg = "reloaded " + filepath.Base(s.filename)
}

// applyReload swaps in settings delivered by the config watcher.
func (s *session) applyReload(data any) {
	rs, ok := data.(reloadedSettings)
	if !ok {
		return
	}
	if rs.err != nil {
		s.lastMsg = "config reload failed: " + rs.err.Error()
		return
	}
	s.settings = rs.settings
	s.rebuild(s.doc)
	s.lastMsg = "config reloaded"
}

// rebuild recreates the scanner and walker over doc, preserving the
// cursor position and rebinding plugin bridges.
func (s *session) rebuild(doc *buffer.Document) {
	pos := s.sc.Pos()
	profile, err := resolveProfile(s.settings, s.language, s.filename)
	if err != nil {
		s.lastMsg = "profile: " + err.Error()
		profile = s.profile
	}
	s.doc = doc
	s.profile = profile
	s.sc = sexp.NewScanner(doc, profile)
	s.sc.SetPos(pos)
	s.w = walker.New(s.sc)
	s.reg.BindWalker(s.w)
}

func (s *session) draw() {
	s.screen.Clear()
	width, height := s.screen.Size()
	if width <= 0 || height <= 1 {
		s.screen.Show()
		return
	}
	contentHeight := height - 1

	pos := s.sc.Pos()
	point := s.doc.OffsetToPoint(pos)
	s.scrollTo(point.Line, uint32(contentHeight))

	start, end, inExpr := s.sc.ExprRange(pos)

	for row := 0; row < contentHeight; row++ {
		line := s.top + uint32(row)
		if line >= s.doc.LineCount() {
			break
		}
		lineStart := s.doc.LineStartOffset(line)
		text := s.doc.LineText(line)
		x := 0
		for i := 0; i < len(text) && x < width; {
			r, size := utf8.DecodeRuneInString(text[i:])
			off := lineStart + buffer.ByteOffset(i)
			style := styleText
			if inExpr && off >= start && off < end {
				style = styleExpr
			}
			s.screen.SetContent(x, row, r, nil, style)
			x += runewidth.RuneWidth(r)
			i += size
		}
	}

	cursorRow := int(point.Line) - int(s.top)
	if cursorRow >= 0 && cursorRow < contentHeight {
		prefix := s.doc.LineText(point.Line)[:point.Column]
		s.screen.ShowCursor(runewidth.StringWidth(prefix), cursorRow)
	} else {
		s.screen.HideCursor()
	}

	s.drawStatus(width, height-1, pos, point)
	s.screen.Show()
}

// scrollTo keeps the cursor line inside the content area.
func (s *session) scrollTo(line, contentHeight uint32) {
	if contentHeight == 0 {
		return
	}
	if line < s.top {
		s.top = line
	}
	if line >= s.top+contentHeight {
		s.top = line - contentHeight + 1
	}
}

func (s *session) drawStatus(width, y int, pos buffer.ByteOffset, point buffer.Point) {
	name := s.filename
	if name == "" {
		name = "[demo]"
	}
	status := fmt.Sprintf(" %s  %s  %d:%d (byte %d)  %s",
		name, s.profile.Name, point.Line+1, point.Column+1, pos, s.lastMsg)
	status = runewidth.Truncate(status, width, "…")
	status = runewidth.FillRight(status, width)

	x := 0
	for _, r := range status {
		if x >= width {
			break
		}
		s.screen.SetContent(x, y, r, nil, styleStatus)
		x += runewidth.RuneWidth(r)
	}
}
