package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dshills/symflow/internal/lang"
)

// Settings holds the user-facing configuration for a symflow session.
type Settings struct {
	// DefaultLanguage names the profile used when a file's extension
	// matches nothing else.
	DefaultLanguage string `toml:"default_language"`

	// Languages maps a language name to its delimiter overrides. A
	// section named after a built-in profile overlays it; any other
	// name defines a new language.
	Languages map[string]LanguageConfig `toml:"languages"`
}

// LanguageConfig overrides the delimiter profile for one language.
// Zero-valued fields keep the built-in behavior.
type LanguageConfig struct {
	// FileTypes lists file extensions (without the dot) the language
	// claims.
	FileTypes []string `toml:"file_types"`

	// Pairs lists delimiter pairs as two-character strings, open then
	// close, e.g. "()" or "[]".
	Pairs []string `toml:"pairs"`

	// LineComment is the leader that starts a comment running to end
	// of line.
	LineComment string `toml:"line_comment"`

	// StringDelims lists the characters that open and close strings.
	StringDelims string `toml:"string_delims"`

	// CharEscape is the character that neutralizes the next one
	// inside atoms and strings.
	CharEscape string `toml:"char_escape"`
}

// Default returns the settings used when no file is present.
func Default() Settings {
	return Settings{
		DefaultLanguage: "lisp",
	}
}

// Profile resolves a language name to a delimiter profile, applying
// any configured overrides on top of the built-in of the same name.
// Names are matched case-insensitively.
func (s Settings) Profile(name string) (lang.Profile, error) {
	for n, cfg := range s.Languages {
		if strings.EqualFold(n, name) {
			return cfg.Profile(n)
		}
	}
	if p := lang.ByName(name); p != nil {
		return *p, nil
	}
	return lang.Profile{}, fmt.Errorf("%w: %s", ErrUnknownLanguage, name)
}

// ProfileFor picks the delimiter profile for a filename. Configured
// languages are checked first, then the built-in extension table, then
// the default language.
func (s Settings) ProfileFor(filename string) lang.Profile {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext != "" {
		for name, cfg := range s.Languages {
			if !cfg.claimsExt(ext) {
				continue
			}
			if p, err := cfg.Profile(name); err == nil {
				return p
			}
		}
		if p, ok := lang.ByExtension(ext); ok {
			return *p
		}
	}
	if p, err := s.Profile(s.DefaultLanguage); err == nil {
		return p
	}
	return lang.Lisp
}

func (c LanguageConfig) claimsExt(ext string) bool {
	for _, ft := range c.FileTypes {
		if strings.EqualFold(ft, ext) {
			return true
		}
	}
	return false
}

// Profile builds the delimiter profile for the language, starting from
// the built-in of the same name when one exists.
func (c LanguageConfig) Profile(name string) (lang.Profile, error) {
	p := lang.Profile{
		Name:         strings.ToLower(name),
		LineComment:  ";",
		StringDelims: []byte{'"'},
		CharEscape:   '\\',
	}
	if base := lang.ByName(name); base != nil {
		p = *base
	}

	if len(c.FileTypes) > 0 {
		types := make([]string, len(c.FileTypes))
		for i, ft := range c.FileTypes {
			types[i] = strings.ToLower(strings.TrimPrefix(ft, "."))
		}
		p.FileTypes = types
	}
	if len(c.Pairs) > 0 {
		pairs := make([]lang.Pair, len(c.Pairs))
		for i, raw := range c.Pairs {
			if len(raw) != 2 {
				return lang.Profile{}, fmt.Errorf("language %s: pair %q: %w", name, raw, ErrBadPair)
			}
			pairs[i] = lang.Pair{Open: raw[0], Close: raw[1]}
		}
		p.Pairs = pairs
	}
	if c.LineComment != "" {
		p.LineComment = c.LineComment
	}
	if c.StringDelims != "" {
		p.StringDelims = []byte(c.StringDelims)
	}
	if c.CharEscape != "" {
		if len(c.CharEscape) != 1 {
			return lang.Profile{}, fmt.Errorf("language %s: escape %q: %w", name, c.CharEscape, ErrBadEscape)
		}
		p.CharEscape = c.CharEscape[0]
	}
	return p, nil
}

// Validate checks every configured language section.
func (s Settings) Validate() error {
	for name, cfg := range s.Languages {
		if _, err := cfg.Profile(name); err != nil {
			return err
		}
	}
	return nil
}
