package lang

import (
	"path/filepath"
	"strings"
)

// Pair is a matched open/close delimiter pair.
type Pair struct {
	Open  byte
	Close byte
}

// Profile describes the surface syntax a dialect uses for expression
// boundaries. The scanner needs nothing else: which characters open and
// close compound expressions, how line comments start, how strings are
// quoted, and which character escapes the next one.
type Profile struct {
	// Name is the profile identifier (e.g., "scheme", "clojure").
	Name string

	// FileTypes lists file extensions (without dot) this profile covers.
	FileTypes []string

	// Pairs are the delimiter pairs treated as compound expressions.
	Pairs []Pair

	// LineComment starts a comment that runs to the end of the line.
	LineComment string

	// StringDelims are the characters that open and close a string.
	StringDelims []byte

	// CharEscape neutralizes the character that follows it, inside and
	// outside strings (covers Lisp character literals like #\( ).
	CharEscape byte
}

// IsOpen returns true if c opens a compound expression.
func (p Profile) IsOpen(c byte) bool {
	for _, pair := range p.Pairs {
		if pair.Open == c {
			return true
		}
	}
	return false
}

// IsClose returns true if c closes a compound expression.
func (p Profile) IsClose(c byte) bool {
	for _, pair := range p.Pairs {
		if pair.Close == c {
			return true
		}
	}
	return false
}

// MatchOf returns the matching delimiter for c.
// Returns 0 if c is not a delimiter.
func (p Profile) MatchOf(c byte) byte {
	for _, pair := range p.Pairs {
		if pair.Open == c {
			return pair.Close
		}
		if pair.Close == c {
			return pair.Open
		}
	}
	return 0
}

// IsStringDelim returns true if c opens or closes a string.
func (p Profile) IsStringDelim(c byte) bool {
	for _, d := range p.StringDelims {
		if d == c {
			return true
		}
	}
	return false
}

// Standard profiles.
var (
	Lisp = Profile{
		Name:         "lisp",
		FileTypes:    []string{"lisp", "el", "lsp", "cl"},
		Pairs:        []Pair{{'(', ')'}},
		LineComment:  ";",
		StringDelims: []byte{'"'},
		CharEscape:   '\\',
	}

	Scheme = Profile{
		Name:         "scheme",
		FileTypes:    []string{"scm", "ss", "sls", "sld"},
		Pairs:        []Pair{{'(', ')'}, {'[', ']'}},
		LineComment:  ";",
		StringDelims: []byte{'"'},
		CharEscape:   '\\',
	}

	Racket = Profile{
		Name:         "racket",
		FileTypes:    []string{"rkt", "rktl"},
		Pairs:        []Pair{{'(', ')'}, {'[', ']'}, {'{', '}'}},
		LineComment:  ";",
		StringDelims: []byte{'"'},
		CharEscape:   '\\',
	}

	Clojure = Profile{
		Name:         "clojure",
		FileTypes:    []string{"clj", "cljs", "cljc", "edn"},
		Pairs:        []Pair{{'(', ')'}, {'[', ']'}, {'{', '}'}},
		LineComment:  ";",
		StringDelims: []byte{'"'},
		CharEscape:   '\\',
	}

	Fennel = Profile{
		Name:         "fennel",
		FileTypes:    []string{"fnl"},
		Pairs:        []Pair{{'(', ')'}, {'[', ']'}, {'{', '}'}},
		LineComment:  ";",
		StringDelims: []byte{'"'},
		CharEscape:   '\\',
	}
)

// profiles maps profile names to their definitions.
var profiles = map[string]*Profile{
	"lisp":    &Lisp,
	"scheme":  &Scheme,
	"racket":  &Racket,
	"clojure": &Clojure,
	"fennel":  &Fennel,
}

// ByName returns the profile with the given name.
// Returns nil if the name is not a known profile.
func ByName(name string) *Profile {
	return profiles[strings.ToLower(name)]
}

// Names returns all registered profile names.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for name := range profiles {
		names = append(names, name)
	}
	return names
}

// ByExtension returns the profile covering a file extension. The
// leading dot may be included or omitted.
func ByExtension(ext string) (*Profile, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, p := range profiles {
		for _, ft := range p.FileTypes {
			if ft == ext {
				return p, true
			}
		}
	}
	return nil, false
}

// DetectProfile picks a profile for a filename by its extension.
// Falls back to Lisp when the extension is unknown.
func DetectProfile(filename string) Profile {
	if p, ok := ByExtension(filepath.Ext(filename)); ok {
		return *p
	}
	return Lisp
}
