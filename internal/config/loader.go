package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Load reads settings from a TOML file. A missing file is not an
// error; the defaults come back instead.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return parse(path, data)
}

// LoadReader reads settings from an io.Reader.
func LoadReader(r io.Reader) (Settings, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Settings{}, fmt.Errorf("reading config: %w", err)
	}
	return parse("<reader>", data)
}

func parse(source string, data []byte) (Settings, error) {
	s := Default()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Settings{}, &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
	}
	if err := s.Validate(); err != nil {
		return Settings{}, &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
	}
	return s, nil
}

// DefaultPath returns the conventional location of the settings file.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "symflow.toml"
	}
	return filepath.Join(dir, "symflow", "symflow.toml")
}
