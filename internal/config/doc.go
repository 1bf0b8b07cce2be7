// Package config loads and watches symflow settings.
//
// Settings live in a single TOML file. A missing file is not an error;
// loading falls back to defaults. Language sections overlay the
// built-in delimiter profiles, and a Watcher reloads the file when it
// changes on disk so a running session picks up edits.
package config
