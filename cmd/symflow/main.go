// Package main is the entry point for the symflow structural navigator.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/dshills/symflow/internal/buffer"
	"github.com/dshills/symflow/internal/config"
	"github.com/dshills/symflow/internal/lang"
	"github.com/dshills/symflow/internal/plugin"
	"github.com/dshills/symflow/internal/sexp"
	"github.com/dshills/symflow/internal/walker"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// demoText is shown when no file is given.
const demoText = `(defun greet (name)
  (concat "hello " name))

; keys: f b i o move, F B sweep, r root, R reload, q quit
(let ((xs (list 1 2 3)))
  (mapcar (lambda (x) (* x x)) xs))
`

type options struct {
	configPath string
	language   string
	trace      string
	pluginDir  string
	logLevel   string
	file       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	logger := NewLogger(ParseLogLevel(opts.logLevel), os.Stderr, "symflow")

	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	settings, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return 1
	}

	doc, filename, err := openDocument(opts.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	profile, err := resolveProfile(settings, opts.language, filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	paths := plugin.DefaultPluginPaths()
	if opts.pluginDir != "" {
		paths = append(paths, opts.pluginDir)
	}
	registry := plugin.NewRegistry(paths...)
	if err := registry.LoadAll(); err != nil {
		logger.WithComponent("plugin").Warn("plugin load: %v", err)
	}
	defer registry.Close()

	sc := sexp.NewScanner(doc, profile)
	w := walker.New(sc)
	registry.BindWalker(w)

	if opts.trace != "" {
		if err := runTrace(os.Stdout, w, registry, opts.trace); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	s := newSession(sessionConfig{
		doc:        doc,
		filename:   filename,
		language:   opts.language,
		profile:    profile,
		scanner:    sc,
		walker:     w,
		registry:   registry,
		settings:   settings,
		configPath: configPath,
		logger:     logger,
	})
	if err := s.Run(); err != nil {
		if errors.Is(err, errQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// openDocument loads the named file, or the demo text when name is
// empty. The returned filename is empty for the demo document.
func openDocument(name string) (*buffer.Document, string, error) {
	if name == "" {
		return buffer.New(demoText), "", nil
	}
	doc, err := buffer.NewFromFile(name)
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", name, err)
	}
	return doc, name, nil
}

// resolveProfile picks the delimiter profile: a forced language wins,
// then the filename's extension, then the configured default.
func resolveProfile(settings config.Settings, language, filename string) (lang.Profile, error) {
	if language != "" {
		return settings.Profile(language)
	}
	return settings.ProfileFor(filename), nil
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.language, "lang", "", "Force a language profile (lisp, scheme, racket, clojure, fennel, or configured)")
	flag.StringVar(&opts.language, "l", "", "Force a language profile (shorthand)")
	flag.StringVar(&opts.trace, "trace", "", "Run a step script (e.g. \"i 2f b o\") and print achieved moves")
	flag.StringVar(&opts.trace, "t", "", "Run a step script (shorthand)")
	flag.StringVar(&opts.pluginDir, "plugins", "", "Additional plugin directory")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Symflow - structural navigation for symbolic expressions\n\n")
		fmt.Fprintf(os.Stderr, "Usage: symflow [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  symflow                     Explore the built-in demo text\n")
		fmt.Fprintf(os.Stderr, "  symflow init.el             Navigate a file\n")
		fmt.Fprintf(os.Stderr, "  symflow -l clojure core.txt Force the clojure profile\n")
		fmt.Fprintf(os.Stderr, "  symflow -t \"i 2f b\" file.el Print the moves a script achieves\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Symflow %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.logLevel {
	case "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}

	if args := flag.Args(); len(args) > 0 {
		opts.file = args[0]
	}

	return opts
}
