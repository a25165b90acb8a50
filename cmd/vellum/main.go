// Package main is the entry point for the vellum editor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/vellum-editor/vellum/internal/config"
	"github.com/vellum-editor/vellum/internal/shell"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "path to settings file")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Println("vellum", version)
		return 0
	}

	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vellum: %v\n", err)
		return 1
	}

	log, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vellum: %v\n", err)
		return 1
	}
	defer closeLog()

	path := flag.Arg(0)
	sh, err := shell.New(path, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vellum: %v\n", err)
		return 1
	}

	if configPath != "" {
		watcher, err := config.Watch(configPath, log, sh.ApplySettings)
		if err != nil {
			log.Warn().Err(err).Msg("config watch unavailable")
		} else {
			defer watcher.Close()
		}
	}

	if err := sh.Run(); err != nil && !errors.Is(err, shell.ErrQuit) {
		fmt.Fprintf(os.Stderr, "vellum: %v\n", err)
		return 1
	}
	return 0
}

// newLogger builds the process logger from settings. The terminal owns
// stdout, so without a log file diagnostics go to stderr where they
// surface after exit.
func newLogger(cfg config.LogSettings) (zerolog.Logger, func(), error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}
	if cfg.Level == "" {
		return zerolog.Nop(), func() {}, nil
	}

	var w io.Writer = os.Stderr
	closeLog := func() {}
	if cfg.Path != "" {
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), func() {}, err
		}
		w = f
		closeLog = func() { f.Close() }
	}
	log := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return log, closeLog, nil
}
