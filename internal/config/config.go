// Package config loads editor settings from a TOML file and watches it
// for live reload.
//
// Settings are a plain value struct; a loaded file overrides defaults
// field by field and a missing file is not an error. Validation rejects
// values the engine cannot honor rather than silently clamping them.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid marks a settings file that parsed but fails validation.
var ErrInvalid = errors.New("invalid configuration")

// DefaultFileName is the settings file looked up under the user config
// directory.
const DefaultFileName = "vellum.toml"

// Settings is the full editor configuration.
type Settings struct {
	Editor    EditorSettings    `toml:"editor"`
	Highlight HighlightSettings `toml:"highlight"`
	Log       LogSettings       `toml:"log"`
}

// EditorSettings drive layout and cursor behavior.
type EditorSettings struct {
	// TabWidth is the tab stop interval in cells.
	TabWidth int `toml:"tab_width"`

	// WrapMode is "off", "hard" or "word".
	WrapMode string `toml:"wrap_mode"`

	// WrapColumn bounds wrapped rows when WrapMode is not "off".
	// Zero wraps at the window width.
	WrapColumn int `toml:"wrap_column"`

	// RelativeNumbers shows line numbers as distance from the caret.
	RelativeNumbers bool `toml:"relative_numbers"`

	// ScrollMarginV is the minimum line count kept between the caret
	// and the window edge while scrolling.
	ScrollMarginV int `toml:"scroll_margin_v"`

	// ScrollMarginH is the horizontal equivalent, in cells.
	ScrollMarginH int `toml:"scroll_margin_h"`
}

// HighlightSettings drive the syntax highlighter.
type HighlightSettings struct {
	// Theme is the name of a built-in theme, or a path to a theme
	// JSON file when it contains a separator.
	Theme string `toml:"theme"`

	// FallbackRatio is the fraction of the document that may be dirty
	// before an incremental reparse is abandoned for a full one.
	FallbackRatio float64 `toml:"fallback_ratio"`
}

// LogSettings drive diagnostic output.
type LogSettings struct {
	// Level is a zerolog level name; empty disables logging.
	Level string `toml:"level"`

	// Path is the log file. Empty logs to stderr.
	Path string `toml:"path"`
}

// Default returns the settings used when no file is present.
func Default() Settings {
	return Settings{
		Editor: EditorSettings{
			TabWidth:      4,
			WrapMode:      "off",
			ScrollMarginV: 3,
			ScrollMarginH: 8,
		},
		Highlight: HighlightSettings{
			Theme:         "vellum-dark",
			FallbackRatio: 0.5,
		},
		Log: LogSettings{
			Level: "warn",
		},
	}
}

// Load reads the settings file at path. A missing file yields defaults;
// a present but broken file returns an error so the caller can report
// it instead of silently reverting the user's configuration.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes TOML data over the defaults and validates the result.
func Parse(data []byte) (Settings, error) {
	s := Default()
	if err := toml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := s.Validate(); err != nil {
		return Default(), err
	}
	return s, nil
}

// Validate reports the first setting the engine cannot honor.
func (s Settings) Validate() error {
	if s.Editor.TabWidth < 1 || s.Editor.TabWidth > 16 {
		return fmt.Errorf("%w: editor.tab_width %d out of range [1, 16]", ErrInvalid, s.Editor.TabWidth)
	}
	switch s.Editor.WrapMode {
	case "off", "hard", "word":
	default:
		return fmt.Errorf("%w: editor.wrap_mode %q", ErrInvalid, s.Editor.WrapMode)
	}
	if s.Editor.WrapColumn < 0 {
		return fmt.Errorf("%w: editor.wrap_column %d is negative", ErrInvalid, s.Editor.WrapColumn)
	}
	if s.Editor.ScrollMarginV < 0 || s.Editor.ScrollMarginH < 0 {
		return fmt.Errorf("%w: scroll margins must not be negative", ErrInvalid)
	}
	if s.Highlight.FallbackRatio <= 0 || s.Highlight.FallbackRatio > 1 {
		return fmt.Errorf("%w: highlight.fallback_ratio %g out of range (0, 1]", ErrInvalid, s.Highlight.FallbackRatio)
	}
	return nil
}

// DefaultPath returns the conventional settings location, or empty when
// no user config directory exists.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vellum", DefaultFileName)
}
