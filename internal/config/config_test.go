package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestDefaults(t *testing.T) {
	s := Default()
	if s.Editor.TabWidth != 4 {
		t.Errorf("TabWidth = %d", s.Editor.TabWidth)
	}
	if s.Editor.WrapMode != "off" {
		t.Errorf("WrapMode = %q", s.Editor.WrapMode)
	}
	if s.Highlight.FallbackRatio != 0.5 {
		t.Errorf("FallbackRatio = %g", s.Highlight.FallbackRatio)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults fail validation: %v", err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	data := []byte(`
[editor]
tab_width = 8
wrap_mode = "word"
wrap_column = 100
relative_numbers = true

[highlight]
theme = "dusk"
fallback_ratio = 0.25
`)
	s, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Editor.TabWidth != 8 || s.Editor.WrapMode != "word" || s.Editor.WrapColumn != 100 {
		t.Errorf("editor = %+v", s.Editor)
	}
	if !s.Editor.RelativeNumbers {
		t.Error("RelativeNumbers not set")
	}
	if s.Highlight.Theme != "dusk" || s.Highlight.FallbackRatio != 0.25 {
		t.Errorf("highlight = %+v", s.Highlight)
	}
	// Untouched sections keep their defaults.
	if s.Editor.ScrollMarginV != 3 {
		t.Errorf("ScrollMarginV = %d, want default", s.Editor.ScrollMarginV)
	}
	if s.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want default", s.Log.Level)
	}
}

func TestParseRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed toml", `[editor` + "\n"},
		{"tab width zero", "[editor]\ntab_width = 0\n"},
		{"tab width huge", "[editor]\ntab_width = 99\n"},
		{"unknown wrap mode", "[editor]\nwrap_mode = \"spiral\"\n"},
		{"negative wrap column", "[editor]\nwrap_column = -1\n"},
		{"negative margin", "[editor]\nscroll_margin_v = -2\n"},
		{"ratio zero", "[highlight]\nfallback_ratio = 0.0\n"},
		{"ratio above one", "[highlight]\nfallback_ratio = 1.5\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); !errors.Is(err, ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s != Default() {
		t.Errorf("settings = %+v, want defaults", s)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vellum.toml")
	if err := os.WriteFile(path, []byte("[editor]\ntab_width = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Editor.TabWidth != 2 {
		t.Errorf("TabWidth = %d", s.Editor.TabWidth)
	}
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vellum.toml")
	if err := os.WriteFile(path, []byte("[editor]\ntab_width = 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var got []Settings
	w, err := Watch(path, zerolog.Nop(), func(s Settings) {
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[editor]\ntab_width = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("no reload observed")
		case <-time.After(20 * time.Millisecond):
		}
	}
	mu.Lock()
	defer mu.Unlock()
	if got[len(got)-1].Editor.TabWidth != 2 {
		t.Errorf("reloaded TabWidth = %d", got[len(got)-1].Editor.TabWidth)
	}
}

func TestWatcherSkipsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vellum.toml")
	if err := os.WriteFile(path, []byte("[editor]\ntab_width = 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	calls := make(chan Settings, 4)
	w, err := Watch(path, zerolog.Nop(), func(s Settings) { calls <- s })
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer w.Close()

	// A half-written file must not reach the callback.
	if err := os.WriteFile(path, []byte("[editor\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case s := <-calls:
		t.Fatalf("broken file delivered settings %+v", s)
	case <-time.After(500 * time.Millisecond):
	}

	// Fixing the file resumes delivery.
	if err := os.WriteFile(path, []byte("[editor]\ntab_width = 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case s := <-calls:
		if s.Editor.TabWidth != 6 {
			t.Errorf("TabWidth = %d", s.Editor.TabWidth)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after repair")
	}
}
