package highlight

import (
	"errors"
	"testing"
)

func TestParseTheme(t *testing.T) {
	data := []byte(`{
		"name": "dusk",
		"colors": {
			"foreground": "#d8d8d8",
			"background": "#1c1c1c",
			"selection": "#3a3a5a"
		},
		"tokens": {
			"keyword": {"color": "#c678dd", "bold": true},
			"comment": {"color": "#5c6370", "italic": true},
			"hologram": {"color": "#ff00ff"}
		}
	}`)

	theme, err := ParseTheme(data)
	if err != nil {
		t.Fatal(err)
	}
	if theme.Name != "dusk" {
		t.Errorf("name = %q", theme.Name)
	}

	kw := theme.StyleFor(KindKeyword)
	if !kw.Bold || !kw.HasColor {
		t.Errorf("keyword style = %+v", kw)
	}
	if hex := kw.Foreground.Hex(); hex != "#c678dd" {
		t.Errorf("keyword color = %s", hex)
	}
	if c := theme.StyleFor(KindComment); !c.Italic {
		t.Errorf("comment style = %+v", c)
	}
	// Unstyled kinds inherit the theme foreground.
	if v := theme.StyleFor(KindLabel); v.Foreground.Hex() != "#d8d8d8" {
		t.Errorf("fallback color = %s", v.Foreground.Hex())
	}
}

func TestParseThemeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed json", `{"name": `},
		{"bad chrome color", `{"colors": {"background": "notacolor"}}`},
		{"bad token color", `{"tokens": {"keyword": {"color": "#zzz"}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseTheme([]byte(tt.data)); !errors.Is(err, ErrInvalidTheme) {
				t.Errorf("err = %v, want ErrInvalidTheme", err)
			}
		})
	}
}

func TestSelectionStyleBlends(t *testing.T) {
	theme := DefaultTheme()
	plain := theme.StyleFor(KindString).Foreground
	sel := theme.SelectionStyle(KindString).Foreground
	if plain == sel {
		t.Error("selection blend should shift the color")
	}
}

func TestKindNamesRoundTrip(t *testing.T) {
	for k := KindNone; k < kindCount; k++ {
		got, ok := KindFromName(k.String())
		if !ok || got != k {
			t.Errorf("KindFromName(%q) = %v, %v", k.String(), got, ok)
		}
	}
}
