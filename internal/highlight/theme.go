package highlight

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tidwall/gjson"
)

// ErrInvalidTheme reports a theme file that cannot be used.
var ErrInvalidTheme = errors.New("invalid theme")

// Style is the visual treatment of a span kind. Zero-value color fields
// mean "inherit the theme foreground".
type Style struct {
	Foreground colorful.Color
	HasColor   bool
	Bold       bool
	Italic     bool
	Underline  bool
}

// Theme maps span kinds to styles plus the handful of editor-chrome
// colors the renderer needs.
type Theme struct {
	Name string

	Foreground    colorful.Color
	Background    colorful.Color
	Selection     colorful.Color
	CursorColor   colorful.Color
	LineHighlight colorful.Color

	styles [kindCount]Style
}

// StyleFor returns the style for a span kind, falling back to the plain
// foreground.
func (t *Theme) StyleFor(k Kind) Style {
	if k < kindCount && t.styles[k].HasColor {
		return t.styles[k]
	}
	return Style{Foreground: t.Foreground, HasColor: true}
}

// SelectionStyle blends a span's color toward the selection background
// so selected text keeps its syntax color but reads as selected.
func (t *Theme) SelectionStyle(k Kind) Style {
	s := t.StyleFor(k)
	s.Foreground = s.Foreground.BlendLab(t.Selection, 0.25).Clamped()
	return s
}

// ParseTheme reads a JSON theme document:
//
//	{
//	  "name": "dusk",
//	  "colors": {"foreground": "#d8d8d8", "background": "#1c1c1c",
//	             "selection": "#3a3a5a"},
//	  "tokens": {"keyword": {"color": "#c678dd", "bold": true},
//	             "comment": {"color": "#5c6370", "italic": true}}
//	}
//
// Unknown token names are skipped so themes stay forward compatible.
func ParseTheme(data []byte) (*Theme, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidTheme)
	}
	doc := gjson.ParseBytes(data)

	t := DefaultTheme()
	if name := doc.Get("name"); name.Exists() {
		t.Name = name.String()
	}

	var err error
	assign := func(dst *colorful.Color, path string) {
		res := doc.Get(path)
		if !res.Exists() || err != nil {
			return
		}
		c, herr := colorful.Hex(res.String())
		if herr != nil {
			err = fmt.Errorf("%w: %s: %v", ErrInvalidTheme, path, herr)
			return
		}
		*dst = c
	}
	assign(&t.Foreground, "colors.foreground")
	assign(&t.Background, "colors.background")
	assign(&t.Selection, "colors.selection")
	assign(&t.CursorColor, "colors.cursor")
	assign(&t.LineHighlight, "colors.line_highlight")
	if err != nil {
		return nil, err
	}

	doc.Get("tokens").ForEach(func(key, value gjson.Result) bool {
		kind, ok := KindFromName(key.String())
		if !ok {
			return true
		}
		s := Style{
			Bold:      value.Get("bold").Bool(),
			Italic:    value.Get("italic").Bool(),
			Underline: value.Get("underline").Bool(),
		}
		if col := value.Get("color"); col.Exists() {
			c, herr := colorful.Hex(col.String())
			if herr != nil {
				err = fmt.Errorf("%w: tokens.%s: %v", ErrInvalidTheme, key.String(), herr)
				return false
			}
			s.Foreground = c
			s.HasColor = true
		}
		t.styles[kind] = s
		return true
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// DefaultTheme is a dark theme usable without any theme file.
func DefaultTheme() *Theme {
	t := &Theme{
		Name:          "vellum-dark",
		Foreground:    mustHex("#d4d4d4"),
		Background:    mustHex("#1e1e1e"),
		Selection:     mustHex("#404080"),
		CursorColor:   mustHex("#ffffff"),
		LineHighlight: mustHex("#282828"),
	}
	set := func(k Kind, hex string, italic bool) {
		t.styles[k] = Style{Foreground: mustHex(hex), HasColor: true, Italic: italic}
	}
	set(KindComment, "#6a9955", true)
	set(KindString, "#ce9178", false)
	set(KindNumber, "#b5cea8", false)
	set(KindKeyword, "#c586c0", false)
	set(KindOperator, "#d4d4d4", false)
	set(KindPunct, "#808080", false)
	set(KindFunction, "#dcdcaa", false)
	set(KindType, "#4ec9b0", false)
	set(KindVariable, "#9cdcfe", false)
	set(KindProperty, "#9cdcfe", false)
	set(KindConstant, "#569cd6", false)
	set(KindNamespace, "#4ec9b0", false)
	set(KindLabel, "#c8c8c8", false)
	return t
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
