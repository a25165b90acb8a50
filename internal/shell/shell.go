// Package shell hosts the engine in a terminal. It owns the tcell
// screen, translates key events into engine messages, executes the
// commands the engine returns, and paints frames.
//
// The shell is deliberately thin: all editing semantics live in the
// engine, and the shell could be replaced by any other front end that
// speaks messages and commands.
package shell

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/vellum-editor/vellum/internal/config"
	"github.com/vellum-editor/vellum/internal/engine"
	"github.com/vellum-editor/vellum/internal/highlight"
)

// ErrQuit reports a normal user-requested exit.
var ErrQuit = errors.New("quit")

// frameBudget caps how long one paint may spend in the highlighter.
const frameBudget = 50 * time.Millisecond

// Shell runs one editor session over a tcell screen.
type Shell struct {
	screen tcell.Screen
	model  engine.Model
	theme  *highlight.Theme
	log    zerolog.Logger

	// clipboard is the internal paste register. The terminal has no
	// portable clipboard read path, so Cut/Copy land here.
	clipboard string

	// settings is swapped by the config watcher between frames.
	settings chan config.Settings
}

// New creates a shell over its own tcell screen. path may be empty for
// a scratch buffer.
func New(path string, cfg config.Settings, log zerolog.Logger) (*Shell, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnablePaste()

	content := ""
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			screen.Fini()
			return nil, err
		}
		content = string(data)
	}

	doc := engine.NewDocument(path, content, log,
		highlight.WithFallbackRatio(cfg.Highlight.FallbackRatio))
	width, height := screen.Size()
	s := &Shell{
		screen:   screen,
		model:    engine.NewModel(doc, width, height),
		theme:    highlight.DefaultTheme(),
		log:      log,
		settings: make(chan config.Settings, 1),
	}
	s.applySettings(cfg)
	return s, nil
}

// ApplySettings queues a settings change for the next frame. Safe to
// call from the config watcher goroutine.
func (s *Shell) ApplySettings(cfg config.Settings) {
	select {
	case s.settings <- cfg:
	default:
	}
}

func (s *Shell) applySettings(cfg config.Settings) {
	s.model.Render.SetTabWidth(cfg.Editor.TabWidth)
	width, _ := s.screen.Size()
	switch cfg.Editor.WrapMode {
	case "off":
		s.model.Render.SetWrap(0, false)
	case "hard", "word":
		col := cfg.Editor.WrapColumn
		if col <= 0 {
			col = width - s.model.Render.GutterWidth()
		}
		s.model.Render.SetWrap(col, cfg.Editor.WrapMode == "word")
	}
	s.model.Render.SetRelativeNumbers(cfg.Editor.RelativeNumbers)

	if strings.ContainsRune(cfg.Highlight.Theme, os.PathSeparator) {
		if data, err := os.ReadFile(cfg.Highlight.Theme); err == nil {
			if theme, err := highlight.ParseTheme(data); err == nil {
				s.theme = theme
			} else {
				s.log.Warn().Err(err).Str("theme", cfg.Highlight.Theme).Msg("theme rejected")
			}
		}
	}
}

// Run drives the event loop until the user quits or the screen fails.
func (s *Shell) Run() error {
	defer s.close()
	for {
		select {
		case cfg := <-s.settings:
			s.applySettings(cfg)
		default:
		}
		if err := s.paint(); err != nil {
			return err
		}

		ev := s.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			width, height := ev.Size()
			s.dispatch(engine.Resize{Width: width, Height: height})
			s.screen.Sync()
		case *tcell.EventPaste:
			// Bracketed paste arrives between start and end markers;
			// runes in between flow through EventKey as usual.
		case *tcell.EventKey:
			msg, quit := translateKey(ev, s.clipboard)
			if quit {
				return ErrQuit
			}
			if msg != nil {
				s.dispatch(msg)
			}
		}
	}
}

// dispatch runs one message through the engine and executes the
// returned commands.
func (s *Shell) dispatch(msg engine.Msg) {
	model, cmds := engine.Update(s.model, msg)
	s.model = model
	for _, cmd := range cmds {
		s.execute(cmd)
	}
}

func (s *Shell) execute(cmd engine.Command) {
	switch cmd := cmd.(type) {
	case engine.ScrollTo:
		// The viewport already moved; the next paint picks it up.
	case engine.SetClipboard:
		s.clipboard = cmd.Text
	case engine.RequestSave:
		if err := os.WriteFile(cmd.Path, []byte(cmd.Content), 0o644); err != nil {
			s.model.Doc.Log.Error().Err(err).Str("path", cmd.Path).Msg("save failed")
		}
	case engine.RequestLoad:
		data, err := os.ReadFile(cmd.Path)
		if err != nil {
			s.model.Doc.Log.Error().Err(err).Str("path", cmd.Path).Msg("load failed")
			return
		}
		s.dispatch(engine.Loaded{Path: cmd.Path, Content: string(data)})
	}
}

func (s *Shell) paint() error {
	ctx, cancel := context.WithTimeout(context.Background(), frameBudget)
	defer cancel()

	d := s.model.Doc
	frame := s.model.Render.Frame(ctx, d.Buf.Snapshot(), d.Cursors.All(), d.Hl)
	drawFrame(s.screen, frame, s.theme, d.Cursors.Primary(), d.Buf.Snapshot())
	s.screen.Show()
	return nil
}

func (s *Shell) close() {
	s.screen.Fini()
	s.model.Doc.Close()
}
