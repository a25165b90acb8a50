package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// debounceDelay absorbs the write bursts editors produce when saving.
const debounceDelay = 100 * time.Millisecond

// Watcher reloads a settings file when it changes on disk and hands the
// result to a callback. Broken intermediate states are logged and
// skipped; the previous settings stay active.
type Watcher struct {
	path string
	fn   func(Settings)
	log  zerolog.Logger

	fw   *fsnotify.Watcher
	done chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

// Watch starts watching path and calls fn with each valid reload. The
// directory rather than the file itself is watched because most editors
// save by rename, which replaces the inode.
func Watch(path string, log zerolog.Logger, fn func(Settings)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}
	w := &Watcher{
		path: path,
		fn:   fn,
		log:  log,
		fw:   fw,
		done: make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher. Pending debounced reloads are dropped.
func (w *Watcher) Close() error {
	close(w.done)
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.schedule()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("config watch error")
		}
	}
}

// schedule arms the debounce timer, restarting it if already armed.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounceDelay, w.reload)
}

func (w *Watcher) reload() {
	select {
	case <-w.done:
		return
	default:
	}
	s, err := Load(w.path)
	if err != nil {
		w.log.Warn().Err(err).Str("path", w.path).Msg("config reload rejected")
		return
	}
	w.log.Debug().Str("path", w.path).Msg("config reloaded")
	w.fn(s)
}
