package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the settle delay applied to file change bursts.
const DefaultDebounce = 100 * time.Millisecond

// Handler receives the reloaded settings, or the error that prevented
// the reload.
type Handler func(Settings, error)

// Watcher reloads a settings file when it changes on disk. Editors
// that replace the file on save (write to temp, rename over) are
// handled by watching the parent directory and filtering events down
// to the one path.
type Watcher struct {
	path    string
	delay   time.Duration
	fsw     *fsnotify.Watcher
	handler Handler

	mu      sync.Mutex
	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// WatchFile starts watching path and invokes handler with freshly
// loaded settings after each change settles. The parent directory of
// path must exist. A non-positive delay uses DefaultDebounce.
func WatchFile(path string, delay time.Duration, handler Handler) (*Watcher, error) {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    abs,
		delay:   delay,
		fsw:     fsw,
		handler: handler,
		closeCh: make(chan struct{}),
	}
	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	var timer *time.Timer
	var settle <-chan time.Time

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.delay)
				settle = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.delay)
			}

		case <-settle:
			timer = nil
			settle = nil
			w.handler(Load(w.path))

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.handler(Settings{}, err)

		case <-w.closeCh:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// Close stops the watcher and waits for the processing goroutine to
// finish. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
