package profile

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Watcher holds the current profile and swaps it when the file changes. A
// profile that fails to parse is logged and the previous one stays active.
type Watcher struct {
	path    string
	current atomic.Pointer[Profile]

	mu       sync.Mutex
	onChange []func(old, new *Profile)

	fs     *fsnotify.Watcher
	stopCh chan struct{}
	done   chan struct{}
}

// Watch loads path and starts watching it. The parent directory is watched
// so editors that replace the file by rename are noticed too.
func Watch(path string) (*Watcher, error) {
	p, err := Load(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch profile dir: %w", err)
	}

	w := &Watcher{
		path:   filepath.Clean(path),
		fs:     fw,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	w.current.Store(p)
	go w.loop()
	return w, nil
}

// Static wraps an already parsed profile; it never reloads.
func Static(p *Profile) *Watcher {
	w := &Watcher{}
	w.current.Store(p)
	return w
}

// Get returns the active profile.
func (w *Watcher) Get() *Profile {
	return w.current.Load()
}

// OnChange registers fn to run after each successful reload.
func (w *Watcher) OnChange(fn func(old, new *Profile)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, fn)
}

// Reload re-reads the file and swaps the profile on success.
func (w *Watcher) Reload() error {
	if w.path == "" {
		return errors.New("static profile cannot be reloaded")
	}
	p, err := Load(w.path)
	if err != nil {
		return err
	}
	old := w.current.Swap(p)

	w.mu.Lock()
	fns := slices.Clone(w.onChange)
	w.mu.Unlock()
	for _, fn := range fns {
		fn(old, p)
	}
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if err := w.Reload(); err != nil {
				log.WithError(err).WithField("path", w.path).Warn("profile reload failed; keeping previous profile")
				continue
			}
			log.WithField("path", w.path).Info("profile reloaded")
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("profile watcher error")
		case <-w.stopCh:
			return
		}
	}
}

// Close stops watching. It is a no-op for static watchers.
func (w *Watcher) Close() error {
	if w.fs == nil {
		return nil
	}
	close(w.stopCh)
	err := w.fs.Close()
	<-w.done
	return err
}
