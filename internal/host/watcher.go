package host

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/danieljhkim/projdash/internal/event"
	"github.com/danieljhkim/projdash/internal/logger"
)

// SessionWatcher raises workspace signals when the session file changes.
//
// The file's directory is watched rather than the file itself so that
// editors replacing the file with a rename are still observed.
type SessionWatcher struct {
	session *Session
	log     *logger.Logger

	folders event.Registry
	editors event.Registry

	mu      sync.Mutex
	last    *SessionFile
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewSessionWatcher creates a watcher over session. Call Start to begin
// watching.
func NewSessionWatcher(session *Session, log *logger.Logger) *SessionWatcher {
	return &SessionWatcher{
		session: session,
		log:     logger.OrGlobal(log).WithPrefix("session-watcher"),
		last:    session.Load(),
	}
}

// OnFoldersChanged registers fn for changes to the workspace folder list.
func (w *SessionWatcher) OnFoldersChanged(fn func()) *event.Subscription {
	return w.folders.Subscribe(fn)
}

// OnVisibleEditorsChanged registers fn for changes to the visible editors or
// open tabs.
func (w *SessionWatcher) OnVisibleEditorsChanged(fn func()) *event.Subscription {
	return w.editors.Subscribe(fn)
}

// Start begins watching the session file. It returns once the watch is in
// place; events are processed until ctx is done or Close is called.
func (w *SessionWatcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create session watcher: %w", err)
	}
	dir := filepath.Dir(w.session.Path())
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.mu.Lock()
	w.watcher = fw
	w.done = make(chan struct{})
	done := w.done
	w.mu.Unlock()

	go w.loop(ctx, fw, done)
	return nil
}

func (w *SessionWatcher) loop(ctx context.Context, fw *fsnotify.Watcher, done chan struct{}) {
	target := filepath.Clean(w.session.Path())
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				w.Reload()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.log.Error("session watcher error: %v", err)
		}
	}
}

// Reload re-reads the session file and emits a signal for each part that
// changed since the previous read.
func (w *SessionWatcher) Reload() {
	next := w.session.Load()

	w.mu.Lock()
	prev := w.last
	w.last = next
	w.mu.Unlock()

	foldersChanged := !slices.Equal(prev.Folders, next.Folders)
	editorsChanged := !slices.Equal(prev.VisibleEditors, next.VisibleEditors) ||
		!slices.Equal(prev.Tabs, next.Tabs)

	if foldersChanged {
		w.log.Debug("workspace folders changed (%d -> %d)", len(prev.Folders), len(next.Folders))
		w.folders.Emit()
	}
	if editorsChanged {
		w.log.Debug("visible editors changed")
		w.editors.Emit()
	}
}

// Close stops watching. It is safe to call more than once.
func (w *SessionWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return nil
	}
	close(w.done)
	err := w.watcher.Close()
	w.watcher = nil
	return err
}
