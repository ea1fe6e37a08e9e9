package recent

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/danieljhkim/projdash/internal/clock"
	"github.com/danieljhkim/projdash/internal/event"
	"github.com/danieljhkim/projdash/internal/logger"
)

// Default timings.
const (
	DefaultDebounce     = 300 * time.Millisecond
	DefaultPollInterval = time.Second
)

var (
	// ErrWatcherStarted is returned by Start on a watcher that already runs.
	ErrWatcherStarted = errors.New("watcher already started")

	// ErrWatcherClosed is returned by Start after Close.
	ErrWatcherClosed = errors.New("watcher closed")
)

// Signals delivers the host's workspace lifecycle events.
type Signals interface {
	OnFoldersChanged(fn func()) *event.Subscription
	OnVisibleEditorsChanged(fn func()) *event.Subscription
}

// WatcherConfig holds the watcher timings. Zero values select the defaults.
type WatcherConfig struct {
	Debounce     time.Duration
	PollInterval time.Duration
}

// Watcher turns workspace signals into debounced refreshes and polls the
// store for changes written by other processes.
//
// A folders-changed signal restarts the folder timer and cancels any pending
// file refresh, since a folder refresh covers files too. A
// visible-editors-changed signal restarts the file timer unless a folder
// refresh is already pending, in which case it is dropped.
type Watcher struct {
	manager  *Manager
	signals  Signals
	clock    clock.Clock
	debounce time.Duration
	interval time.Duration
	log      *logger.Logger

	mu       sync.Mutex
	ctx      context.Context
	started  bool
	closed   bool
	folder   debounce
	file     debounce
	poller   clock.Timer
	subs     []*event.Subscription
	inflight sync.WaitGroup

	// pollMu orders fingerprint observations from polls and local writes.
	pollMu  sync.Mutex
	lastSum uint32
	lastOK  bool
}

// NewWatcher creates a Watcher for manager. Call Start to begin.
func NewWatcher(manager *Manager, signals Signals, clk clock.Clock, cfg WatcherConfig, log *logger.Logger) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return &Watcher{
		manager:  manager,
		signals:  signals,
		clock:    clk,
		debounce: cfg.Debounce,
		interval: cfg.PollInterval,
		log:      logger.OrGlobal(log).WithPrefix("recent-watcher"),
	}
}

// Start subscribes to the host signals, performs the startup refresh and
// begins polling. ctx is passed to every refresh and poll.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	switch {
	case w.closed:
		w.mu.Unlock()
		return ErrWatcherClosed
	case w.started:
		w.mu.Unlock()
		return ErrWatcherStarted
	}
	w.started = true
	w.ctx = ctx
	w.mu.Unlock()

	w.observeLocal()

	subs := []*event.Subscription{
		w.manager.OnChanged(w.observeLocal),
		w.signals.OnFoldersChanged(w.foldersChanged),
		w.signals.OnVisibleEditorsChanged(w.editorsChanged),
	}
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		for _, s := range subs {
			s.Dispose()
		}
		return ErrWatcherClosed
	}
	w.subs = subs
	w.inflight.Add(1)
	w.mu.Unlock()

	w.manager.Refresh(ctx, true)
	w.inflight.Done()

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.schedulePollLocked()
	}
	return nil
}

// Close stops the watcher: signal subscriptions are disposed, pending
// refreshes and the poll are cancelled, and Close waits for any refresh or
// poll already running. It must not be called from a change listener.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.folder.cancel()
	w.file.cancel()
	if w.poller != nil {
		w.poller.Stop()
		w.poller = nil
	}
	subs := w.subs
	w.subs = nil
	w.mu.Unlock()

	for _, s := range subs {
		s.Dispose()
	}
	w.inflight.Wait()
	return nil
}

// Pending reports which refreshes are waiting for their quiet period.
func (w *Watcher) Pending() (folder, file bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.folder.pending(), w.file.pending()
}

func (w *Watcher) foldersChanged() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.file.cancel()
	w.folder.schedule(w.clock, w.debounce, func(gen uint64) {
		w.fire(&w.folder, gen, true)
	})
}

func (w *Watcher) editorsChanged() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.folder.pending() {
		w.file.cancel()
		w.log.Debug("file refresh suppressed by pending folder refresh")
		return
	}
	w.file.schedule(w.clock, w.debounce, func(gen uint64) {
		w.fire(&w.file, gen, false)
	})
}

func (w *Watcher) fire(d *debounce, gen uint64, includeFolders bool) {
	w.mu.Lock()
	if w.closed || !d.claim(gen) {
		w.mu.Unlock()
		return
	}
	ctx := w.ctx
	w.inflight.Add(1)
	w.mu.Unlock()
	defer w.inflight.Done()

	w.log.Debug("refresh (folders=%v)", includeFolders)
	w.manager.Refresh(ctx, includeFolders)
}

func (w *Watcher) schedulePollLocked() {
	w.poller = w.clock.AfterFunc(w.interval, w.poll)
}

// poll compares the stored fingerprint with the last one observed and
// notifies listeners if another process changed the list.
func (w *Watcher) poll() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	ctx := w.ctx
	w.inflight.Add(1)
	w.mu.Unlock()
	defer w.inflight.Done()

	w.pollMu.Lock()
	diverged := false
	sum, ok, err := w.manager.storedSum(ctx)
	if err != nil {
		w.log.Warn("poll skipped: %v", err)
	} else {
		// A write of our own that has landed but not yet been announced is
		// left to its own notification.
		diverged = (sum != w.lastSum || ok != w.lastOK) && !w.manager.wroteLocally(sum, ok)
		w.lastSum, w.lastOK = sum, ok
	}
	w.pollMu.Unlock()

	w.mu.Lock()
	closed := w.closed
	if !closed {
		w.schedulePollLocked()
	}
	w.mu.Unlock()

	if diverged && !closed {
		w.log.Info("recent list changed by another process")
		w.manager.notify()
	}
}

// observeLocal records the current stored fingerprint so that this
// process's own writes are not reported again by the poll.
func (w *Watcher) observeLocal() {
	w.pollMu.Lock()
	defer w.pollMu.Unlock()
	w.mu.Lock()
	ctx := w.ctx
	w.mu.Unlock()
	sum, ok, err := w.manager.storedSum(ctx)
	if err != nil {
		w.log.Warn("cannot observe recent list: %v", err)
		return
	}
	w.lastSum, w.lastOK = sum, ok
	w.manager.observedLocally(sum, ok)
}
