package engine

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/danieljhkim/projdash/internal/host"
	"github.com/danieljhkim/projdash/internal/recent"
)

// Watch runs the change watcher against the session file until ctx is done.
//
// onChange is called with the current list after change notifications, from
// a single goroutine. Notifications that arrive while onChange runs are
// coalesced into one further call.
func (e *Engine) Watch(ctx context.Context, onChange func(*ListResult)) error {
	sessionWatcher := host.NewSessionWatcher(e.session, e.log)
	watcher := recent.NewWatcher(e.manager, sessionWatcher, e.clock, e.timings, e.log)

	changed := make(chan struct{}, 1)
	sub := e.manager.OnChanged(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer sub.Dispose()

	// The file watch goes in before the startup refresh, so an edit made in
	// between is either read by the refresh or reported by fsnotify.
	if err := sessionWatcher.Start(ctx); err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		_ = sessionWatcher.Close()
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	e.log.Info("watching %s", e.session.Path())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		return errors.Join(watcher.Close(), sessionWatcher.Close())
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-changed:
				if folder, file := watcher.Pending(); folder || file {
					e.log.Debug("change delivered with refresh pending (folders=%v files=%v)", folder, file)
				}
				if onChange != nil {
					onChange(e.ListRecents(gctx))
				}
			}
		}
	})

	err := g.Wait()
	e.log.Info("stopped watching")
	return err
}
