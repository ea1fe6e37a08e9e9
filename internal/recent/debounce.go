package recent

import (
	"time"

	"github.com/danieljhkim/projdash/internal/clock"
)

// debounce is the state of one signal class: Idle when timer is nil,
// Pending otherwise. It is not safe for concurrent use; Watcher guards it.
type debounce struct {
	timer clock.Timer
	// gen increases on every cancel so that a timer callback which already
	// fired but lost the race for the lock can tell it is stale.
	gen uint64
}

func (d *debounce) pending() bool {
	return d.timer != nil
}

// cancel returns the state machine to Idle.
func (d *debounce) cancel() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}

// schedule cancels any pending call and arms a new one. fire receives the
// generation it was armed with.
func (d *debounce) schedule(c clock.Clock, delay time.Duration, fire func(gen uint64)) {
	d.cancel()
	gen := d.gen
	d.timer = c.AfterFunc(delay, func() { fire(gen) })
}

// claim transitions Pending(gen) to Idle. It reports false when the call is
// stale.
func (d *debounce) claim(gen uint64) bool {
	if d.timer == nil || d.gen != gen {
		return false
	}
	d.timer = nil
	return true
}
