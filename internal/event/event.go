// Package event implements a small observer registry for payload-free
// notifications.
package event

import "sync"

// Registry holds an ordered set of listeners. The zero value is ready to use.
type Registry struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []listener
}

type listener struct {
	id uint64
	fn func()
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	once     sync.Once
	registry *Registry
	id       uint64
}

// Subscribe adds fn to the registry. Listeners are called in subscription
// order.
func (r *Registry) Subscribe(fn func()) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.listeners = append(r.listeners, listener{id: r.nextID, fn: fn})
	return &Subscription{registry: r, id: r.nextID}
}

// Emit calls every listener registered at the time of the call. Listeners may
// subscribe or dispose from inside the callback.
func (r *Registry) Emit() {
	r.mu.Lock()
	snapshot := make([]listener, len(r.listeners))
	copy(snapshot, r.listeners)
	r.mu.Unlock()

	for _, l := range snapshot {
		l.fn()
	}
}

// Len returns the number of registered listeners.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}

func (r *Registry) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.listeners {
		if l.id == id {
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// Dispose removes the listener. Calling Dispose more than once, or on a nil
// Subscription, is safe.
func (s *Subscription) Dispose() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.registry.remove(s.id)
	})
}
