package lidarmonitor

import (
	"net"
	"sync"
)

// Registry is the per-port container of active subscribers owned by that
// port's acceptor: an explicit collection scoped to one listener, not a
// process-wide singleton list.
type Registry struct {
	mu          sync.Mutex
	subscribers map[string]*Subscriber
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{subscribers: make(map[string]*Subscriber)}
}

// Add wraps conn as a Subscriber, starts its sender goroutine, and adds it
// to the registry. The subscriber removes itself on its first send
// failure.
func (r *Registry) Add(conn net.Conn) *Subscriber {
	sub := newSubscriber(conn, r.Remove)
	r.mu.Lock()
	r.subscribers[sub.ID] = sub
	r.mu.Unlock()
	return sub
}

// Remove deletes sub from the registry. Idempotent: removing an
// already-removed or unknown subscriber is a no-op.
func (r *Registry) Remove(sub *Subscriber) {
	r.mu.Lock()
	delete(r.subscribers, sub.ID)
	r.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the active subscriber list, safe
// to iterate without holding the registry lock (so a Broadcast never blocks
// on a peer's send).
func (r *Registry) Snapshot() []*Subscriber {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := make([]*Subscriber, 0, len(r.subscribers))
	for _, sub := range r.subscribers {
		snap = append(snap, sub)
	}
	return snap
}

// Broadcast enqueues msg on every currently registered subscriber. It never
// blocks on any individual subscriber's socket: each enqueue only ever
// touches that subscriber's own bounded queue.
func (r *Registry) Broadcast(msg string) {
	for _, sub := range r.Snapshot() {
		sub.Enqueue(msg)
	}
}

// Len reports the current subscriber count, for diagnostics (dashboard,
// admin surface).
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subscribers)
}

// CloseAll tears down every subscriber, for server shutdown.
func (r *Registry) CloseAll() {
	for _, sub := range r.Snapshot() {
		sub.Close()
	}
}
