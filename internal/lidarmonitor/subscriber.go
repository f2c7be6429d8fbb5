// Package lidarmonitor implements the two monitor fan-out ports (data and
// status) with per-subscriber bounded queues that isolate slow consumers.
// Grounded on internal/serialmux's subscriber-map and non-blocking
// broadcast idiom, extended with drop-oldest-on-overflow semantics so a
// stalled consumer never falls permanently behind on state.
package lidarmonitor

import (
	"net"
	"sync"

	"github.com/google/uuid"
)

// subscriberQueueCapacity is the default bound on a subscriber's pending
// message queue before the oldest queued message is dropped.
const subscriberQueueCapacity = 256

// subscriberState models the per-subscriber lifecycle:
// Connected -> Live -> Dead.
type subscriberState int

const (
	stateConnected subscriberState = iota
	stateLive
	stateDead
)

// Subscriber is one accepted monitor connection: a bounded queue plus a
// dedicated sender goroutine that drains it onto the underlying socket.
type Subscriber struct {
	ID   string
	conn net.Conn

	mu    sync.Mutex
	queue []string
	state subscriberState

	wake chan struct{} // signals the sender that the queue is non-empty
	dead chan struct{} // closed exactly once, when the sender gives up
}

// newSubscriber wraps an accepted connection and starts its sender
// goroutine. onDead is invoked exactly once, when the subscriber first
// becomes Dead (its send loop fails, or Close is called), so the owning
// registry can remove it.
func newSubscriber(conn net.Conn, onDead func(*Subscriber)) *Subscriber {
	s := &Subscriber{
		ID:    uuid.NewString(),
		conn:  conn,
		state: stateLive,
		wake:  make(chan struct{}, 1),
		dead:  make(chan struct{}),
	}

	go s.run()
	go func() {
		<-s.dead
		onDead(s)
	}()
	return s
}

// Enqueue appends msg to the subscriber's queue. If the queue is already at
// capacity, the oldest queued message is dropped first so the newest state
// is always the one retained. This never blocks the caller and never
// touches any other subscriber's queue.
func (s *Subscriber) Enqueue(msg string) {
	s.mu.Lock()
	if len(s.queue) >= subscriberQueueCapacity {
		s.queue = s.queue[1:]
	}
	s.queue = append(s.queue, msg)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// run dequeues and writes until a write fails, at which point the
// subscriber transitions to Dead and its connection is closed.
func (s *Subscriber) run() {
	for {
		msg, ok := s.dequeue()
		if !ok {
			select {
			case <-s.wake:
				continue
			case <-s.dead:
				return
			}
		}

		if _, err := s.conn.Write([]byte(msg)); err != nil {
			s.markDead()
			return
		}
	}
}

func (s *Subscriber) dequeue() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return "", false
	}
	msg := s.queue[0]
	s.queue = s.queue[1:]
	return msg, true
}

func (s *Subscriber) markDead() {
	s.mu.Lock()
	alreadyDead := s.state == stateDead
	s.state = stateDead
	s.mu.Unlock()

	if !alreadyDead {
		_ = s.conn.Close()
		close(s.dead)
	}
}

// Close tears down the subscriber from outside its send loop, e.g. during
// registry/server shutdown. Safe to call more than once.
func (s *Subscriber) Close() {
	s.markDead()
}
