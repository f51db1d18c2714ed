package store

import (
	"sync"
	"sync/atomic"
)

// ChangeKind classifies what happened to a task.
type ChangeKind string

const (
	ChangeCreated   ChangeKind = "created"
	ChangeUpdated   ChangeKind = "updated"
	ChangeCompleted ChangeKind = "completed"
	ChangeDeleted   ChangeKind = "deleted"
)

// Change is a single task mutation, published after the write committed.
// Deleted changes carry only the id; the row may already be gone from
// default queries by the time a consumer sees the event.
type Change struct {
	TaskID uint
	Kind   ChangeKind
}

// DefaultStreamBuffer is the per-subscriber channel capacity.
const DefaultStreamBuffer = 64

// stream fans task changes out to subscribers. Slow subscribers lose
// events rather than block writers; consumers that care run a periodic
// full resync to repair anything dropped here.
type stream struct {
	buffer int

	mu     sync.RWMutex
	subs   []*Subscription
	closed atomic.Bool
}

// Subscription is one subscriber's view of the change stream.
type Subscription struct {
	ch     chan Change
	closed atomic.Bool
	s      *stream
}

func newStream(buffer int) *stream {
	if buffer <= 0 {
		buffer = DefaultStreamBuffer
	}
	return &stream{buffer: buffer}
}

// publish delivers a change to every live subscriber without blocking.
func (s *stream) publish(c Change) {
	if s.closed.Load() {
		return
	}

	s.mu.RLock()
	subs := s.subs
	s.mu.RUnlock()

	for _, sub := range subs {
		if !sub.closed.Load() {
			select {
			case sub.ch <- c:
			default:
				// Buffer full, drop change
			}
		}
	}
}

func (s *stream) subscribe() *Subscription {
	sub := &Subscription{
		ch: make(chan Change, s.buffer),
		s:  s,
	}

	if s.closed.Load() {
		sub.closed.Store(true)
		close(sub.ch)
		return sub
	}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	return sub
}

func (s *stream) close() {
	if s.closed.Swap(true) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subs {
		if !sub.closed.Swap(true) {
			close(sub.ch)
		}
	}
	s.subs = nil
}

// Changes returns the subscriber's channel. It is closed when the
// subscription is cancelled or the store shuts down.
func (sub *Subscription) Changes() <-chan Change {
	return sub.ch
}

// Unsubscribe cancels the subscription and closes its channel.
func (sub *Subscription) Unsubscribe() {
	if sub.closed.Swap(true) {
		return
	}

	sub.s.mu.Lock()
	defer sub.s.mu.Unlock()

	for i, other := range sub.s.subs {
		if other == sub {
			sub.s.subs = append(sub.s.subs[:i], sub.s.subs[i+1:]...)
			break
		}
	}

	close(sub.ch)
}
