package worker

import "sync/atomic"

type result[Out any] struct {
	out Out
	err error
}

// replySlot is a single-producer, single-consumer handoff signalled at most
// once. The caller marks it abandoned when it stops waiting.
type replySlot[Out any] struct {
	ch        chan result[Out]
	delivered atomic.Bool
	abandoned atomic.Bool
	// queued is set while the request counts toward the queue depth gauge.
	queued atomic.Bool
}

func newReplySlot[Out any]() *replySlot[Out] {
	return &replySlot[Out]{ch: make(chan result[Out], 1)}
}

// deliver hands r to the caller. It reports false when the slot was already
// signalled or the caller no longer waits; it never blocks.
func (s *replySlot[Out]) deliver(r result[Out]) bool {
	if !s.delivered.CompareAndSwap(false, true) {
		return false
	}
	if s.abandoned.Load() {
		return false
	}
	s.ch <- r
	return true
}

func (s *replySlot[Out]) abandon() { s.abandoned.Store(true) }

// dequeue reports whether the caller is the first to take the request out of
// the queue depth count.
func (s *replySlot[Out]) dequeue() bool { return s.queued.CompareAndSwap(true, false) }
