package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

// queue is the send side shared by every clone of a Handle. The data channel
// is never closed; quit is closed when the last open handle is closed, and
// the worker drains whatever is still buffered before exiting.
type queue[In, Out any] struct {
	kind          string
	ch            chan request[In, Out]
	quit          chan struct{}
	life          *Lifecycle
	stats         *counters
	submitTimeout time.Duration

	refs atomic.Int64
}

// acquire adds a reference unless the count already dropped to zero.
func (q *queue[In, Out]) acquire() bool {
	for {
		n := q.refs.Load()
		if n <= 0 {
			return false
		}
		if q.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (q *queue[In, Out]) release() {
	if q.refs.Add(-1) == 0 {
		close(q.quit)
	}
}

func (q *queue[In, Out]) stopped() bool {
	select {
	case <-q.quit:
		return true
	default:
		return false
	}
}

// submit enqueues req, blocking for backpressure until there is room, the
// worker exits, ctx ends or the submit timeout elapses.
func (q *queue[In, Out]) submit(ctx context.Context, req request[In, Out]) error {
	if q.stopped() {
		return ErrHandleClosed
	}
	if !q.life.alive() {
		return withCause(ErrWorkerGone, q.life.Err())
	}

	depth := queueDepth.WithLabelValues(q.kind)
	req.reply.queued.Store(true)
	depth.Inc()
	select {
	case q.ch <- req:
		return nil
	default:
	}

	unqueue := func() {
		if req.reply.dequeue() {
			depth.Dec()
		}
	}
	var expired <-chan time.Time
	if q.submitTimeout > 0 {
		timer := time.NewTimer(q.submitTimeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case q.ch <- req:
		return nil
	case <-q.quit:
		unqueue()
		return ErrHandleClosed
	case <-q.life.Done():
		unqueue()
		return withCause(ErrWorkerGone, q.life.Err())
	case <-ctx.Done():
		unqueue()
		return ctx.Err()
	case <-expired:
		unqueue()
		return ErrQueueFull
	}
}

// Handle submits requests to one worker. Handles are cheap; Clone one per
// owner and Close it when done. The worker stops once every clone is closed.
type Handle[In, Out any] struct {
	q      *queue[In, Out]
	closed atomic.Bool
}

// Kind returns the model kind served by the worker.
func (h *Handle[In, Out]) Kind() string { return h.q.kind }

// Lifecycle returns the lifecycle of the worker behind h.
func (h *Handle[In, Out]) Lifecycle() *Lifecycle { return h.q.life }

// Clone returns a new handle to the same worker. Cloning a closed handle
// yields a closed handle.
func (h *Handle[In, Out]) Clone() *Handle[In, Out] {
	c := &Handle[In, Out]{q: h.q}
	if h.closed.Load() || !h.q.acquire() {
		c.closed.Store(true)
	}
	return c
}

// Close releases this handle's reference to the worker queue. It is
// idempotent and always returns nil.
func (h *Handle[In, Out]) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}
	h.q.release()
	return nil
}

// QueueLen returns the number of requests waiting to be dequeued.
func (h *Handle[In, Out]) QueueLen() int { return len(h.q.ch) }

// QueueCap returns the queue capacity.
func (h *Handle[In, Out]) QueueCap() int { return cap(h.q.ch) }

// Stats returns a snapshot of the worker counters.
func (h *Handle[In, Out]) Stats() Stats {
	s := Stats{
		Kind:      h.q.kind,
		State:     h.q.life.State(),
		QueueLen:  len(h.q.ch),
		QueueCap:  cap(h.q.ch),
		Inflight:  int(h.q.stats.inflight.Load()),
		Served:    h.q.stats.served.Load(),
		Failed:    h.q.stats.failed.Load(),
		Abandoned: h.q.stats.abandoned.Load(),
	}
	if err := h.q.life.Err(); err != nil {
		s.LastError = err.Error()
	}
	return s
}

func (h *Handle[In, Out]) load() int {
	return len(h.q.ch) + int(h.q.stats.inflight.Load())
}

// Predict submits in to the worker and waits for its single reply. Waiting
// parks the calling goroutine only. If ctx ends first the reply is abandoned:
// the worker still finishes the inference and discards the result.
func (h *Handle[In, Out]) Predict(ctx context.Context, in In) (Out, error) {
	var zero Out
	if h.closed.Load() {
		return zero, ErrHandleClosed
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	slot := newReplySlot[Out]()
	req := request[In, Out]{
		id:       ulid.Make().String(),
		input:    in,
		reply:    slot,
		enqueued: time.Now(),
	}
	if err := h.q.submit(ctx, req); err != nil {
		return zero, err
	}
	select {
	case r := <-slot.ch:
		return r.out, r.err
	case <-ctx.Done():
		slot.abandon()
		return zero, ctx.Err()
	case <-h.q.life.Done():
		// A reply sent just before the worker exited is still buffered.
		select {
		case r := <-slot.ch:
			return r.out, r.err
		default:
		}
		slot.abandon()
		// Enqueued after the worker's final drain: never dequeued.
		if slot.dequeue() {
			queueDepth.WithLabelValues(h.q.kind).Dec()
		}
		return zero, withCause(ErrReplyAbandoned, h.q.life.Err())
	}
}
