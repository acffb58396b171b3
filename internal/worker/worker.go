package worker

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

type request[In, Out any] struct {
	id       string
	input    In
	reply    *replySlot[Out]
	enqueued time.Time
}

type counters struct {
	inflight  atomic.Int32
	served    atomic.Uint64
	failed    atomic.Uint64
	abandoned atomic.Uint64
}

// Stats is a point-in-time view of one worker.
type Stats struct {
	Kind      string
	State     State
	QueueLen  int
	QueueCap  int
	Inflight  int
	Served    uint64
	Failed    uint64
	Abandoned uint64
	LastError string
}

type worker[In, Out any] struct {
	kind   string
	policy FailurePolicy
	log    zerolog.Logger
	pub    EventPublisher
	load   Loader[In, Out]
	ch     <-chan request[In, Out]
	quit   <-chan struct{}
	life   *Lifecycle
	stats  *counters
}

// Spawn starts a worker for kind and returns immediately. The handle is
// usable right away: requests issued before the model finishes loading wait
// in the queue. The lifecycle reports load and runtime failures.
func Spawn[In, Out any](kind string, load Loader[In, Out], cfg Config) (*Lifecycle, *Handle[In, Out]) {
	cfg = cfg.withDefaults()
	life := newLifecycle(kind)
	stats := &counters{}
	ch := make(chan request[In, Out], cfg.QueueCapacity)
	quit := make(chan struct{})
	q := &queue[In, Out]{
		kind:          kind,
		ch:            ch,
		quit:          quit,
		life:          life,
		stats:         stats,
		submitTimeout: cfg.SubmitTimeout,
	}
	q.refs.Store(1)
	w := &worker[In, Out]{
		kind:   kind,
		policy: cfg.FailurePolicy,
		log:    cfg.Logger.With().Str("component", "worker").Str("kind", kind).Logger(),
		pub:    cfg.Publisher,
		load:   load,
		ch:     ch,
		quit:   quit,
		life:   life,
		stats:  stats,
	}
	go w.run()
	return life, &Handle[In, Out]{q: q}
}

func (w *worker[In, Out]) run() {
	// Never unlocked: the thread is torn down together with this goroutine.
	runtime.LockOSThread()

	var exitErr error
	defer func() {
		w.discardQueued()
		w.pub.Publish(Event{Name: "worker_exit", Kind: w.kind, Fields: map[string]any{"error": errString(exitErr)}})
		w.life.finish(exitErr)
	}()

	w.pub.Publish(Event{Name: "load_start", Kind: w.kind})
	start := time.Now()
	model, err := w.loadModel()
	if err != nil {
		exitErr = &LoadError{Kind: w.kind, Err: err}
		loadFailuresTotal.WithLabelValues(w.kind).Inc()
		w.log.Error().Err(err).Msg("model load failed")
		w.pub.Publish(Event{Name: "load_failed", Kind: w.kind, Fields: map[string]any{"error": err.Error()}})
		return
	}
	if c, ok := model.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				w.log.Warn().Err(err).Msg("model close failed")
			}
		}()
	}
	workersAlive.WithLabelValues(w.kind).Inc()
	defer workersAlive.WithLabelValues(w.kind).Dec()

	close(w.life.ready)
	w.log.Info().Dur("load", time.Since(start)).Msg("model loaded")
	w.pub.Publish(Event{Name: "load_ready", Kind: w.kind, Fields: map[string]any{"load_ms": time.Since(start).Milliseconds()}})

	exitErr = w.serve(model)
	if exitErr == nil {
		w.log.Debug().Msg("last handle closed, worker stopping")
	}
}

// serve handles requests until the last handle is closed. Requests still
// buffered at that point are served before returning.
func (w *worker[In, Out]) serve(model Model[In, Out]) error {
	for {
		select {
		case req := <-w.ch:
			if err := w.handle(model, req); err != nil {
				return err
			}
		case <-w.quit:
			for {
				select {
				case req := <-w.ch:
					if err := w.handle(model, req); err != nil {
						return err
					}
				default:
					return nil
				}
			}
		}
	}
}

// handle serves one request. It returns an error only when the failure
// policy stops the worker.
func (w *worker[In, Out]) handle(model Model[In, Out], req request[In, Out]) error {
	if req.reply.dequeue() {
		queueDepth.WithLabelValues(w.kind).Dec()
	}
	out, err := w.infer(model, req)
	if err != nil {
		ierr := &InferenceError{Kind: w.kind, Err: err}
		w.stats.failed.Add(1)
		w.reply(req, result[Out]{err: ierr}, "inference_error")
		w.pub.Publish(Event{Name: "infer_failed", Kind: w.kind, Fields: map[string]any{"request_id": req.id, "error": err.Error()}})
		if w.policy == FailFast {
			w.log.Error().Err(err).Str("request_id", req.id).Msg("inference failed, worker stopping")
			return ierr
		}
		w.log.Warn().Err(err).Str("request_id", req.id).Msg("inference failed")
		return nil
	}
	w.stats.served.Add(1)
	w.reply(req, result[Out]{out: out}, "ok")
	return nil
}

// discardQueued empties the queue on exit. The callers of discarded requests
// see the lifecycle end and report ErrReplyAbandoned.
func (w *worker[In, Out]) discardQueued() {
	for {
		select {
		case req := <-w.ch:
			if req.reply.dequeue() {
				queueDepth.WithLabelValues(w.kind).Dec()
			}
		default:
			return
		}
	}
}

func (w *worker[In, Out]) infer(model Model[In, Out], req request[In, Out]) (out Out, err error) {
	w.stats.inflight.Store(1)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			var zero Out
			out, err = zero, fmt.Errorf("panic: %v", r)
		}
		w.stats.inflight.Store(0)
		inferenceDuration.WithLabelValues(w.kind).Observe(time.Since(start).Seconds())
		w.log.Debug().
			Str("request_id", req.id).
			Dur("queued", start.Sub(req.enqueued)).
			Dur("infer", time.Since(start)).
			Msg("request served")
	}()
	return model.Infer(req.input)
}

// reply delivers r. A caller that stopped waiting is not an error for the
// worker; it is counted and logged.
func (w *worker[In, Out]) reply(req request[In, Out], r result[Out], outcome string) {
	if !req.reply.deliver(r) {
		w.stats.abandoned.Add(1)
		requestsTotal.WithLabelValues(w.kind, "abandoned").Inc()
		w.log.Debug().Str("request_id", req.id).Msg("reply abandoned by caller")
		return
	}
	requestsTotal.WithLabelValues(w.kind, outcome).Inc()
}

func (w *worker[In, Out]) loadModel() (m Model[In, Out], err error) {
	defer func() {
		if r := recover(); r != nil {
			m, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	m, err = w.load()
	if err == nil && m == nil {
		err = errors.New("loader returned no model")
	}
	return m, err
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
