package worker

import (
	"context"
	"errors"
	"sync/atomic"
)

// Pool spreads requests over n independent workers of one kind. Each worker
// loads its own model and owns its own queue, so per-worker ordering and
// exclusivity still hold; the pool only raises throughput.
type Pool[In, Out any] struct {
	kind     string
	dispatch Dispatch
	handles  []*Handle[In, Out]
	next     atomic.Uint64
}

// SpawnPool starts n workers (at least one) sharing cfg.
func SpawnPool[In, Out any](kind string, n int, load Loader[In, Out], cfg Config) *Pool[In, Out] {
	if n < 1 {
		n = 1
	}
	cfg = cfg.withDefaults()
	p := &Pool[In, Out]{kind: kind, dispatch: cfg.Dispatch, handles: make([]*Handle[In, Out], 0, n)}
	for i := 0; i < n; i++ {
		_, h := Spawn(kind, load, cfg)
		p.handles = append(p.handles, h)
	}
	return p
}

// Clone returns a pool that shares the same workers through cloned handles.
// Closing the clone does not affect the original.
func (p *Pool[In, Out]) Clone() *Pool[In, Out] {
	c := &Pool[In, Out]{kind: p.kind, dispatch: p.dispatch, handles: make([]*Handle[In, Out], len(p.handles))}
	for i, h := range p.handles {
		c.handles[i] = h.Clone()
	}
	return c
}

// Kind returns the model kind served by the pool.
func (p *Pool[In, Out]) Kind() string { return p.kind }

// Size returns the number of workers, alive or not.
func (p *Pool[In, Out]) Size() int { return len(p.handles) }

// Lifecycles returns the lifecycle of every worker, in spawn order.
func (p *Pool[In, Out]) Lifecycles() []*Lifecycle {
	out := make([]*Lifecycle, len(p.handles))
	for i, h := range p.handles {
		out[i] = h.q.life
	}
	return out
}

// Stats returns one snapshot per worker, in spawn order.
func (p *Pool[In, Out]) Stats() []Stats {
	out := make([]Stats, len(p.handles))
	for i, h := range p.handles {
		out[i] = h.Stats()
	}
	return out
}

// Predict hands in to one live worker chosen by the dispatch strategy.
func (p *Pool[In, Out]) Predict(ctx context.Context, in In) (Out, error) {
	h := p.pick()
	if h == nil {
		var zero Out
		return zero, withCause(ErrWorkerGone, p.outcome())
	}
	return h.Predict(ctx, in)
}

func (p *Pool[In, Out]) pick() *Handle[In, Out] {
	n := uint64(len(p.handles))
	if p.dispatch == LeastLoaded {
		var best *Handle[In, Out]
		bestLoad := 0
		for _, h := range p.handles {
			if !h.q.life.alive() {
				continue
			}
			if l := h.load(); best == nil || l < bestLoad {
				best, bestLoad = h, l
			}
		}
		return best
	}
	start := p.next.Add(1) - 1
	for i := uint64(0); i < n; i++ {
		if h := p.handles[(start+i)%n]; h.q.life.alive() {
			return h
		}
	}
	return nil
}

// Close closes the pool's handle to every worker.
func (p *Pool[In, Out]) Close() error {
	for _, h := range p.handles {
		_ = h.Close()
	}
	return nil
}

// Wait blocks until every worker has exited or ctx ends, and joins their
// outcomes.
func (p *Pool[In, Out]) Wait(ctx context.Context) error {
	var errs []error
	for _, h := range p.handles {
		if err := h.q.life.Wait(ctx); err != nil {
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
		}
	}
	return errors.Join(errs...)
}

func (p *Pool[In, Out]) outcome() error {
	var errs []error
	for _, h := range p.handles {
		if err := h.q.life.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
