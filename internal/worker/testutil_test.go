package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// recorder is a stub model that records inputs in service order and tracks
// how many Infer calls overlap.
type recorder struct {
	delay  time.Duration
	gate   chan struct{} // when non-nil, inputs equal to "gate" block on it
	failOn string
	panics string

	mu        sync.Mutex
	seen      []string
	active    atomic.Int32
	maxActive atomic.Int32
	closed    atomic.Bool
}

func (r *recorder) Infer(in string) (string, error) {
	n := r.active.Add(1)
	defer r.active.Add(-1)
	for {
		m := r.maxActive.Load()
		if n <= m || r.maxActive.CompareAndSwap(m, n) {
			break
		}
	}
	r.mu.Lock()
	r.seen = append(r.seen, in)
	r.mu.Unlock()
	if in == "gate" && r.gate != nil {
		<-r.gate
	}
	if r.delay > 0 {
		time.Sleep(r.delay)
	}
	if r.panics != "" && in == r.panics {
		panic("model exploded")
	}
	if r.failOn != "" && in == r.failOn {
		return "", errors.New("malformed input")
	}
	return "out:" + in, nil
}

func (r *recorder) Close() error {
	r.closed.Store(true)
	return nil
}

func (r *recorder) order() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.seen...)
}

func loaderFor(r *recorder) Loader[string, string] {
	return func() (Model[string, string], error) { return r, nil }
}

func failingLoader(err error) Loader[string, string] {
	return func() (Model[string, string], error) { return nil, err }
}

// waitFor polls cond until it holds or two seconds elapse.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

// testCtx returns a context with a short timeout, canceled on test cleanup.
func testCtx(t *testing.T) context.Context {
	t.Helper()
	c, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return c
}

// shutdown closes h and waits for the worker to exit.
func shutdown(t *testing.T, life *Lifecycle, h interface{ Close() error }) {
	t.Helper()
	_ = h.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	select {
	case <-life.Done():
	case <-ctx.Done():
		t.Fatalf("worker did not exit")
	}
}
