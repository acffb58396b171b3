package worker

import "context"

// State is the coarse lifecycle state of a worker.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
	StateStopped State = "stopped"
)

// Lifecycle is the join-able outcome of one worker. Err is nil while the
// worker runs and after a clean shutdown; it carries a *LoadError or an
// *InferenceError when the worker died.
type Lifecycle struct {
	kind  string
	ready chan struct{}
	done  chan struct{}
	err   error // written once, before done is closed
}

func newLifecycle(kind string) *Lifecycle {
	return &Lifecycle{kind: kind, ready: make(chan struct{}), done: make(chan struct{})}
}

// Kind returns the model kind served by the worker.
func (l *Lifecycle) Kind() string { return l.kind }

// Ready is closed once the model has loaded successfully.
func (l *Lifecycle) Ready() <-chan struct{} { return l.ready }

// Done is closed when the worker goroutine has exited.
func (l *Lifecycle) Done() <-chan struct{} { return l.done }

// Err returns the termination outcome, or nil while the worker still runs.
func (l *Lifecycle) Err() error {
	select {
	case <-l.done:
		return l.err
	default:
		return nil
	}
}

// Wait blocks until the worker exits or ctx ends.
func (l *Lifecycle) Wait(ctx context.Context) error {
	select {
	case <-l.done:
		return l.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State derives the current lifecycle state.
func (l *Lifecycle) State() State {
	select {
	case <-l.done:
		if l.err != nil {
			return StateError
		}
		return StateStopped
	default:
	}
	select {
	case <-l.ready:
		return StateReady
	default:
		return StateLoading
	}
}

func (l *Lifecycle) alive() bool {
	select {
	case <-l.done:
		return false
	default:
		return true
	}
}

func (l *Lifecycle) finish(err error) {
	l.err = err
	close(l.done)
}
