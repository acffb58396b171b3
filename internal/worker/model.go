package worker

import "context"

// Model is a synchronous inference capability. Infer may take seconds and is
// never invoked concurrently: the owning worker serializes all calls.
type Model[In, Out any] interface {
	Infer(in In) (Out, error)
}

// Loader constructs a Model. It is called on the worker's locked OS thread,
// before the worker accepts any request. If the returned model also
// implements io.Closer it is closed when the worker exits.
type Loader[In, Out any] func() (Model[In, Out], error)

// ModelFunc adapts a plain function to the Model interface.
type ModelFunc[In, Out any] func(in In) (Out, error)

// Infer calls f(in).
func (f ModelFunc[In, Out]) Infer(in In) (Out, error) { return f(in) }

// Predictor is the caller-facing side of the bridge. Both *Handle and *Pool
// satisfy it.
type Predictor[In, Out any] interface {
	Predict(ctx context.Context, in In) (Out, error)
	Close() error
}
