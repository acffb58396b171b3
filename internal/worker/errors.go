package worker

import (
	"errors"
	"fmt"
)

var (
	// ErrWorkerGone is returned when a request cannot be submitted because the
	// worker has already exited.
	ErrWorkerGone = errors.New("worker gone")
	// ErrReplyAbandoned is returned when the worker exited after the request
	// was queued but before it was answered.
	ErrReplyAbandoned = errors.New("reply abandoned")
	// ErrQueueFull signals backpressure: the queue stayed full for the whole
	// SubmitTimeout.
	ErrQueueFull = errors.New("queue full")
	// ErrHandleClosed is returned by Predict on a handle that was closed.
	ErrHandleClosed = errors.New("handle closed")
)

// LoadError reports that the model of a worker could not be loaded. The
// worker never serves a request after a LoadError.
type LoadError struct {
	Kind string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s model: %v", e.Kind, e.Err) }

func (e *LoadError) Unwrap() error { return e.Err }

// InferenceError reports that the model failed to process one request.
type InferenceError struct {
	Kind string
	Err  error
}

func (e *InferenceError) Error() string { return fmt.Sprintf("%s inference: %v", e.Kind, e.Err) }

func (e *InferenceError) Unwrap() error { return e.Err }

// IsLoadError reports whether err carries a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// IsInferenceError reports whether err carries an InferenceError.
func IsInferenceError(err error) bool {
	var ie *InferenceError
	return errors.As(err, &ie)
}

// IsWorkerGone reports whether err means the worker can no longer answer,
// either at submission or while the caller was waiting.
func IsWorkerGone(err error) bool {
	return errors.Is(err, ErrWorkerGone) || errors.Is(err, ErrReplyAbandoned)
}

// IsQueueFull reports whether err indicates backpressure.
func IsQueueFull(err error) bool { return errors.Is(err, ErrQueueFull) }

// withCause wraps base with the lifecycle outcome of the worker, if any.
func withCause(base, cause error) error {
	if cause == nil {
		return base
	}
	return fmt.Errorf("%w: %w", base, cause)
}
