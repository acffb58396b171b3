package manager

import (
	"context"
	"errors"

	"nlpd/internal/classifier"
	"nlpd/internal/worker"
)

// ErrClosed is returned for calls made after Close.
var ErrClosed = errors.New("manager closed")

// invalidInputError signals a request the models cannot process (400).
type invalidInputError struct{ msg string }

func (e invalidInputError) Error() string { return "invalid input: " + e.msg }

// ErrInvalidInput constructs an invalidInputError.
func ErrInvalidInput(msg string) error { return invalidInputError{msg: msg} }

// IsInvalidInput reports whether err rejects the request itself.
func IsInvalidInput(err error) bool {
	var e invalidInputError
	return errors.As(err, &e) || errors.Is(err, classifier.ErrEmptyInput)
}

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool {
	return errors.Is(err, worker.ErrQueueFull)
}

// IsWorkerGone reports whether no worker can serve the call (return 503):
// the model failed to load, a worker stopped, or the manager is closing.
func IsWorkerGone(err error) bool {
	return worker.IsWorkerGone(err) || errors.Is(err, worker.ErrHandleClosed) || errors.Is(err, ErrClosed)
}

// IsInferenceFailure reports whether the model rejected this request
// (return 422). Check IsWorkerGone first: a worker that died of an
// inference failure wraps it in its later submission errors.
func IsInferenceFailure(err error) bool {
	return worker.IsInferenceError(err) || errors.Is(err, classifier.ErrOutputMismatch)
}

// IsDeadline reports whether the caller's deadline expired.
func IsDeadline(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// outcome names the error class for logs, metrics and the request log.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsInvalidInput(err):
		return "invalid"
	case IsTooBusy(err):
		return "too_busy"
	case IsWorkerGone(err):
		return "worker_gone"
	case IsInferenceFailure(err):
		return "inference_error"
	case IsDeadline(err):
		return "deadline"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}
