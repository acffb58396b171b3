// Package worker bridges a synchronous, non-reentrant inference model to any
// number of concurrent callers. It is structured into small files by concern:
//
//   - model.go: Model, Loader and Predictor, the capabilities the bridge needs.
//   - config.go: Config, FailurePolicy, Dispatch and package defaults.
//   - worker.go: Spawn and the receive loop running on a locked OS thread.
//   - handle.go: Handle, the cloneable client side of one worker queue.
//   - reply.go: the single-use reply slot.
//   - lifecycle.go: Lifecycle, the join-able outcome of a worker.
//   - pool.go: Pool, N independent workers behind one dispatcher.
//   - errors.go: error types and helpers (IsLoadError, IsWorkerGone, ...).
//   - events.go, eventpub_memory.go: lifecycle events.
//   - metrics.go: Prometheus collectors.
//
// A worker owns exactly one model for its whole life. The model is loaded and
// invoked on the same goroutine, which holds runtime.LockOSThread until it
// exits, so native runtimes that are not thread-mobile stay on one thread and
// a multi-second inference never occupies a thread the Go scheduler needs.
//
// Requests are served one at a time in queue arrival order. The worker stops
// when every Handle referencing its queue has been closed and the queue is
// drained, or earlier when loading fails or, under FailFast, when an
// inference fails.
package worker
