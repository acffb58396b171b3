// Package manager owns the model workers of the daemon and is the single
// entry point the HTTP, NATS and CLI surfaces use. It is structured into
// small files by concern:
//
//   - manager.go: Manager type, construction, lifecycle (Ready, WaitReady, Close).
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies them.
//   - infer.go: the four typed calls with request logging.
//   - errors.go: error classes and helpers (IsTooBusy, IsWorkerGone, ...).
//   - status_report.go: Status and ListModels reporting.
//
// Every model kind is served by a worker.Pool; each worker loads its own
// model on a dedicated OS thread.
package manager
