// Package types holds the JSON payloads shared by the HTTP and NATS
// surfaces, the store and the CLI.
package types

import "time"

// Model represents a GGUF model file discovered in the models directory.
type Model struct {
	// Stable identifier for the model (file name).
	// example: sst2.Q8_0.gguf
	ID string `json:"id" example:"sst2.Q8_0.gguf"`
	// Human-friendly name (file name without extension).
	// example: sst2.Q8_0
	Name string `json:"name" example:"sst2.Q8_0"`
	// Absolute path to the model file on disk.
	// example: /home/user/models/sst2.Q8_0.gguf
	Path string `json:"path" example:"/home/user/models/sst2.Q8_0.gguf"`
	// Quantization level or variant string.
	// example: Q8_0
	Quant string `json:"quant" example:"Q8_0"`
}

// ModelsResponse is returned by GET /models.
type ModelsResponse struct {
	// Active backend.
	// example: lexicon
	Backend string `json:"backend" example:"lexicon"`
	// Model kind to configured model reference.
	Assigned map[string]string `json:"assigned,omitempty"`
	// GGUF files found in the models directory.
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// WorkerStatus summarizes one worker for /status.
type WorkerStatus struct {
	// Model kind served by the worker.
	// example: sentiment
	Kind string `json:"kind" example:"sentiment"`
	// Lifecycle state: loading, ready, error or stopped.
	// example: ready
	State string `json:"state" example:"ready"`
	// Requests waiting in the queue.
	// example: 0
	QueueLen int `json:"queue_len" example:"0"`
	// Queue capacity.
	// example: 100
	QueueCap int `json:"queue_cap" example:"100"`
	// Requests currently being inferred (0 or 1).
	// example: 1
	Inflight int `json:"inflight" example:"1"`
	// Requests answered successfully.
	Served uint64 `json:"served"`
	// Requests answered with an error.
	Failed uint64 `json:"failed"`
	// Replies dropped because the caller had gone.
	Abandoned uint64 `json:"abandoned"`
	// Failure that stopped the worker, if any.
	LastError string `json:"last_error,omitempty"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Overall state: loading, ready, degraded or stopped.
	// example: ready
	State string `json:"state" example:"ready"`
	// Active backend.
	// example: lexicon
	Backend string `json:"backend" example:"lexicon"`
	// One entry per worker, grouped by kind.
	Workers []WorkerStatus `json:"workers"`
	// Most recent worker failure.
	LastError string `json:"last_error,omitempty"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// RequestRecord is one entry of the request log.
type RequestRecord struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Inputs     int       `json:"inputs"`
	DurationMS int64     `json:"duration_ms"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// RequestsResponse is returned by GET /v1/requests.
type RequestsResponse struct {
	Requests []RequestRecord `json:"requests"`
}
