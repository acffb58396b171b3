package manager

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"nlpd/internal/backend"
	"nlpd/internal/worker"
	"nlpd/pkg/types"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultWorkers       = 1
	defaultQueueCapacity = worker.DefaultQueueCapacity
)

// RequestLog persists a record of every call. *store.Store satisfies it.
type RequestLog interface {
	LogRequest(ctx context.Context, rec types.RequestRecord) (types.RequestRecord, error)
}

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	Loaders backend.Loaders
	// Backend name, reported by Status and ListModels.
	Backend string
	// Registry lists discovered model files; Assigned maps kinds to the
	// configured model references.
	Registry []types.Model
	Assigned map[string]string

	// Workers per model kind.
	Workers       int
	QueueCapacity int
	// MaxWait bounds how long a call waits for queue space before failing
	// as too busy. Zero waits for the caller's context.
	MaxWait       time.Duration
	FailurePolicy worker.FailurePolicy
	Dispatch      worker.Dispatch

	Logger    *zerolog.Logger
	Publisher worker.EventPublisher
	// Requests is optional.
	Requests RequestLog
}

func (c ManagerConfig) withDefaults() ManagerConfig {
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = defaultQueueCapacity
	}
	if c.Backend == "" {
		c.Backend = backend.Lexicon
	}
	if c.Logger == nil {
		l := zerolog.Nop()
		c.Logger = &l
	}
	return c
}

func (c ManagerConfig) workerConfig(log zerolog.Logger) worker.Config {
	return worker.Config{
		QueueCapacity: c.QueueCapacity,
		SubmitTimeout: c.MaxWait,
		FailurePolicy: c.FailurePolicy,
		Dispatch:      c.Dispatch,
		Logger:        &log,
		Publisher:     c.Publisher,
	}
}
