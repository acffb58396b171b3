package worker

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Defaults applied when corresponding Config fields are unset.
const (
	DefaultQueueCapacity = 100
)

// FailurePolicy decides what a failed inference does to its worker.
type FailurePolicy string

const (
	// FailFast stops the worker on the first inference failure. The failing
	// caller receives the error and the lifecycle outcome carries it.
	FailFast FailurePolicy = "fail_fast"
	// Isolate reports the failure to the failing caller only and keeps
	// serving subsequent requests.
	Isolate FailurePolicy = "isolate"
)

// ParseFailurePolicy maps a configuration string to a FailurePolicy.
// The empty string selects FailFast.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail_fast", "fail-fast", "failfast":
		return FailFast, nil
	case "isolate":
		return Isolate, nil
	default:
		return "", fmt.Errorf("unknown failure policy %q", s)
	}
}

// Dispatch selects the worker a Pool hands a request to.
type Dispatch string

const (
	RoundRobin  Dispatch = "round_robin"
	LeastLoaded Dispatch = "least_loaded"
)

// ParseDispatch maps a configuration string to a Dispatch strategy.
// The empty string selects RoundRobin.
func ParseDispatch(s string) (Dispatch, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "round_robin", "round-robin", "rr":
		return RoundRobin, nil
	case "least_loaded", "least-loaded":
		return LeastLoaded, nil
	default:
		return "", fmt.Errorf("unknown dispatch strategy %q", s)
	}
}

// Config encapsulates the tunables of a worker (or of every worker in a pool).
type Config struct {
	// QueueCapacity bounds the number of requests waiting for the worker.
	QueueCapacity int
	// SubmitTimeout bounds how long Predict waits for queue space before
	// failing with ErrQueueFull. Zero waits until the caller's context ends.
	SubmitTimeout time.Duration
	FailurePolicy FailurePolicy
	// Dispatch is only consulted by Pool.
	Dispatch  Dispatch
	Logger    *zerolog.Logger
	Publisher EventPublisher
}

func (c Config) withDefaults() Config {
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = DefaultQueueCapacity
	}
	if c.SubmitTimeout < 0 {
		c.SubmitTimeout = 0
	}
	if c.FailurePolicy == "" {
		c.FailurePolicy = FailFast
	}
	if c.Dispatch == "" {
		c.Dispatch = RoundRobin
	}
	if c.Logger == nil {
		l := zerolog.Nop()
		c.Logger = &l
	}
	if c.Publisher == nil {
		c.Publisher = noopPublisher{}
	}
	return c
}
