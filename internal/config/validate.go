package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"nlpd/internal/worker"
)

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Backend) {
	case "lexicon", "llama":
	default:
		errs = append(errs, fmt.Errorf("backend: unknown %q", c.Backend))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers: must be >= 1, got %d", c.Workers))
	}
	if c.QueueCapacity < 1 {
		errs = append(errs, fmt.Errorf("queue_capacity: must be >= 1, got %d", c.QueueCapacity))
	}
	if c.MaxWaitMS < 0 {
		errs = append(errs, fmt.Errorf("max_wait_ms: must be >= 0"))
	}
	if c.RequestTimeoutMS < 0 {
		errs = append(errs, fmt.Errorf("request_timeout_ms: must be >= 0"))
	}
	if c.MaxBodyBytes < 0 {
		errs = append(errs, fmt.Errorf("max_body_bytes: must be >= 0"))
	}
	if _, err := worker.ParseFailurePolicy(c.FailurePolicy); err != nil {
		errs = append(errs, fmt.Errorf("failure_policy: %w", err))
	}
	if _, err := worker.ParseDispatch(c.Dispatch); err != nil {
		errs = append(errs, fmt.Errorf("dispatch: %w", err))
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log_format: unknown %q", c.LogFormat))
	}
	if c.MaxVideos < 1 || c.MaxComments < 0 {
		errs = append(errs, fmt.Errorf("max_videos must be >= 1 and max_comments >= 0"))
	}
	if strings.EqualFold(c.Backend, "llama") {
		for name, v := range map[string]string{
			"sentiment_model":     c.SentimentModel,
			"summarization_model": c.SummarizationModel,
			"qa_model":            c.QAModel,
			"keyword_model":       c.KeywordModel,
		} {
			if strings.TrimSpace(v) == "" {
				errs = append(errs, fmt.Errorf("%s: required for the llama backend", name))
			}
		}
	}
	return errors.Join(errs...)
}
