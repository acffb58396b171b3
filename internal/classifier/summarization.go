package classifier

import (
	"context"
	"fmt"

	"nlpd/internal/worker"
)

// SummarizationClassifier condenses texts.
type SummarizationClassifier struct {
	p worker.Predictor[[]string, []string]
}

// SpawnSummarization starts a dedicated summarization worker.
func SpawnSummarization(load SummarizationLoader, cfg worker.Config) (*worker.Lifecycle, *SummarizationClassifier) {
	life, h := worker.Spawn(KindSummarization, load, cfg)
	return life, &SummarizationClassifier{p: h}
}

// NewSummarization wraps an existing predictor.
func NewSummarization(p worker.Predictor[[]string, []string]) *SummarizationClassifier {
	return &SummarizationClassifier{p: p}
}

// Summarize returns one summary per text, in input order.
func (c *SummarizationClassifier) Summarize(ctx context.Context, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return []string{}, nil
	}
	out, err := c.p.Predict(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(out) != len(texts) {
		return nil, fmt.Errorf("%s: %w: got %d, want %d", KindSummarization, ErrOutputMismatch, len(out), len(texts))
	}
	return out, nil
}

func (c *SummarizationClassifier) Clone() *SummarizationClassifier {
	return &SummarizationClassifier{p: clonePredictor(c.p)}
}

func (c *SummarizationClassifier) Close() error { return c.p.Close() }
