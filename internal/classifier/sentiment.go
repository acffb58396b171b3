package classifier

import (
	"context"
	"fmt"

	"nlpd/internal/worker"
)

// SentimentClassifier scores the polarity of texts.
type SentimentClassifier struct {
	p worker.Predictor[[]string, []Sentiment]
}

// SpawnSentiment starts a dedicated sentiment worker.
func SpawnSentiment(load SentimentLoader, cfg worker.Config) (*worker.Lifecycle, *SentimentClassifier) {
	life, h := worker.Spawn(KindSentiment, load, cfg)
	return life, &SentimentClassifier{p: h}
}

// NewSentiment wraps an existing predictor, typically a worker.Pool.
func NewSentiment(p worker.Predictor[[]string, []Sentiment]) *SentimentClassifier {
	return &SentimentClassifier{p: p}
}

// Predict returns one Sentiment per text, in input order.
func (c *SentimentClassifier) Predict(ctx context.Context, texts []string) ([]Sentiment, error) {
	if len(texts) == 0 {
		return []Sentiment{}, nil
	}
	out, err := c.p.Predict(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(out) != len(texts) {
		return nil, fmt.Errorf("%s: %w: got %d, want %d", KindSentiment, ErrOutputMismatch, len(out), len(texts))
	}
	return out, nil
}

func (c *SentimentClassifier) Clone() *SentimentClassifier {
	return &SentimentClassifier{p: clonePredictor(c.p)}
}

func (c *SentimentClassifier) Close() error { return c.p.Close() }
