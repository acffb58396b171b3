package classifier

import (
	"context"
	"fmt"
	"sort"

	"nlpd/internal/worker"
)

// KeywordExtractionClassifier ranks key phrases of texts.
type KeywordExtractionClassifier struct {
	p worker.Predictor[[]string, [][]Keyword]
}

// SpawnKeywordExtraction starts a dedicated keyword extraction worker.
func SpawnKeywordExtraction(load KeywordLoader, cfg worker.Config) (*worker.Lifecycle, *KeywordExtractionClassifier) {
	life, h := worker.Spawn(KindKeywords, load, cfg)
	return life, &KeywordExtractionClassifier{p: h}
}

// NewKeywordExtraction wraps an existing predictor.
func NewKeywordExtraction(p worker.Predictor[[]string, [][]Keyword]) *KeywordExtractionClassifier {
	return &KeywordExtractionClassifier{p: p}
}

// Predict returns, per text, its keywords ranked by descending relevance.
func (c *KeywordExtractionClassifier) Predict(ctx context.Context, texts []string) ([][]Keyword, error) {
	if len(texts) == 0 {
		return [][]Keyword{}, nil
	}
	out, err := c.p.Predict(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(out) != len(texts) {
		return nil, fmt.Errorf("%s: %w: got %d, want %d", KindKeywords, ErrOutputMismatch, len(out), len(texts))
	}
	for _, kws := range out {
		sort.SliceStable(kws, func(i, j int) bool { return kws[i].Score > kws[j].Score })
	}
	return out, nil
}

func (c *KeywordExtractionClassifier) Clone() *KeywordExtractionClassifier {
	return &KeywordExtractionClassifier{p: clonePredictor(c.p)}
}

func (c *KeywordExtractionClassifier) Close() error { return c.p.Close() }
