package classifier

import (
	"context"
	"sort"
	"strings"

	"nlpd/internal/worker"
)

// QuestionAnsweringClassifier extracts answer spans from a context.
type QuestionAnsweringClassifier struct {
	p worker.Predictor[QAInput, []Answer]
}

// SpawnQuestionAnswering starts a dedicated question answering worker.
func SpawnQuestionAnswering(load QuestionAnsweringLoader, cfg worker.Config) (*worker.Lifecycle, *QuestionAnsweringClassifier) {
	life, h := worker.Spawn(KindQuestionAnswering, load, cfg)
	return life, &QuestionAnsweringClassifier{p: h}
}

// NewQuestionAnswering wraps an existing predictor.
func NewQuestionAnswering(p worker.Predictor[QAInput, []Answer]) *QuestionAnsweringClassifier {
	return &QuestionAnsweringClassifier{p: p}
}

// Predict returns the best answer to question found in context.
func (c *QuestionAnsweringClassifier) Predict(ctx context.Context, question, context string) ([]Answer, error) {
	return c.PredictTopK(ctx, QAInput{Question: question, Context: context, TopK: 1})
}

// PredictTopK returns up to in.TopK answers, best first.
func (c *QuestionAnsweringClassifier) PredictTopK(ctx context.Context, in QAInput) ([]Answer, error) {
	if strings.TrimSpace(in.Question) == "" || strings.TrimSpace(in.Context) == "" {
		return nil, ErrEmptyInput
	}
	if in.TopK < 1 {
		in.TopK = 1
	}
	out, err := c.p.Predict(ctx, in)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > in.TopK {
		out = out[:in.TopK]
	}
	return out, nil
}

func (c *QuestionAnsweringClassifier) Clone() *QuestionAnsweringClassifier {
	return &QuestionAnsweringClassifier{p: clonePredictor(c.p)}
}

func (c *QuestionAnsweringClassifier) Close() error { return c.p.Close() }
