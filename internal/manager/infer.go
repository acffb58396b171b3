package manager

import (
	"context"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"nlpd/internal/classifier"
	"nlpd/internal/worker"
	"nlpd/pkg/types"
)

// Sentiment classifies each text.
func (m *Manager) Sentiment(ctx context.Context, texts []string) (types.SentimentResponse, error) {
	call := m.begin(classifier.KindSentiment, len(texts))
	if err := m.checkTexts(texts); err != nil {
		return types.SentimentResponse{}, call.end(ctx, err)
	}
	res, err := m.sentimentClf.Predict(ctx, texts)
	return types.SentimentResponse{ID: call.id, Results: res}, call.end(ctx, err)
}

// Summarize condenses each text.
func (m *Manager) Summarize(ctx context.Context, texts []string) (types.SummarizeResponse, error) {
	call := m.begin(classifier.KindSummarization, len(texts))
	if err := m.checkTexts(texts); err != nil {
		return types.SummarizeResponse{}, call.end(ctx, err)
	}
	res, err := m.summarizationClf.Summarize(ctx, texts)
	return types.SummarizeResponse{ID: call.id, Summaries: res}, call.end(ctx, err)
}

// Answer extracts ranked answers to req.Question from req.Context.
func (m *Manager) Answer(ctx context.Context, req types.AnswerRequest) (types.AnswerResponse, error) {
	call := m.begin(classifier.KindQuestionAnswering, 1)
	if m.isClosed() {
		return types.AnswerResponse{}, call.end(ctx, ErrClosed)
	}
	if req.TopK < 0 {
		return types.AnswerResponse{}, call.end(ctx, ErrInvalidInput("top_k must not be negative"))
	}
	res, err := m.qaClf.PredictTopK(ctx, classifier.QAInput{Question: req.Question, Context: req.Context, TopK: req.TopK})
	return types.AnswerResponse{ID: call.id, Answers: res}, call.end(ctx, err)
}

// Keywords extracts ranked keywords from each text.
func (m *Manager) Keywords(ctx context.Context, texts []string) (types.KeywordsResponse, error) {
	call := m.begin(classifier.KindKeywords, len(texts))
	if err := m.checkTexts(texts); err != nil {
		return types.KeywordsResponse{}, call.end(ctx, err)
	}
	res, err := m.keywordsClf.Predict(ctx, texts)
	return types.KeywordsResponse{ID: call.id, Keywords: res}, call.end(ctx, err)
}

func (m *Manager) checkTexts(texts []string) error {
	if m.isClosed() {
		return ErrClosed
	}
	if len(texts) == 0 {
		return ErrInvalidInput("texts must not be empty")
	}
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			return ErrInvalidInput("texts must not contain blank entries")
		}
	}
	return nil
}

type call struct {
	m      *Manager
	id     string
	kind   string
	inputs int
	start  time.Time
}

func (m *Manager) begin(kind string, inputs int) *call {
	return &call{m: m, id: ulid.Make().String(), kind: kind, inputs: inputs, start: time.Now()}
}

// end logs, publishes and records the call, and returns err unchanged.
func (c *call) end(ctx context.Context, err error) error {
	d := time.Since(c.start)
	out := outcome(err)
	lvl := zerolog.InfoLevel
	switch out {
	case "ok":
		lvl = zerolog.DebugLevel
	case "inference_error", "worker_gone", "error":
		lvl = zerolog.WarnLevel
	}
	c.m.log.WithLevel(lvl).Str("request_id", c.id).Str("kind", c.kind).Int("inputs", c.inputs).
		Dur("duration", d).Str("outcome", out).Err(err).Msg("request")
	c.m.pub.Publish(worker.Event{Name: "request_done", Kind: c.kind, Fields: map[string]any{
		"request_id": c.id, "outcome": out, "duration_ms": d.Milliseconds(),
	}})
	if c.m.requests != nil {
		rec := types.RequestRecord{
			ID: c.id, Kind: c.kind, Inputs: c.inputs, DurationMS: d.Milliseconds(),
			Outcome: out, CreatedAt: c.start,
		}
		if err != nil {
			rec.Error = err.Error()
		}
		// The caller may have gone; the record is still wanted.
		if _, lerr := c.m.requests.LogRequest(context.WithoutCancel(ctx), rec); lerr != nil {
			c.m.log.Warn().Err(lerr).Str("request_id", c.id).Msg("request log write failed")
		}
	}
	return err
}
