// Package llama runs the four model kinds on a local GGUF model through
// llama.cpp. Real inference requires building with the 'llama' tag; without
// it every loader fails with ErrNotBuilt.
package llama

import (
	"errors"
	"fmt"

	"nlpd/internal/classifier"
)

// ErrNotBuilt is returned by loaders in binaries built without llama support.
var ErrNotBuilt = errors.New("llama support not built (missing 'llama' build tag)")

// Options configures model loading and prediction.
type Options struct {
	CtxSize int
	Threads int
}

// completer is one loaded model. Implementations are bound to the thread
// that loaded them.
type completer interface {
	complete(prompt string, maxTokens int) (string, error)
	Close() error
}

type sentimentModel struct{ c completer }

func (m *sentimentModel) Infer(texts []string) ([]classifier.Sentiment, error) {
	out := make([]classifier.Sentiment, len(texts))
	for i, t := range texts {
		raw, err := m.c.complete(sentimentPrompt(t), sentimentTokens)
		if err != nil {
			return nil, err
		}
		if out[i], err = parseSentiment(raw); err != nil {
			return nil, fmt.Errorf("text %d: %w", i, err)
		}
	}
	return out, nil
}

func (m *sentimentModel) Close() error { return m.c.Close() }

type summaryModel struct{ c completer }

func (m *summaryModel) Infer(texts []string) ([]string, error) {
	out := make([]string, len(texts))
	for i, t := range texts {
		raw, err := m.c.complete(summaryPrompt(t), summaryTokens)
		if err != nil {
			return nil, err
		}
		out[i] = parseSummary(raw)
	}
	return out, nil
}

func (m *summaryModel) Close() error { return m.c.Close() }

// answerModel produces a single answer; generative models have no calibrated
// alternatives to rank.
type answerModel struct{ c completer }

func (m *answerModel) Infer(in classifier.QAInput) ([]classifier.Answer, error) {
	raw, err := m.c.complete(answerPrompt(in.Question, in.Context), answerTokens)
	if err != nil {
		return nil, err
	}
	a := parseAnswer(raw, in.Context)
	if a.Answer == "" {
		return []classifier.Answer{}, nil
	}
	return []classifier.Answer{a}, nil
}

func (m *answerModel) Close() error { return m.c.Close() }

type keywordModel struct{ c completer }

func (m *keywordModel) Infer(texts []string) ([][]classifier.Keyword, error) {
	out := make([][]classifier.Keyword, len(texts))
	for i, t := range texts {
		raw, err := m.c.complete(keywordPrompt(t), keywordTokens)
		if err != nil {
			return nil, err
		}
		out[i] = parseKeywords(raw)
	}
	return out, nil
}

func (m *keywordModel) Close() error { return m.c.Close() }

func SentimentLoader(path string, o Options) classifier.SentimentLoader {
	return func() (classifier.SentimentModel, error) {
		c, err := open(path, o)
		if err != nil {
			return nil, err
		}
		return &sentimentModel{c: c}, nil
	}
}

func SummarizationLoader(path string, o Options) classifier.SummarizationLoader {
	return func() (classifier.SummarizationModel, error) {
		c, err := open(path, o)
		if err != nil {
			return nil, err
		}
		return &summaryModel{c: c}, nil
	}
}

func QuestionAnsweringLoader(path string, o Options) classifier.QuestionAnsweringLoader {
	return func() (classifier.QuestionAnsweringModel, error) {
		c, err := open(path, o)
		if err != nil {
			return nil, err
		}
		return &answerModel{c: c}, nil
	}
}

func KeywordLoader(path string, o Options) classifier.KeywordLoader {
	return func() (classifier.KeywordModel, error) {
		c, err := open(path, o)
		if err != nil {
			return nil, err
		}
		return &keywordModel{c: c}, nil
	}
}
