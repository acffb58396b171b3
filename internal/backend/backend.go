// Package backend selects the model implementation behind the four
// classifiers and returns their loaders.
package backend

import (
	"fmt"
	"strings"

	"nlpd/internal/backend/lexicon"
	"nlpd/internal/backend/llama"
	"nlpd/internal/classifier"
	"nlpd/internal/registry"
	"nlpd/pkg/types"
)

// Backend names accepted in configuration.
const (
	Lexicon = "lexicon"
	Llama   = "llama"
)

// Options selects and configures a backend.
type Options struct {
	Name string
	// ModelsDir is scanned for GGUF files when Name is Llama.
	ModelsDir string
	// Models maps a model kind to a model reference (file name, name without
	// extension, or path). Only used by the llama backend.
	Models  map[string]string
	CtxSize int
	Threads int

	MaxSentences int
	MaxKeywords  int
}

// Loaders holds one loader per model kind.
type Loaders struct {
	Sentiment         classifier.SentimentLoader
	Summarization     classifier.SummarizationLoader
	QuestionAnswering classifier.QuestionAnsweringLoader
	Keywords          classifier.KeywordLoader
}

// New returns the loaders of the named backend. Loading itself happens later
// on each worker's thread; New only validates and resolves model files.
func New(o Options) (Loaders, error) {
	switch strings.ToLower(strings.TrimSpace(o.Name)) {
	case "", Lexicon:
		lo := lexicon.Options{MaxSentences: o.MaxSentences, MaxKeywords: o.MaxKeywords}
		return Loaders{
			Sentiment:         lexicon.SentimentLoader(),
			Summarization:     lexicon.SummarizationLoader(lo),
			QuestionAnswering: lexicon.QuestionAnsweringLoader(),
			Keywords:          lexicon.KeywordLoader(lo),
		}, nil
	case Llama:
		return newLlama(o)
	default:
		return Loaders{}, fmt.Errorf("unknown backend %q", o.Name)
	}
}

func newLlama(o Options) (Loaders, error) {
	var models []types.Model
	if o.ModelsDir != "" {
		var err error
		if models, err = registry.LoadDir(o.ModelsDir); err != nil {
			return Loaders{}, fmt.Errorf("scan models: %w", err)
		}
	}
	paths := make(map[string]string, len(classifier.Kinds))
	for _, kind := range classifier.Kinds {
		p, err := registry.Resolve(models, o.Models[kind])
		if err != nil {
			return Loaders{}, fmt.Errorf("%s model: %w", kind, err)
		}
		paths[kind] = p
	}
	lo := llama.Options{CtxSize: o.CtxSize, Threads: o.Threads}
	return Loaders{
		Sentiment:         llama.SentimentLoader(paths[classifier.KindSentiment], lo),
		Summarization:     llama.SummarizationLoader(paths[classifier.KindSummarization], lo),
		QuestionAnswering: llama.QuestionAnsweringLoader(paths[classifier.KindQuestionAnswering], lo),
		Keywords:          llama.KeywordLoader(paths[classifier.KindKeywords], lo),
	}, nil
}

// Available reports the backends compiled into this binary.
func Available() []string {
	if llama.Built {
		return []string{Lexicon, Llama}
	}
	return []string{Lexicon}
}
