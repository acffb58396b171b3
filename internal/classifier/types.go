// Package classifier instantiates the worker bridge for the four model kinds
// served by nlpd: sentiment, summarization, question answering and keyword
// extraction. Each classifier is a thin typed wrapper; all queueing,
// threading and lifecycle behavior lives in package worker.
package classifier

import (
	"errors"

	"nlpd/internal/worker"
)

// Model kinds, used as worker kinds, metric labels and API names.
const (
	KindSentiment         = "sentiment"
	KindSummarization     = "summarization"
	KindQuestionAnswering = "question_answering"
	KindKeywords          = "keyword_extraction"
)

// Kinds lists every model kind in a stable order.
var Kinds = []string{KindSentiment, KindSummarization, KindQuestionAnswering, KindKeywords}

var (
	// ErrOutputMismatch is returned when a model answers with a different
	// number of results than it was given inputs.
	ErrOutputMismatch = errors.New("model output does not match input count")
	// ErrEmptyInput is returned for requests with nothing to process.
	ErrEmptyInput = errors.New("empty input")
)

// Label is a binary sentiment polarity.
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
)

// Sentiment is the polarity of one text with the model's confidence.
type Sentiment struct {
	Label Label   `json:"label"`
	Score float64 `json:"score"`
}

// QAInput is one extractive question answering request.
type QAInput struct {
	Question string `json:"question"`
	Context  string `json:"context"`
	// TopK bounds the number of ranked answers; values below 1 mean 1.
	TopK int `json:"top_k,omitempty"`
}

// Answer is a candidate span of the context. Start and End are byte offsets
// into the context.
type Answer struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

// Keyword is a ranked phrase extracted from a text.
type Keyword struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Model and loader aliases for the four kinds.
type (
	SentimentModel          = worker.Model[[]string, []Sentiment]
	SummarizationModel      = worker.Model[[]string, []string]
	QuestionAnsweringModel  = worker.Model[QAInput, []Answer]
	KeywordModel            = worker.Model[[]string, [][]Keyword]
	SentimentLoader         = worker.Loader[[]string, []Sentiment]
	SummarizationLoader     = worker.Loader[[]string, []string]
	QuestionAnsweringLoader = worker.Loader[QAInput, []Answer]
	KeywordLoader           = worker.Loader[[]string, [][]Keyword]
)

// clonePredictor returns an independent reference to the same workers.
func clonePredictor[In, Out any](p worker.Predictor[In, Out]) worker.Predictor[In, Out] {
	switch v := p.(type) {
	case *worker.Handle[In, Out]:
		return v.Clone()
	case *worker.Pool[In, Out]:
		return v.Clone()
	default:
		return p
	}
}
