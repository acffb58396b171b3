package types

import "nlpd/internal/classifier"

// TextsRequest is the body of /v1/sentiment, /v1/summarize and /v1/keywords.
type TextsRequest struct {
	// Texts to process; results keep this order.
	// example: ["great movie"]
	Texts []string `json:"texts" example:"great movie"`
}

// SentimentResponse is returned by POST /v1/sentiment.
type SentimentResponse struct {
	// Request log identifier.
	ID      string                 `json:"id"`
	Results []classifier.Sentiment `json:"results"`
}

// SummarizeResponse is returned by POST /v1/summarize.
type SummarizeResponse struct {
	ID        string   `json:"id"`
	Summaries []string `json:"summaries"`
}

// AnswerRequest is the body of POST /v1/answer.
type AnswerRequest struct {
	// example: What is the conclusion?
	Question string `json:"question" example:"What is the conclusion?"`
	// Text to extract the answer from.
	Context string `json:"context"`
	// Number of ranked answers to return; defaults to 1.
	// example: 3
	TopK int `json:"top_k,omitempty" example:"3"`
}

// AnswerResponse is returned by POST /v1/answer.
type AnswerResponse struct {
	ID      string              `json:"id"`
	Answers []classifier.Answer `json:"answers"`
}

// KeywordsResponse is returned by POST /v1/keywords.
type KeywordsResponse struct {
	ID       string                 `json:"id"`
	Keywords [][]classifier.Keyword `json:"keywords"`
}
