package types

import (
	"time"

	"nlpd/internal/classifier"
)

// CommentSentiment is the polarity of one comment, with the comment in its
// original language.
type CommentSentiment struct {
	Text  string           `json:"text"`
	Label classifier.Label `json:"label"`
	Score float64          `json:"score"`
}

// Report is the analysis of one video. Text fields are in the source
// language unless noted.
type Report struct {
	ID          string    `json:"id"`
	Query       string    `json:"query"`
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title"`
	Channel     string    `json:"channel,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
	// Question asked of the transcript.
	Question string `json:"question,omitempty"`
	// Best answer, translated back to the source language.
	Answer      string  `json:"answer,omitempty"`
	AnswerScore float64 `json:"answer_score,omitempty"`
	Summary     string  `json:"summary,omitempty"`
	// Keywords of the transcript and of the comments, translated back.
	TranscriptKeywords []classifier.Keyword `json:"transcript_keywords,omitempty"`
	CommentKeywords    []classifier.Keyword `json:"comment_keywords,omitempty"`
	Comments           []CommentSentiment   `json:"comments,omitempty"`
	Positive           int                  `json:"positive"`
	Negative           int                  `json:"negative"`
	CreatedAt          time.Time            `json:"created_at"`
}

// AnalysesResponse is returned by GET /v1/analyses.
type AnalysesResponse struct {
	Analyses []Report `json:"analyses"`
}
