package lexicon

import "nlpd/internal/classifier"

// Options tunes the lexicon models. Zero values select defaults.
type Options struct {
	MaxSentences int
	MaxKeywords  int
}

func SentimentLoader() classifier.SentimentLoader {
	return func() (classifier.SentimentModel, error) { return NewSentiment(), nil }
}

func SummarizationLoader(o Options) classifier.SummarizationLoader {
	return func() (classifier.SummarizationModel, error) { return NewSummarizer(o.MaxSentences), nil }
}

func QuestionAnsweringLoader() classifier.QuestionAnsweringLoader {
	return func() (classifier.QuestionAnsweringModel, error) { return NewReader(), nil }
}

func KeywordLoader(o Options) classifier.KeywordLoader {
	return func() (classifier.KeywordModel, error) { return NewRake(o.MaxKeywords), nil }
}
