package lexicon

import (
	"sort"
	"strings"
)

// DefaultMaxSentences bounds extractive summaries.
const DefaultMaxSentences = 3

// Summarizer picks the sentences with the highest average content-word
// frequency and returns them in document order.
type Summarizer struct {
	n            *normalizer
	maxSentences int
}

func NewSummarizer(maxSentences int) *Summarizer {
	if maxSentences < 1 {
		maxSentences = DefaultMaxSentences
	}
	return &Summarizer{n: newNormalizer(), maxSentences: maxSentences}
}

func (m *Summarizer) Infer(texts []string) ([]string, error) {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = m.summarize(t)
	}
	return out, nil
}

func (m *Summarizer) summarize(text string) string {
	sents := sentences(text)
	if len(sents) <= m.maxSentences {
		return joinSpans(sents)
	}
	freq := make(map[string]float64)
	content := make([][]string, len(sents))
	for i, s := range sents {
		for _, tok := range m.n.words(s.text) {
			if isStopword(tok.text) || isNumeric(tok.text) {
				continue
			}
			freq[tok.text]++
			content[i] = append(content[i], tok.text)
		}
	}
	scores := make([]float64, len(sents))
	for i, words := range content {
		if len(words) == 0 {
			continue
		}
		var sum float64
		for _, w := range words {
			sum += freq[w]
		}
		scores[i] = sum / float64(len(words))
	}
	// The lead sentence usually frames the text.
	scores[0] *= 1.1

	idx := make([]int, len(sents))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return scores[idx[a]] > scores[idx[b]] })
	idx = idx[:m.maxSentences]
	sort.Ints(idx)
	picked := make([]span, len(idx))
	for i, j := range idx {
		picked[i] = sents[j]
	}
	return joinSpans(picked)
}

func joinSpans(spans []span) string {
	parts := make([]string, len(spans))
	for i, s := range spans {
		parts[i] = s.text
	}
	return strings.Join(parts, " ")
}
