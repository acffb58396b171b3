package lexicon

import (
	"sort"
	"strings"
	"unicode/utf8"

	"nlpd/internal/classifier"
)

const (
	// DefaultMaxKeywords bounds the keywords returned per text.
	DefaultMaxKeywords = 10
	maxPhraseWords     = 4
)

// Rake extracts key phrases with the RAKE algorithm: candidates are runs of
// content words between stopwords and punctuation, scored by the sum of
// degree/frequency of their words. Scores are scaled so the best phrase is 1.
type Rake struct {
	n           *normalizer
	maxKeywords int
}

func NewRake(maxKeywords int) *Rake {
	if maxKeywords < 1 {
		maxKeywords = DefaultMaxKeywords
	}
	return &Rake{n: newNormalizer(), maxKeywords: maxKeywords}
}

func (m *Rake) Infer(texts []string) ([][]classifier.Keyword, error) {
	out := make([][]classifier.Keyword, len(texts))
	for i, t := range texts {
		out[i] = m.extract(t)
	}
	return out, nil
}

func (m *Rake) phrases(text string) [][]string {
	var out [][]string
	for _, s := range sentences(text) {
		var cur []string
		prevEnd := -1
		// Long runs of content words are cut into phrases of at most
		// maxPhraseWords.
		flush := func() {
			for len(cur) > 0 {
				n := min(len(cur), maxPhraseWords)
				out = append(out, cur[:n:n])
				cur = cur[n:]
			}
			cur = nil
		}
		for _, tok := range m.n.words(s.text) {
			if prevEnd >= 0 && strings.TrimSpace(s.text[prevEnd:tok.start]) != "" {
				flush()
			}
			prevEnd = tok.end
			if isStopword(tok.text) || isNumeric(tok.text) || utf8.RuneCountInString(tok.text) < 2 {
				flush()
				continue
			}
			cur = append(cur, tok.text)
		}
		flush()
	}
	return out
}

func (m *Rake) extract(text string) []classifier.Keyword {
	phrases := m.phrases(text)
	freq := make(map[string]float64)
	degree := make(map[string]float64)
	for _, p := range phrases {
		for _, w := range p {
			freq[w]++
			degree[w] += float64(len(p))
		}
	}
	scores := make(map[string]float64)
	for _, p := range phrases {
		var s float64
		for _, w := range p {
			s += degree[w] / freq[w]
		}
		key := strings.Join(p, " ")
		if s > scores[key] {
			scores[key] = s
		}
	}
	out := make([]classifier.Keyword, 0, len(scores))
	for k, s := range scores {
		out = append(out, classifier.Keyword{Text: k, Score: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Text < out[j].Text
	})
	if len(out) > m.maxKeywords {
		out = out[:m.maxKeywords]
	}
	if len(out) > 0 {
		top := out[0].Score
		for i := range out {
			out[i].Score /= top
		}
	}
	return out
}
