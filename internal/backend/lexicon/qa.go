package lexicon

import (
	"math"
	"sort"

	"nlpd/internal/classifier"
)

// Reader answers questions by ranking context sentences on idf-weighted
// overlap with the question. Answers are whole sentences with byte offsets
// into the context.
type Reader struct {
	n *normalizer
}

func NewReader() *Reader { return &Reader{n: newNormalizer()} }

func (m *Reader) Infer(in classifier.QAInput) ([]classifier.Answer, error) {
	sents := sentences(in.Context)
	if len(sents) == 0 {
		return []classifier.Answer{}, nil
	}
	terms := m.terms(in.Question)

	present := make([]map[string]bool, len(sents))
	df := make(map[string]int)
	for i, s := range sents {
		present[i] = make(map[string]bool)
		for _, tok := range m.n.words(s.text) {
			if terms[tok.text] && !present[i][tok.text] {
				present[i][tok.text] = true
				df[tok.text]++
			}
		}
	}
	n := float64(len(sents))
	idf := func(t string) float64 { return math.Log(1 + n/float64(max(df[t], 1))) }
	var total float64
	for t := range terms {
		total += idf(t)
	}

	answers := make([]classifier.Answer, len(sents))
	for i, s := range sents {
		var hit float64
		for t := range present[i] {
			hit += idf(t)
		}
		score := 0.0
		if total > 0 {
			score = hit / total
		}
		answers[i] = classifier.Answer{Answer: s.text, Score: score, Start: s.start, End: s.end}
	}
	sort.SliceStable(answers, func(a, b int) bool { return answers[a].Score > answers[b].Score })
	if k := max(in.TopK, 1); len(answers) > k {
		answers = answers[:k]
	}
	return answers, nil
}

// terms returns the content words of q, or all of its words when q consists
// of stopwords only.
func (m *Reader) terms(q string) map[string]bool {
	all := make(map[string]bool)
	content := make(map[string]bool)
	for _, tok := range m.n.words(q) {
		all[tok.text] = true
		if !isStopword(tok.text) {
			content[tok.text] = true
		}
	}
	if len(content) == 0 {
		return all
	}
	return content
}
