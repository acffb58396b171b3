package lexicon

import (
	"strings"

	"nlpd/internal/classifier"
)

// negationWindow is how many following words a negator flips.
const negationWindow = 3

// Sentiment scores polarity by summing lexicon hits. Negators flip the next
// few words and intensifiers amplify the next one.
type Sentiment struct {
	n *normalizer
}

func NewSentiment() *Sentiment { return &Sentiment{n: newNormalizer()} }

func (m *Sentiment) Infer(texts []string) ([]classifier.Sentiment, error) {
	out := make([]classifier.Sentiment, len(texts))
	for i, t := range texts {
		out[i] = m.score(t)
	}
	return out, nil
}

func (m *Sentiment) score(text string) classifier.Sentiment {
	var pos, neg float64
	negated := 0
	boost := 1.0
	for _, tok := range m.n.words(text) {
		w := tok.text
		if isNegator(w) {
			negated = negationWindow
			continue
		}
		if f, ok := intensifiers[w]; ok {
			boost = f
			continue
		}
		p, ok := polarity[w]
		if ok {
			p *= boost
			if negated > 0 {
				p = -p
			}
			if p > 0 {
				pos += p
			} else {
				neg -= p
			}
		}
		boost = 1.0
		if negated > 0 {
			negated--
		}
	}
	label, top := classifier.Positive, pos
	if neg > pos {
		label, top = classifier.Negative, neg
	}
	return classifier.Sentiment{Label: label, Score: (top + 1) / (pos + neg + 2)}
}

func isNegator(w string) bool {
	switch w {
	case "not", "no", "never", "nor", "cannot", "without", "hardly", "neither":
		return true
	}
	return strings.HasSuffix(w, "n't")
}

var intensifiers = map[string]float64{
	"very": 1.5, "really": 1.5, "extremely": 2, "so": 1.3, "super": 1.5,
	"incredibly": 2, "absolutely": 1.8, "totally": 1.5, "highly": 1.5,
	"slightly": 0.5, "somewhat": 0.6, "barely": 0.4,
}

var polarity = func() map[string]float64 {
	m := make(map[string]float64)
	for w := range toSet(positiveWords) {
		m[w] = 1
	}
	for w := range toSet(negativeWords) {
		m[w] = -1
	}
	return m
}()

const positiveWords = `good great excellent amazing awesome wonderful fantastic superb brilliant
love loved loves lovely like liked enjoy enjoyed enjoyable best better beautiful nice happy
glad pleased delightful perfect impressive helpful useful interesting fun funny favorite
recommend recommended outstanding positive success successful win wins winning inspiring
informative clear clever smart cool fascinating fresh masterpiece touching moving wow
thanks thank grateful agree correct right worth valuable insightful incredible legendary
solid strong kind warm charming pleasant satisfying satisfied hilarious entertaining`

const negativeWords = `bad terrible awful horrible worst worse poor boring hate hated hates
dislike disliked annoying disappointing disappointed disappointment sad angry upset ugly
useless waste wasted stupid dumb wrong fail failed failure broken problem problems negative
mediocre weak confusing confused misleading fake lie lies lying scam trash garbage pathetic
ridiculous nonsense sucks painful dull bland slow lame unfortunately regret cringe toxic
rude overrated unhelpful inaccurate false fear scary disgusting dislikes shame`
