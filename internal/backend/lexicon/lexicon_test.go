package lexicon

import (
	"strings"
	"testing"

	"nlpd/internal/classifier"
)

func TestSentences_OffsetsAndDecimals(t *testing.T) {
	text := "  Prices rose 3.5 percent.  Then they fell!\nDone"
	got := sentences(text)
	if len(got) != 3 {
		t.Fatalf("want 3 sentences, got %d: %+v", len(got), got)
	}
	for _, s := range got {
		if text[s.start:s.end] != s.text {
			t.Fatalf("offsets %d:%d do not match %q", s.start, s.end, s.text)
		}
	}
	if got[0].text != "Prices rose 3.5 percent." {
		t.Fatalf("unexpected first sentence %q", got[0].text)
	}
}

func TestWords_FoldsCaseAndApostrophes(t *testing.T) {
	n := newNormalizer()
	toks := n.words("DON’T Stop")
	if len(toks) != 2 || toks[0].text != "don't" || toks[1].text != "stop" {
		t.Fatalf("unexpected tokens: %+v", toks)
	}
}

func TestSentiment_Table(t *testing.T) {
	m := NewSentiment()
	cases := []struct {
		text string
		want classifier.Label
	}{
		{"great movie", classifier.Positive},
		{"This was a terrible, boring film", classifier.Negative},
		{"not good at all", classifier.Negative},
		{"I don't hate it, it is really wonderful", classifier.Positive},
		{"", classifier.Positive},
	}
	texts := make([]string, len(cases))
	for i, c := range cases {
		texts[i] = c.text
	}
	got, err := m.Infer(texts)
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	for i, c := range cases {
		if got[i].Label != c.want {
			t.Fatalf("%q: want %s, got %+v", c.text, c.want, got[i])
		}
		if got[i].Score < 0.5 || got[i].Score > 1 {
			t.Fatalf("%q: score out of range: %v", c.text, got[i].Score)
		}
	}
	if got[4].Score != 0.5 {
		t.Fatalf("neutral text should score 0.5, got %v", got[4].Score)
	}
}

func TestSentiment_IntensifierRaisesConfidence(t *testing.T) {
	m := NewSentiment()
	got, _ := m.Infer([]string{"good", "extremely good"})
	if got[1].Score <= got[0].Score {
		t.Fatalf("intensified score %v not above %v", got[1].Score, got[0].Score)
	}
}

func TestSummarizer_KeepsDocumentOrder(t *testing.T) {
	m := NewSummarizer(2)
	text := "Rust and Go are languages. The weather is nice. Go has goroutines and Go has channels. Lunch was fine."
	got, err := m.Infer([]string{text, "Short one."})
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	if got[1] != "Short one." {
		t.Fatalf("short text should be returned as is, got %q", got[1])
	}
	first := strings.Index(got[0], "Rust and Go")
	second := strings.Index(got[0], "Go has goroutines")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("unexpected summary %q", got[0])
	}
	if strings.Contains(got[0], "weather") {
		t.Fatalf("summary kept an off-topic sentence: %q", got[0])
	}
}

func TestReader_FindsAnswerSpan(t *testing.T) {
	m := NewReader()
	ctx := "The video explains solar panels. Its conclusion is that rooftop solar pays off in eight years. Thanks for watching."
	got, err := m.Infer(classifier.QAInput{Question: "What is the conclusion?", Context: ctx, TopK: 2})
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 answers, got %d", len(got))
	}
	best := got[0]
	if !strings.Contains(best.Answer, "conclusion") {
		t.Fatalf("unexpected best answer %+v", best)
	}
	if ctx[best.Start:best.End] != best.Answer {
		t.Fatalf("span %d:%d does not match answer", best.Start, best.End)
	}
	if best.Score < got[1].Score {
		t.Fatalf("answers not ranked: %+v", got)
	}
}

func TestReader_EmptyContext(t *testing.T) {
	got, err := NewReader().Infer(classifier.QAInput{Question: "why?", Context: "   "})
	if err != nil || len(got) != 0 {
		t.Fatalf("want no answers, got %+v %v", got, err)
	}
}

func TestRake_RanksMultiWordPhrases(t *testing.T) {
	m := NewRake(3)
	text := "Compatibility of systems of linear constraints over the set of natural numbers. " +
		"Criteria of compatibility of a system of linear Diophantine equations are considered."
	got, err := m.Infer([]string{text, ""})
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	if len(got[0]) != 3 {
		t.Fatalf("want 3 keywords, got %+v", got[0])
	}
	if got[0][0].Score != 1 {
		t.Fatalf("top keyword should be scaled to 1, got %v", got[0][0].Score)
	}
	if !strings.Contains(got[0][0].Text, " ") {
		t.Fatalf("expected a multi-word top phrase, got %q", got[0][0].Text)
	}
	for i := 1; i < len(got[0]); i++ {
		if got[0][i].Score > got[0][i-1].Score {
			t.Fatalf("keywords not ranked: %+v", got[0])
		}
	}
	if len(got[1]) != 0 {
		t.Fatalf("empty text should yield no keywords, got %+v", got[1])
	}
}

func TestLoaders_ProduceModels(t *testing.T) {
	if m, err := SentimentLoader()(); err != nil || m == nil {
		t.Fatalf("sentiment loader: %v", err)
	}
	if m, err := SummarizationLoader(Options{})(); err != nil || m == nil {
		t.Fatalf("summarization loader: %v", err)
	}
	if m, err := QuestionAnsweringLoader()(); err != nil || m == nil {
		t.Fatalf("qa loader: %v", err)
	}
	if m, err := KeywordLoader(Options{MaxKeywords: 2})(); err != nil || m == nil {
		t.Fatalf("keyword loader: %v", err)
	}
}

func TestRake_SplitsLongContentRuns(t *testing.T) {
	got, err := NewRake(0).Infer([]string{"Go channels make concurrent programs simple.", "Great camera battery life"})
	if err != nil {
		t.Fatalf("infer: %v", err)
	}
	want := []classifier.Keyword{
		{Text: "go channels make concurrent", Score: 1},
		{Text: "programs simple", Score: 0.25},
	}
	if len(got[0]) != len(want) {
		t.Fatalf("want %+v, got %+v", want, got[0])
	}
	for i := range want {
		if got[0][i] != want[i] {
			t.Fatalf("keyword %d: want %+v, got %+v", i, want[i], got[0][i])
		}
	}
	if len(got[1]) != 1 || got[1][0].Text != "great camera battery life" {
		t.Fatalf("four-word run should stay whole, got %+v", got[1])
	}
}
