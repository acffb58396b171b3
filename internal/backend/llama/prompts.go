package llama

import (
	"fmt"
	"strconv"
	"strings"

	"nlpd/internal/classifier"
)

// Token budgets per task.
const (
	sentimentTokens = 8
	summaryTokens   = 192
	answerTokens    = 96
	keywordTokens   = 96
)

func sentimentPrompt(text string) string {
	return "Classify the sentiment of the text as positive or negative, followed by a confidence between 0 and 1.\n" +
		"Reply with exactly: <label> <confidence>\n\nText: " + text + "\nSentiment:"
}

func summaryPrompt(text string) string {
	return "Summarize the following text in at most three sentences.\n\nText: " + text + "\nSummary:"
}

func answerPrompt(question, context string) string {
	return "Answer the question with a short span copied from the context.\n\nContext: " + context +
		"\nQuestion: " + question + "\nAnswer:"
}

func keywordPrompt(text string) string {
	return "List the most important keywords of the text, most important first, separated by commas.\n\nText: " + text + "\nKeywords:"
}

// parseSentiment reads "<label> [confidence]". A missing or unparsable
// confidence defaults to 1.
func parseSentiment(out string) (classifier.Sentiment, error) {
	fields := strings.Fields(strings.ToLower(out))
	if len(fields) == 0 {
		return classifier.Sentiment{}, fmt.Errorf("empty sentiment completion")
	}
	var s classifier.Sentiment
	switch strings.Trim(fields[0], ".,:;\"'") {
	case "positive":
		s.Label = classifier.Positive
	case "negative":
		s.Label = classifier.Negative
	default:
		return classifier.Sentiment{}, fmt.Errorf("unexpected sentiment label %q", fields[0])
	}
	s.Score = 1
	if len(fields) > 1 {
		if v, err := strconv.ParseFloat(strings.Trim(fields[1], "(),"), 64); err == nil && v >= 0 && v <= 1 {
			s.Score = v
		}
	}
	return s, nil
}

func parseSummary(out string) string {
	return strings.TrimSpace(out)
}

// parseAnswer locates the completion inside context. Spans found verbatim
// score 1; free-form answers score 0.5 with offsets -1.
func parseAnswer(out, context string) classifier.Answer {
	ans := strings.Trim(strings.TrimSpace(firstLine(out)), "\"'")
	if ans == "" {
		return classifier.Answer{Start: -1, End: -1}
	}
	if i := strings.Index(context, ans); i >= 0 {
		return classifier.Answer{Answer: ans, Score: 1, Start: i, End: i + len(ans)}
	}
	if i := strings.Index(strings.ToLower(context), strings.ToLower(ans)); i >= 0 && len(context) == len(strings.ToLower(context)) {
		return classifier.Answer{Answer: context[i : i+len(ans)], Score: 0.9, Start: i, End: i + len(ans)}
	}
	return classifier.Answer{Answer: ans, Score: 0.5, Start: -1, End: -1}
}

// parseKeywords splits a comma or line separated list. Scores decay with
// rank so the first keyword scores 1.
func parseKeywords(out string) []classifier.Keyword {
	fields := strings.FieldsFunc(out, func(r rune) bool { return r == ',' || r == '\n' || r == ';' })
	seen := make(map[string]bool)
	var kws []string
	for _, f := range fields {
		k := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(f), "-*•0123456789.)"))
		k = strings.ToLower(strings.Trim(k, "\"'."))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		kws = append(kws, k)
	}
	res := make([]classifier.Keyword, len(kws))
	for i, k := range kws {
		res[i] = classifier.Keyword{Text: k, Score: 1 / float64(i+1)}
	}
	return res
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
