// Package lexicon implements the four model kinds with deterministic,
// dependency-free heuristics: a polarity lexicon with negation, frequency
// based extractive summaries, sentence retrieval for question answering and
// RAKE keyword extraction. Inputs are expected in English.
//
// Models are not safe for concurrent use; each worker owns its own instance.
package lexicon

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// token is a word with its byte offsets in the original text.
type token struct {
	text       string
	start, end int
}

// span is a sentence with its byte offsets in the original text.
type span struct {
	text       string
	start, end int
}

// normalizer folds case after NFC normalization. cases.Caser keeps state, so
// one normalizer belongs to one model instance.
type normalizer struct {
	fold cases.Caser
}

func newNormalizer() *normalizer {
	return &normalizer{fold: cases.Fold()}
}

func (n *normalizer) word(s string) string {
	w := n.fold.String(norm.NFC.String(s))
	w = strings.ReplaceAll(w, "’", "'")
	return strings.Trim(w, "'")
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '’'
}

// words splits s into normalized word tokens.
func (n *normalizer) words(s string) []token {
	var out []token
	start := -1
	flush := func(end int) {
		if w := n.word(s[start:end]); w != "" {
			out = append(out, token{text: w, start: start, end: end})
		}
		start = -1
	}
	for i, r := range s {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			flush(i)
		}
	}
	if start >= 0 {
		flush(len(s))
	}
	return out
}

// sentences splits s on terminal punctuation and line breaks. A period
// directly followed by a non-space (3.5, e.g.) does not end a sentence.
func sentences(s string) []span {
	var out []span
	start := 0
	emit := func(end int) {
		seg := s[start:end]
		l := len(seg) - len(strings.TrimLeftFunc(seg, unicode.IsSpace))
		r := len(strings.TrimRightFunc(seg, unicode.IsSpace))
		if r > l {
			out = append(out, span{text: seg[l:r], start: start + l, end: start + r})
		}
		start = end
	}
	for i, r := range s {
		switch r {
		case '.', '!', '?', '。', '\n':
			end := i + utf8.RuneLen(r)
			if r == '.' && end < len(s) && !unicode.IsSpace(rune(s[end])) {
				continue
			}
			emit(end)
		}
	}
	if start < len(s) {
		emit(len(s))
	}
	return out
}

func isStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}

func isNumeric(w string) bool {
	for _, r := range w {
		if !unicode.IsDigit(r) && r != '.' && r != ',' {
			return false
		}
	}
	return true
}

var stopwords = toSet(`a about above after again against all am an and any are aren't as at
be because been before being below between both but by can can't cannot could couldn't
did didn't do does doesn't doing don't down during each few for from further had hadn't
has hasn't have haven't having he he'd he'll he's her here here's hers herself him himself
his how how's i i'd i'll i'm i've if in into is isn't it it's its itself just let's me more
most mustn't my myself no nor not of off on once only or other ought our ours ourselves out
over own same shan't she she'd she'll she's should shouldn't so some such than that that's
the their theirs them themselves then there there's these they they'd they'll they're
they've this those through to too under until up very was wasn't we we'd we'll we're we've
were weren't what what's when when's where where's which while who who's whom why why's
will with won't would wouldn't you you'd you'll you're you've your yours yourself
yourselves also get got really like just one s t`)

func toSet(words string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(words) {
		set[w] = struct{}{}
	}
	return set
}
