// Package analysis runs the video analysis pipeline: for a search query it
// collects videos with their transcripts and comments, translates them into
// the pivot language the models understand, runs every model kind and
// translates the results back into reports.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"nlpd/internal/classifier"
	"nlpd/internal/manager"
	"nlpd/internal/store"
	"nlpd/internal/youtube"
	"nlpd/pkg/types"
)

// Defaults applied when corresponding Options fields are unset.
const (
	DefaultMaxVideos   = 10
	DefaultMaxComments = 100
	DefaultMaxKeywords = 10
	DefaultQuestion    = "What is the theme and conclusion of the video?"
)

// VideoSource finds videos and their text. *youtube.Client satisfies it.
type VideoSource interface {
	Search(ctx context.Context, query string, max int) ([]youtube.Video, error)
	Comments(ctx context.Context, videoID string, max int) ([]youtube.Comment, error)
	Transcript(ctx context.Context, videoID string) (youtube.Transcript, error)
}

// Translator translates texts in order; blank texts stay blank.
// *translate.DeepL satisfies it.
type Translator interface {
	Translate(ctx context.Context, texts []string, source, target string) ([]string, error)
}

// Store persists reports. *store.Store satisfies it.
type Store interface {
	SaveAnalysis(ctx context.Context, r *types.Report) error
}

// Options configure a Pipeline.
type Options struct {
	MaxVideos   int
	MaxComments int
	// MaxKeywords bounds the aggregated comment keywords.
	MaxKeywords int
	Question    string
	// SourceLang is the language of the videos, PivotLang the language of
	// the models. Equal languages skip translation.
	SourceLang string
	PivotLang  string
	// Translator is required unless SourceLang equals PivotLang.
	Translator Translator
	// Store is optional.
	Store  Store
	Logger *zerolog.Logger
}

// Pipeline analyzes videos. The classifiers are borrowed: the caller
// closes them after the pipeline is done.
type Pipeline struct {
	src  VideoSource
	clf  manager.Classifiers
	opts Options
	log  zerolog.Logger
}

// New returns a Pipeline.
func New(src VideoSource, clf manager.Classifiers, o Options) *Pipeline {
	if o.MaxVideos <= 0 {
		o.MaxVideos = DefaultMaxVideos
	}
	if o.MaxComments <= 0 {
		o.MaxComments = DefaultMaxComments
	}
	if o.MaxKeywords <= 0 {
		o.MaxKeywords = DefaultMaxKeywords
	}
	if strings.TrimSpace(o.Question) == "" {
		o.Question = DefaultQuestion
	}
	l := zerolog.Nop()
	if o.Logger != nil {
		l = *o.Logger
	}
	return &Pipeline{src: src, clf: clf, opts: o, log: l.With().Str("component", "analysis").Logger()}
}

// Run analyzes up to MaxVideos videos matching query. Reports are returned
// in search order. Store failures do not stop the run; they are joined into
// the returned error alongside the reports.
func (p *Pipeline) Run(ctx context.Context, query string) ([]types.Report, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, manager.ErrInvalidInput("query must not be empty")
	}
	videos, err := p.src.Search(ctx, query, p.opts.MaxVideos)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	p.log.Info().Str("query", query).Int("videos", len(videos)).Msg("search done")

	reports := make([]types.Report, 0, len(videos))
	var saveErrs []error
	for _, v := range videos {
		rep, err := p.Analyze(ctx, query, v)
		if err != nil {
			return reports, fmt.Errorf("video %s: %w", v.ID, err)
		}
		if p.opts.Store != nil {
			if err := p.opts.Store.SaveAnalysis(ctx, &rep); err != nil {
				p.log.Warn().Err(err).Str("video", v.ID).Msg("save analysis failed")
				saveErrs = append(saveErrs, fmt.Errorf("save %s: %w", v.ID, err))
			}
		}
		reports = append(reports, rep)
	}
	return reports, errors.Join(saveErrs...)
}

// Analyze builds the report of one video. A transcript or comment fetch
// failure leaves that part empty; a video without transcript or comments
// skips the model calls that need them.
func (p *Pipeline) Analyze(ctx context.Context, query string, v youtube.Video) (types.Report, error) {
	start := time.Now()
	log := p.log.With().Str("video", v.ID).Logger()

	var script string
	if tr, err := p.src.Transcript(ctx, v.ID); err != nil {
		if ctx.Err() != nil {
			return types.Report{}, ctx.Err()
		}
		log.Warn().Err(err).Msg("transcript unavailable")
	} else {
		script = tr.Text()
	}
	var comments []string
	if cs, err := p.src.Comments(ctx, v.ID, p.opts.MaxComments); err != nil {
		if ctx.Err() != nil {
			return types.Report{}, ctx.Err()
		}
		log.Warn().Err(err).Msg("comments unavailable")
	} else {
		for _, c := range cs {
			comments = append(comments, c.Text)
		}
	}

	pivot, err := p.toPivot(ctx, append([]string{script}, comments...))
	if err != nil {
		return types.Report{}, err
	}
	pivotScript, pivotComments := pivot[0], pivot[1:]

	res, err := p.runModels(ctx, pivotScript, pivotComments)
	if err != nil {
		return types.Report{}, err
	}

	rep := types.Report{
		ID:          store.NewID(),
		Query:       query,
		VideoID:     v.ID,
		Title:       v.Title,
		Channel:     v.Channel,
		PublishedAt: v.PublishedAt,
		Question:    p.opts.Question,
		AnswerScore: res.answer.Score,
		CreatedAt:   time.Now().UTC(),
	}
	if err := p.fromPivot(ctx, &rep, res); err != nil {
		return types.Report{}, err
	}
	for i, s := range res.sentiments {
		rep.Comments = append(rep.Comments, types.CommentSentiment{Text: comments[i], Label: s.Label, Score: s.Score})
		switch s.Label {
		case classifier.Positive:
			rep.Positive++
		case classifier.Negative:
			rep.Negative++
		}
	}
	log.Info().Int("comments", len(comments)).Bool("transcript", script != "").
		Dur("dur", time.Since(start)).Msg("video analyzed")
	return rep, nil
}

type modelResults struct {
	answer             classifier.Answer
	summary            string
	transcriptKeywords []classifier.Keyword
	commentKeywords    []classifier.Keyword
	sentiments         []classifier.Sentiment
}

// runModels issues every model call concurrently; each kind has its own
// workers so the calls overlap.
func (p *Pipeline) runModels(ctx context.Context, script string, comments []string) (modelResults, error) {
	var res modelResults
	g, gctx := errgroup.WithContext(ctx)
	if strings.TrimSpace(script) != "" {
		g.Go(func() error {
			answers, err := p.clf.QuestionAnswering.Predict(gctx, p.opts.Question, script)
			if err != nil {
				return fmt.Errorf("question answering: %w", err)
			}
			if len(answers) > 0 {
				res.answer = answers[0]
			}
			return nil
		})
		g.Go(func() error {
			out, err := p.clf.Summarization.Summarize(gctx, []string{script})
			if err != nil {
				return fmt.Errorf("summarization: %w", err)
			}
			res.summary = out[0]
			return nil
		})
		g.Go(func() error {
			out, err := p.clf.Keywords.Predict(gctx, []string{script})
			if err != nil {
				return fmt.Errorf("transcript keywords: %w", err)
			}
			res.transcriptKeywords = out[0]
			return nil
		})
	}
	if len(comments) > 0 {
		g.Go(func() error {
			out, err := p.clf.Sentiment.Predict(gctx, comments)
			if err != nil {
				return fmt.Errorf("sentiment: %w", err)
			}
			res.sentiments = out
			return nil
		})
		g.Go(func() error {
			out, err := p.clf.Keywords.Predict(gctx, comments)
			if err != nil {
				return fmt.Errorf("comment keywords: %w", err)
			}
			res.commentKeywords = mergeKeywords(out, p.opts.MaxKeywords)
			return nil
		})
	}
	return res, g.Wait()
}

// mergeKeywords sums keyword scores across texts and keeps the top n,
// normalized so the best scores 1.
func mergeKeywords(lists [][]classifier.Keyword, n int) []classifier.Keyword {
	sum := make(map[string]float64)
	for _, kws := range lists {
		for _, k := range kws {
			sum[k.Text] += k.Score
		}
	}
	out := make([]classifier.Keyword, 0, len(sum))
	for text, s := range sum {
		out = append(out, classifier.Keyword{Text: text, Score: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Text < out[j].Text
	})
	if len(out) > n {
		out = out[:n]
	}
	if len(out) > 0 && out[0].Score > 0 {
		top := out[0].Score
		for i := range out {
			out[i].Score /= top
		}
	}
	return out
}

func (p *Pipeline) sameLang() bool {
	return p.opts.Translator == nil || strings.EqualFold(p.opts.SourceLang, p.opts.PivotLang)
}

func (p *Pipeline) toPivot(ctx context.Context, texts []string) ([]string, error) {
	if p.sameLang() {
		return texts, nil
	}
	out, err := p.opts.Translator.Translate(ctx, texts, p.opts.SourceLang, p.opts.PivotLang)
	if err != nil {
		return nil, fmt.Errorf("translate to %s: %w", p.opts.PivotLang, err)
	}
	return out, nil
}

// fromPivot translates the model outputs back in one batch and fills rep.
func (p *Pipeline) fromPivot(ctx context.Context, rep *types.Report, res modelResults) error {
	texts := []string{res.answer.Answer, res.summary}
	for _, k := range res.transcriptKeywords {
		texts = append(texts, k.Text)
	}
	for _, k := range res.commentKeywords {
		texts = append(texts, k.Text)
	}
	if !p.sameLang() {
		var err error
		texts, err = p.opts.Translator.Translate(ctx, texts, p.opts.PivotLang, p.opts.SourceLang)
		if err != nil {
			return fmt.Errorf("translate to %s: %w", p.opts.SourceLang, err)
		}
	}
	rep.Answer, rep.Summary = texts[0], texts[1]
	rest := texts[2:]
	rep.TranscriptKeywords = relabel(res.transcriptKeywords, rest[:len(res.transcriptKeywords)])
	rep.CommentKeywords = relabel(res.commentKeywords, rest[len(res.transcriptKeywords):])
	return nil
}

func relabel(kws []classifier.Keyword, texts []string) []classifier.Keyword {
	if len(kws) == 0 {
		return nil
	}
	out := make([]classifier.Keyword, len(kws))
	for i, k := range kws {
		out[i] = classifier.Keyword{Text: texts[i], Score: k.Score}
	}
	return out
}
