package analysis

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"nlpd/internal/backend"
	"nlpd/internal/classifier"
	"nlpd/internal/manager"
	"nlpd/internal/youtube"
	"nlpd/pkg/types"
)

const script = "The new phone has a bright display and a large battery. " +
	"The battery lasts two days in normal use. " +
	"The camera is average in low light. " +
	"In conclusion the phone is a good value for the price."

type fakeSource struct {
	videos      []youtube.Video
	transcripts map[string]youtube.Transcript
	comments    map[string][]youtube.Comment
	commentErr  error
	searchErr   error
	maxSeen     int
}

func (f *fakeSource) Search(ctx context.Context, query string, max int) ([]youtube.Video, error) {
	f.maxSeen = max
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.videos, nil
}

func (f *fakeSource) Comments(ctx context.Context, videoID string, max int) ([]youtube.Comment, error) {
	if f.commentErr != nil {
		return nil, f.commentErr
	}
	return f.comments[videoID], nil
}

func (f *fakeSource) Transcript(ctx context.Context, videoID string) (youtube.Transcript, error) {
	return f.transcripts[videoID], nil
}

// echoTranslator returns texts unchanged and records the directions used.
type echoTranslator struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (e *echoTranslator) Translate(ctx context.Context, texts []string, source, target string) ([]string, error) {
	e.mu.Lock()
	e.calls = append(e.calls, source+">"+target)
	e.mu.Unlock()
	if e.err != nil {
		return nil, e.err
	}
	return append([]string(nil), texts...), nil
}

type memStore struct{ saved []types.Report }

func (m *memStore) SaveAnalysis(ctx context.Context, r *types.Report) error {
	m.saved = append(m.saved, *r)
	return nil
}

type failingStore struct{}

func (failingStore) SaveAnalysis(ctx context.Context, r *types.Report) error {
	return errors.New("disk full")
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func newClassifiers(t *testing.T) manager.Classifiers {
	t.Helper()
	l, err := backend.New(backend.Options{})
	if err != nil {
		t.Fatalf("backend: %v", err)
	}
	m := manager.NewWithConfig(manager.ManagerConfig{Loaders: l})
	clf := m.Classifiers()
	t.Cleanup(func() {
		_ = clf.Close()
		_ = m.Close(context.Background())
	})
	return clf
}

func sampleSource() *fakeSource {
	return &fakeSource{
		videos: []youtube.Video{{ID: "v1", Title: "Phone review"}, {ID: "v2", Title: "No captions"}},
		transcripts: map[string]youtube.Transcript{
			"v1": {{Text: script}},
		},
		comments: map[string][]youtube.Comment{
			"v1": {{Text: "great phone, I love the battery"}, {Text: "terrible camera, I hate it"}, {Text: "great battery"}},
		},
	}
}

func TestRunBuildsReports(t *testing.T) {
	src := sampleSource()
	tr := &echoTranslator{}
	st := &memStore{}
	p := New(src, newClassifiers(t), Options{
		MaxVideos: 5, SourceLang: "KO", PivotLang: "EN", Translator: tr, Store: st,
	})

	reports, err := p.Run(testCtx(t), " phone ")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if src.maxSeen != 5 {
		t.Fatalf("search max = %d", src.maxSeen)
	}
	if len(reports) != 2 || len(st.saved) != 2 {
		t.Fatalf("reports=%d saved=%d", len(reports), len(st.saved))
	}

	r := reports[0]
	if r.Query != "phone" || r.VideoID != "v1" || r.ID == "" || r.Question != DefaultQuestion {
		t.Fatalf("unexpected header: %+v", r)
	}
	if r.Answer == "" || r.Summary == "" || len(r.TranscriptKeywords) == 0 {
		t.Fatalf("transcript models not run: %+v", r)
	}
	if !strings.Contains(script, r.Answer) {
		t.Fatalf("answer %q is not a span of the transcript", r.Answer)
	}
	if r.Positive != 2 || r.Negative != 1 || len(r.Comments) != 3 {
		t.Fatalf("sentiment counts: +%d -%d (%d comments)", r.Positive, r.Negative, len(r.Comments))
	}
	if r.Comments[1].Text != "terrible camera, I hate it" || r.Comments[1].Label != classifier.Negative {
		t.Fatalf("comment 1: %+v", r.Comments[1])
	}
	if len(r.CommentKeywords) == 0 || r.CommentKeywords[0].Score != 1 {
		t.Fatalf("comment keywords: %+v", r.CommentKeywords)
	}

	empty := reports[1]
	if empty.Answer != "" || empty.Summary != "" || len(empty.Comments) != 0 || empty.Positive != 0 {
		t.Fatalf("video without text should have an empty report: %+v", empty)
	}

	want := map[string]bool{"KO>EN": false, "EN>KO": false}
	for _, c := range tr.calls {
		want[c] = true
	}
	if !want["KO>EN"] || !want["EN>KO"] || len(want) != 2 {
		t.Fatalf("translation directions: %v", tr.calls)
	}
}

func TestSameLanguageSkipsTranslation(t *testing.T) {
	tr := &echoTranslator{}
	p := New(sampleSource(), newClassifiers(t), Options{SourceLang: "en", PivotLang: "EN", Translator: tr})
	if _, err := p.Run(testCtx(t), "phone"); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(tr.calls) != 0 {
		t.Fatalf("translator called: %v", tr.calls)
	}
}

func TestCommentFailureLeavesCommentsEmpty(t *testing.T) {
	src := sampleSource()
	src.commentErr = errors.New("comments disabled")
	p := New(src, newClassifiers(t), Options{})
	reports, err := p.Run(testCtx(t), "phone")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(reports[0].Comments) != 0 || reports[0].Summary == "" {
		t.Fatalf("unexpected report: %+v", reports[0])
	}
}

func TestRunErrors(t *testing.T) {
	clf := newClassifiers(t)

	if _, err := New(sampleSource(), clf, Options{}).Run(testCtx(t), "  "); !manager.IsInvalidInput(err) {
		t.Fatalf("empty query: %v", err)
	}

	src := sampleSource()
	src.searchErr = &youtube.APIError{Status: 403}
	if _, err := New(src, clf, Options{}).Run(testCtx(t), "phone"); err == nil {
		t.Fatalf("expected search error")
	}

	tr := &echoTranslator{err: errors.New("quota")}
	if _, err := New(sampleSource(), clf, Options{SourceLang: "KO", PivotLang: "EN", Translator: tr}).Run(testCtx(t), "phone"); err == nil {
		t.Fatalf("expected translation error")
	}

	reports, err := New(sampleSource(), clf, Options{Store: failingStore{}}).Run(testCtx(t), "phone")
	if err == nil || len(reports) != 2 {
		t.Fatalf("store failure: reports=%d err=%v", len(reports), err)
	}
}

func TestMergeKeywords(t *testing.T) {
	got := mergeKeywords([][]classifier.Keyword{
		{{Text: "battery", Score: 1}, {Text: "camera", Score: 0.5}},
		{{Text: "battery", Score: 1}, {Text: "screen", Score: 0.5}},
	}, 2)
	if len(got) != 2 || got[0].Text != "battery" || got[0].Score != 1 {
		t.Fatalf("got %+v", got)
	}
	if got[1].Text != "camera" || got[1].Score != 0.25 {
		t.Fatalf("tie broken by text, score normalized: %+v", got[1])
	}
	if mergeKeywords(nil, 3) == nil || len(mergeKeywords(nil, 3)) != 0 {
		t.Fatalf("empty input")
	}
}
