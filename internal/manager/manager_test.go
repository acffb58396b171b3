package manager

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"nlpd/internal/classifier"
	"nlpd/internal/worker"
	"nlpd/pkg/types"
)

func TestManager_AllKindsWithLexicon(t *testing.T) {
	m := newManager(t, ManagerConfig{Workers: 2})
	ctx := testCtx(t)
	if err := m.WaitReady(ctx); err != nil {
		t.Fatalf("wait ready: %v", err)
	}
	if !m.Ready() {
		t.Fatal("expected ready")
	}

	s, err := m.Sentiment(ctx, []string{"great movie", "awful movie"})
	if err != nil {
		t.Fatalf("sentiment: %v", err)
	}
	if s.ID == "" || len(s.Results) != 2 || s.Results[0].Label != classifier.Positive || s.Results[1].Label != classifier.Negative {
		t.Fatalf("unexpected sentiment: %+v", s)
	}

	sum, err := m.Summarize(ctx, []string{"One. Two."})
	if err != nil || len(sum.Summaries) != 1 {
		t.Fatalf("summarize: %+v %v", sum, err)
	}

	a, err := m.Answer(ctx, types.AnswerRequest{Question: "Which color?", Context: "The sky is blue. Grass is green. The color of the car is red.", TopK: 2})
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if len(a.Answers) != 2 || !strings.Contains(a.Answers[0].Answer, "color") {
		t.Fatalf("unexpected answers: %+v", a.Answers)
	}

	k, err := m.Keywords(ctx, []string{"Go channels make concurrent programs simple."})
	if err != nil || len(k.Keywords) != 1 || len(k.Keywords[0]) == 0 {
		t.Fatalf("keywords: %+v %v", k, err)
	}

	st := m.Status()
	if st.State != StateReady || len(st.Workers) != 8 || st.Backend != "lexicon" {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestManager_InvalidInput(t *testing.T) {
	m := newManager(t, ManagerConfig{})
	ctx := testCtx(t)
	if _, err := m.Sentiment(ctx, nil); !IsInvalidInput(err) {
		t.Fatalf("want invalid input, got %v", err)
	}
	if _, err := m.Keywords(ctx, []string{"ok", "  "}); !IsInvalidInput(err) {
		t.Fatalf("want invalid input for blank text, got %v", err)
	}
	if _, err := m.Answer(ctx, types.AnswerRequest{Question: "", Context: "x"}); !IsInvalidInput(err) {
		t.Fatalf("want invalid input for empty question, got %v", err)
	}
	if _, err := m.Answer(ctx, types.AnswerRequest{Question: "q", Context: "x", TopK: -1}); !IsInvalidInput(err) {
		t.Fatalf("want invalid input for negative top_k, got %v", err)
	}
}

func TestManager_LoadFailure(t *testing.T) {
	failing := classifier.SentimentLoader(func() (classifier.SentimentModel, error) {
		return nil, errors.New("weights missing")
	})
	m := newManager(t, ManagerConfig{Loaders: lexiconLoaders(t, failing)})
	ctx := testCtx(t)

	err := m.WaitReady(ctx)
	if !worker.IsLoadError(err) {
		t.Fatalf("want load error, got %v", err)
	}
	if m.Ready() {
		t.Fatal("manager must not be ready without a sentiment worker")
	}
	if _, err := m.Sentiment(ctx, []string{"x"}); !IsWorkerGone(err) {
		t.Fatalf("want worker gone, got %v", err)
	}
	if _, err := m.Keywords(ctx, []string{"other kinds still work"}); err != nil {
		t.Fatalf("keywords: %v", err)
	}
	st := m.Status()
	if st.State != StateError || !strings.Contains(st.LastError, "weights missing") {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestManager_TooBusy(t *testing.T) {
	gate := make(chan struct{})
	m := newManager(t, ManagerConfig{
		Loaders:       lexiconLoaders(t, gatedSentiment(gate)),
		QueueCapacity: 1,
		MaxWait:       20 * time.Millisecond,
	})
	ctx := testCtx(t)
	if err := m.WaitReady(ctx); err != nil {
		t.Fatalf("wait ready: %v", err)
	}

	errs := make(chan error, 2)
	send := func() {
		_, err := m.Sentiment(ctx, []string{"x"})
		errs <- err
	}
	// One request is in the model, one waits in the queue.
	go send()
	waitFor(t, func() bool { return m.Status().Workers[0].Inflight == 1 })
	go send()
	waitFor(t, func() bool { return m.Status().Workers[0].QueueLen == 1 })
	if _, err := m.Sentiment(ctx, []string{"x"}); !IsTooBusy(err) {
		t.Fatalf("want too busy, got %v", err)
	}
	close(gate)
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			t.Fatalf("queued call: %v", err)
		}
	}
}

func TestManager_InferenceFailureThenWorkerGone(t *testing.T) {
	failing := classifier.SentimentLoader(func() (classifier.SentimentModel, error) {
		return worker.ModelFunc[[]string, []classifier.Sentiment](func([]string) ([]classifier.Sentiment, error) {
			return nil, errors.New("tensor shape")
		}), nil
	})
	m := newManager(t, ManagerConfig{Loaders: lexiconLoaders(t, failing)})
	ctx := testCtx(t)

	_, err := m.Sentiment(ctx, []string{"x"})
	if !IsInferenceFailure(err) || IsWorkerGone(err) {
		t.Fatalf("want inference failure only, got %v", err)
	}
	_, err = m.Sentiment(ctx, []string{"x"})
	if !IsWorkerGone(err) {
		t.Fatalf("fail-fast worker should be gone, got %v", err)
	}
}

func TestManager_IsolatePolicyKeepsServing(t *testing.T) {
	calls := 0
	flaky := classifier.SentimentLoader(func() (classifier.SentimentModel, error) {
		return worker.ModelFunc[[]string, []classifier.Sentiment](func(texts []string) ([]classifier.Sentiment, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("first call fails")
			}
			return []classifier.Sentiment{{Label: classifier.Negative, Score: 0.7}}, nil
		}), nil
	})
	m := newManager(t, ManagerConfig{Loaders: lexiconLoaders(t, flaky), FailurePolicy: worker.Isolate})
	ctx := testCtx(t)
	if _, err := m.Sentiment(ctx, []string{"x"}); !IsInferenceFailure(err) {
		t.Fatalf("want inference failure, got %v", err)
	}
	res, err := m.Sentiment(ctx, []string{"x"})
	if err != nil || res.Results[0].Label != classifier.Negative {
		t.Fatalf("isolated worker should keep serving: %+v %v", res, err)
	}
}

func TestManager_RequestLogAndEvents(t *testing.T) {
	log := &memoryLog{}
	pub := worker.NewMemoryPublisher()
	m := newManager(t, ManagerConfig{Requests: log, Publisher: pub})
	ctx := testCtx(t)
	if _, err := m.Sentiment(ctx, []string{"fine"}); err != nil {
		t.Fatalf("sentiment: %v", err)
	}
	_, _ = m.Summarize(ctx, nil)

	recs := log.records()
	if len(recs) != 2 {
		t.Fatalf("want 2 records, got %+v", recs)
	}
	if recs[0].Kind != classifier.KindSentiment || recs[0].Outcome != "ok" || recs[0].Inputs != 1 {
		t.Fatalf("unexpected first record: %+v", recs[0])
	}
	if recs[1].Outcome != "invalid" || recs[1].Error == "" {
		t.Fatalf("unexpected second record: %+v", recs[1])
	}
	found := false
	for _, n := range pub.Names() {
		if n == "request_done" {
			found = true
		}
	}
	if !found {
		t.Fatalf("request_done not published: %v", pub.Names())
	}
}

func TestManager_ClassifiersAreIndependent(t *testing.T) {
	m := newManager(t, ManagerConfig{})
	ctx := testCtx(t)
	c := m.Classifiers()
	if _, err := c.Sentiment.Predict(ctx, []string{"good"}); err != nil {
		t.Fatalf("clone predict: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close clones: %v", err)
	}
	if _, err := m.Sentiment(ctx, []string{"good"}); err != nil {
		t.Fatalf("manager must keep serving after clones close: %v", err)
	}
}

func TestManager_Close(t *testing.T) {
	m := NewWithConfig(ManagerConfig{Loaders: lexiconLoaders(t, nil)})
	ctx := testCtx(t)
	if err := m.WaitReady(ctx); err != nil {
		t.Fatalf("wait ready: %v", err)
	}
	if err := m.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := m.Close(ctx); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, err := m.Sentiment(ctx, []string{"x"}); !errors.Is(err, ErrClosed) || !IsWorkerGone(err) {
		t.Fatalf("want ErrClosed, got %v", err)
	}
	if m.Ready() || m.Status().State != StateStopped {
		t.Fatalf("closed manager reports %+v", m.Status())
	}
	for _, w := range m.Status().Workers {
		if w.State != string(worker.StateStopped) {
			t.Fatalf("worker not stopped: %+v", w)
		}
	}
}

func TestOutcome(t *testing.T) {
	cases := map[string]error{
		"ok":              nil,
		"too_busy":        worker.ErrQueueFull,
		"worker_gone":     worker.ErrWorkerGone,
		"inference_error": &worker.InferenceError{Kind: "k", Err: errors.New("x")},
		"invalid":         ErrInvalidInput("x"),
		"deadline":        context.DeadlineExceeded,
		"canceled":        context.Canceled,
		"error":           errors.New("other"),
	}
	for want, err := range cases {
		if got := outcome(err); got != want {
			t.Fatalf("%v: want %s, got %s", err, want, got)
		}
	}
}

func TestListModels(t *testing.T) {
	m := newManager(t, ManagerConfig{
		Backend:  "llama",
		Registry: []types.Model{{ID: "a.gguf"}},
		Assigned: map[string]string{classifier.KindSentiment: "a"},
	})
	got := m.ListModels()
	if got.Backend != "llama" || len(got.Models) != 1 || got.Assigned[classifier.KindSentiment] != "a" {
		t.Fatalf("unexpected %+v", got)
	}
	got.Models[0].ID = "mutated"
	if m.ListModels().Models[0].ID != "a.gguf" {
		t.Fatal("ListModels must return a copy")
	}
}
