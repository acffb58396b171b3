package e2e

import (
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"nlpd/internal/classifier"
	"nlpd/internal/manager"
	"nlpd/internal/worker"
	"nlpd/pkg/types"
)

// TestE2E_AllKindsAndRequestLog drives every endpoint through real workers
// and checks the request log recorded each call.
func TestE2E_AllKindsAndRequestLog(t *testing.T) {
	s := newStack(t, manager.ManagerConfig{Workers: 2}, nil)
	waitReady(t, s.mgr)

	var sr types.SentimentResponse
	if code := s.post(t, "/v1/sentiment", `{"texts":["great movie","awful plot"]}`, &sr); code != http.StatusOK {
		t.Fatalf("sentiment: %d", code)
	}
	if len(sr.Results) != 2 || sr.Results[0].Label != classifier.Positive || sr.Results[1].Label != classifier.Negative {
		t.Fatalf("sentiment results: %+v", sr.Results)
	}

	var sum types.SummarizeResponse
	if code := s.post(t, "/v1/summarize", `{"texts":["Go is fast. Go is simple. Rust is also fast."]}`, &sum); code != http.StatusOK || len(sum.Summaries) != 1 {
		t.Fatalf("summarize: %d %+v", code, sum)
	}

	var ans types.AnswerResponse
	body := `{"question":"Where is the cat?","context":"The dog sleeps. The cat sits on the mat.","top_k":2}`
	if code := s.post(t, "/v1/answer", body, &ans); code != http.StatusOK {
		t.Fatalf("answer: %d", code)
	}
	if len(ans.Answers) != 2 || ans.Answers[0].Answer != "The cat sits on the mat." {
		t.Fatalf("answers: %+v", ans.Answers)
	}

	var kw types.KeywordsResponse
	if code := s.post(t, "/v1/keywords", `{"texts":["battery life and screen quality"]}`, &kw); code != http.StatusOK || len(kw.Keywords) != 1 {
		t.Fatalf("keywords: %d %+v", code, kw)
	}

	var er types.ErrorResponse
	if code := s.post(t, "/v1/sentiment", `{"texts":[]}`, &er); code != http.StatusBadRequest {
		t.Fatalf("empty texts: %d", code)
	}

	var recs types.RequestsResponse
	if code := s.get(t, "/v1/requests?limit=10", &recs); code != http.StatusOK {
		t.Fatalf("requests: %d", code)
	}
	if len(recs.Requests) != 5 {
		t.Fatalf("logged %d requests, want 5", len(recs.Requests))
	}
	if recs.Requests[0].Outcome != "invalid" || recs.Requests[0].Kind != classifier.KindSentiment {
		t.Fatalf("newest record: %+v", recs.Requests[0])
	}
	if recs.Requests[0].ID == sr.ID {
		t.Fatalf("record ids should differ")
	}

	var st types.StatusResponse
	if code := s.get(t, "/status", &st); code != http.StatusOK || st.State != "ready" || len(st.Workers) != 8 {
		t.Fatalf("status: %d %+v", code, st)
	}
}

// gatedSentiment blocks every inference until release is closed.
func gatedSentiment(release <-chan struct{}) classifier.SentimentLoader {
	return func() (classifier.SentimentModel, error) {
		return worker.ModelFunc[[]string, []classifier.Sentiment](func(texts []string) ([]classifier.Sentiment, error) {
			<-release
			out := make([]classifier.Sentiment, len(texts))
			for i := range out {
				out[i] = classifier.Sentiment{Label: classifier.Positive, Score: 1}
			}
			return out, nil
		}), nil
	}
}

// TestE2E_Backpressure429 fills a one-slot queue and checks the next call
// is rejected once MaxWait elapses.
func TestE2E_Backpressure429(t *testing.T) {
	release := make(chan struct{})
	s := newStack(t, manager.ManagerConfig{QueueCapacity: 1, MaxWait: 20 * time.Millisecond}, gatedSentiment(release))
	waitReady(t, s.mgr)

	var wg sync.WaitGroup
	codes := make(chan int, 2)
	send := func() {
		defer wg.Done()
		codes <- s.post(t, "/v1/sentiment", `{"texts":["a"]}`, nil)
	}
	// One request in flight, one queued.
	wg.Add(1)
	go send()
	waitFor(t, func() bool { return workerStat(s).Inflight == 1 })
	wg.Add(1)
	go send()
	waitFor(t, func() bool { return workerStat(s).QueueLen == 1 })

	var er types.ErrorResponse
	if code := s.post(t, "/v1/sentiment", `{"texts":["a"]}`, &er); code != http.StatusTooManyRequests {
		t.Fatalf("got %d, want 429", code)
	}
	close(release)
	wg.Wait()
	close(codes)
	for c := range codes {
		if c != http.StatusOK {
			t.Fatalf("queued request finished with %d", c)
		}
	}
}

// TestE2E_LoadFailure503 checks a kind whose model failed to load answers
// 503 while the other kinds keep working.
func TestE2E_LoadFailure503(t *testing.T) {
	failing := func() (classifier.SentimentModel, error) { return nil, errors.New("weights missing") }
	s := newStack(t, manager.ManagerConfig{}, failing)

	waitFor(t, func() bool { return workerStat(s).State == string(worker.StateError) })
	var er types.ErrorResponse
	if code := s.post(t, "/v1/sentiment", `{"texts":["a"]}`, &er); code != http.StatusServiceUnavailable {
		t.Fatalf("got %d, want 503", code)
	}
	var sum types.SummarizeResponse
	if code := s.post(t, "/v1/summarize", `{"texts":["One sentence."]}`, &sum); code != http.StatusOK {
		t.Fatalf("summarize: %d", code)
	}
	if code := s.get(t, "/readyz", nil); code != http.StatusServiceUnavailable {
		t.Fatalf("readyz: %d", code)
	}
}

func workerStat(s *stack) types.WorkerStatus {
	for _, w := range s.mgr.Status().Workers {
		if w.Kind == classifier.KindSentiment {
			return w
		}
	}
	return types.WorkerStatus{}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met in time")
		}
		time.Sleep(time.Millisecond)
	}
}
