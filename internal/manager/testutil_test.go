package manager

import (
	"context"
	"sync"
	"testing"
	"time"

	"nlpd/internal/backend"
	"nlpd/internal/classifier"
	"nlpd/internal/worker"
	"nlpd/pkg/types"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// lexiconLoaders returns the default loaders, with sentiment replaced when
// sentiment is non-nil.
func lexiconLoaders(t *testing.T, sentiment classifier.SentimentLoader) backend.Loaders {
	t.Helper()
	l, err := backend.New(backend.Options{})
	if err != nil {
		t.Fatalf("backend: %v", err)
	}
	if sentiment != nil {
		l.Sentiment = sentiment
	}
	return l
}

func newManager(t *testing.T, cfg ManagerConfig) *Manager {
	t.Helper()
	if cfg.Loaders.Sentiment == nil {
		cfg.Loaders = lexiconLoaders(t, nil)
	}
	m := NewWithConfig(cfg)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.Close(ctx)
	})
	return m
}

// gatedSentiment blocks every inference until the gate is closed.
func gatedSentiment(gate <-chan struct{}) classifier.SentimentLoader {
	return func() (classifier.SentimentModel, error) {
		return worker.ModelFunc[[]string, []classifier.Sentiment](func(texts []string) ([]classifier.Sentiment, error) {
			<-gate
			out := make([]classifier.Sentiment, len(texts))
			for i := range out {
				out[i] = classifier.Sentiment{Label: classifier.Positive, Score: 1}
			}
			return out, nil
		}), nil
	}
}

type memoryLog struct {
	mu   sync.Mutex
	recs []types.RequestRecord
}

func (l *memoryLog) LogRequest(_ context.Context, rec types.RequestRecord) (types.RequestRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recs = append(l.recs, rec)
	return rec, nil
}

func (l *memoryLog) records() []types.RequestRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]types.RequestRecord(nil), l.recs...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
