package manager

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"nlpd/internal/classifier"
	"nlpd/internal/worker"
	"nlpd/pkg/types"
)

type Manager struct {
	backend  string
	registry []types.Model
	assigned map[string]string
	log      zerolog.Logger
	pub      worker.EventPublisher
	requests RequestLog

	sentiment     *worker.Pool[[]string, []classifier.Sentiment]
	summarization *worker.Pool[[]string, []string]
	qa            *worker.Pool[classifier.QAInput, []classifier.Answer]
	keywords      *worker.Pool[[]string, [][]classifier.Keyword]

	sentimentClf     *classifier.SentimentClassifier
	summarizationClf *classifier.SummarizationClassifier
	qaClf            *classifier.QuestionAnsweringClassifier
	keywordsClf      *classifier.KeywordExtractionClassifier

	startTime time.Time

	mu     sync.RWMutex
	closed bool
}

// NewWithConfig spawns cfg.Workers workers per model kind and returns at
// once; models load in the background. Use Ready or WaitReady to observe
// loading.
func NewWithConfig(cfg ManagerConfig) *Manager {
	cfg = cfg.withDefaults()
	log := cfg.Logger.With().Str("component", "manager").Logger()
	m := &Manager{
		backend:   cfg.Backend,
		registry:  cfg.Registry,
		assigned:  cfg.Assigned,
		log:       log,
		pub:       cfg.Publisher,
		requests:  cfg.Requests,
		startTime: time.Now(),
	}
	if m.pub == nil {
		m.pub = worker.PublisherFunc(func(worker.Event) {})
	}
	wl := cfg.Logger.With().Str("component", "worker").Logger()
	wc := cfg.workerConfig(wl)

	m.sentiment = worker.SpawnPool(classifier.KindSentiment, cfg.Workers, cfg.Loaders.Sentiment, wc)
	m.summarization = worker.SpawnPool(classifier.KindSummarization, cfg.Workers, cfg.Loaders.Summarization, wc)
	m.qa = worker.SpawnPool(classifier.KindQuestionAnswering, cfg.Workers, cfg.Loaders.QuestionAnswering, wc)
	m.keywords = worker.SpawnPool(classifier.KindKeywords, cfg.Workers, cfg.Loaders.Keywords, wc)

	m.sentimentClf = classifier.NewSentiment(m.sentiment)
	m.summarizationClf = classifier.NewSummarization(m.summarization)
	m.qaClf = classifier.NewQuestionAnswering(m.qa)
	m.keywordsClf = classifier.NewKeywordExtraction(m.keywords)

	log.Info().Str("backend", cfg.Backend).Int("workers_per_kind", cfg.Workers).
		Int("queue_capacity", cfg.QueueCapacity).Msg("workers spawned")
	return m
}

// Classifiers is a set of independent classifier references. The owner
// must Close it; the workers keep running for the Manager.
type Classifiers struct {
	Sentiment         *classifier.SentimentClassifier
	Summarization     *classifier.SummarizationClassifier
	QuestionAnswering *classifier.QuestionAnsweringClassifier
	Keywords          *classifier.KeywordExtractionClassifier
}

// Close releases the references.
func (c Classifiers) Close() error {
	return errors.Join(c.Sentiment.Close(), c.Summarization.Close(), c.QuestionAnswering.Close(), c.Keywords.Close())
}

// Classifiers returns cloned references to every pool.
func (m *Manager) Classifiers() Classifiers {
	return Classifiers{
		Sentiment:         m.sentimentClf.Clone(),
		Summarization:     m.summarizationClf.Clone(),
		QuestionAnswering: m.qaClf.Clone(),
		Keywords:          m.keywordsClf.Clone(),
	}
}

func (m *Manager) lifecycles() []*worker.Lifecycle {
	var out []*worker.Lifecycle
	out = append(out, m.sentiment.Lifecycles()...)
	out = append(out, m.summarization.Lifecycles()...)
	out = append(out, m.qa.Lifecycles()...)
	out = append(out, m.keywords.Lifecycles()...)
	return out
}

// Ready reports whether every model kind has at least one ready worker.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return false
	}
	ready := make(map[string]bool)
	for _, l := range m.lifecycles() {
		if l.State() == worker.StateReady {
			ready[l.Kind()] = true
		}
	}
	return len(ready) == len(classifier.Kinds)
}

// WaitReady blocks until every worker has loaded its model. It returns the
// first load failure, or ctx's error.
func (m *Manager) WaitReady(ctx context.Context) error {
	for _, l := range m.lifecycles() {
		select {
		case <-l.Ready():
		case <-l.Done():
			if err := l.Err(); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close stops accepting calls, lets workers drain their queues and waits
// for them to exit or for ctx to end. The returned error joins worker
// failures observed during the run.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	_ = m.sentimentClf.Close()
	_ = m.summarizationClf.Close()
	_ = m.qaClf.Close()
	_ = m.keywordsClf.Close()

	err := errors.Join(
		m.sentiment.Wait(ctx),
		m.summarization.Wait(ctx),
		m.qa.Wait(ctx),
		m.keywords.Wait(ctx),
	)
	m.log.Info().Err(err).Msg("workers stopped")
	return err
}

func (m *Manager) isClosed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}
