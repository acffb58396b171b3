package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"nlpd/internal/backend"
	"nlpd/internal/classifier"
	"nlpd/internal/httpapi"
	"nlpd/internal/manager"
	"nlpd/internal/store"
)

type stack struct {
	srv   *httptest.Server
	mgr   *manager.Manager
	store *store.Store
}

// newStack wires the lexicon backend, a manager, a sqlite store and the HTTP
// router. sentiment replaces the sentiment loader when non-nil.
func newStack(t *testing.T, cfg manager.ManagerConfig, sentiment classifier.SentimentLoader) *stack {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "nlpd.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	l, err := backend.New(backend.Options{})
	if err != nil {
		t.Fatalf("backend: %v", err)
	}
	if sentiment != nil {
		l.Sentiment = sentiment
	}
	cfg.Loaders = l
	cfg.Requests = st
	mgr := manager.NewWithConfig(cfg)
	srv := httptest.NewServer(httpapi.NewMux(mgr, st))
	t.Cleanup(func() {
		srv.Close()
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mgr.Close(cctx)
		_ = st.Close()
	})
	return &stack{srv: srv, mgr: mgr, store: st}
}

func (s *stack) post(t *testing.T, path, body string, out any) int {
	t.Helper()
	resp, err := http.Post(s.srv.URL+path, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	defer resp.Body.Close()
	decode(t, resp.Body, out)
	return resp.StatusCode
}

func (s *stack) get(t *testing.T, path string, out any) int {
	t.Helper()
	resp, err := http.Get(s.srv.URL + path)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	defer resp.Body.Close()
	decode(t, resp.Body, out)
	return resp.StatusCode
}

func decode(t *testing.T, r io.Reader, out any) {
	t.Helper()
	if out == nil {
		_, _ = io.Copy(io.Discard, r)
		return
	}
	if err := json.NewDecoder(r).Decode(out); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func waitReady(t *testing.T, m *manager.Manager) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.WaitReady(ctx); err != nil {
		t.Fatalf("wait ready: %v", err)
	}
}
