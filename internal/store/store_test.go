package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"nlpd/internal/classifier"
	"nlpd/pkg/types"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "db", "nlpd.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_ReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nlpd.db")
	ctx := context.Background()
	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.LogRequest(ctx, types.RequestRecord{Kind: "sentiment", Outcome: "ok"}); err != nil {
		t.Fatalf("log: %v", err)
	}
	_ = s.Close()

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.RecentRequests(ctx, "", 0)
	if err != nil || len(got) != 1 {
		t.Fatalf("want 1 request after reopen, got %d %v", len(got), err)
	}
}

func TestOpen_SchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nlpd.db")
	ctx := context.Background()
	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.db.ExecContext(ctx, "UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("update: %v", err)
	}
	_ = s.Close()
	if _, err := Open(ctx, path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("want ErrSchemaMismatch, got %v", err)
	}
}

func TestRequests_NewestFirstAndFiltered(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	kinds := []string{"sentiment", "summarization", "sentiment"}
	var ids []string
	for i, k := range kinds {
		rec, err := s.LogRequest(ctx, types.RequestRecord{Kind: k, Inputs: i + 1, Outcome: "ok", DurationMS: 5})
		if err != nil {
			t.Fatalf("log: %v", err)
		}
		ids = append(ids, rec.ID)
		time.Sleep(2 * time.Millisecond)
	}
	if _, err := s.LogRequest(ctx, types.RequestRecord{Kind: "keyword_extraction", Outcome: "error", Error: "boom"}); err != nil {
		t.Fatalf("log: %v", err)
	}

	all, err := s.RecentRequests(ctx, "", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(all) != 4 || all[0].Error != "boom" || all[0].Outcome != "error" {
		t.Fatalf("unexpected order or fields: %+v", all)
	}
	sent, err := s.RecentRequests(ctx, "sentiment", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(sent) != 2 || sent[0].ID != ids[2] || sent[1].ID != ids[0] {
		t.Fatalf("unexpected sentiment requests: %+v", sent)
	}
	if sent[0].CreatedAt.IsZero() || sent[0].Inputs != 3 {
		t.Fatalf("fields not round-tripped: %+v", sent[0])
	}
	limited, _ := s.RecentRequests(ctx, "", 1)
	if len(limited) != 1 {
		t.Fatalf("limit ignored: %d", len(limited))
	}
}

func TestAnalyses_SaveGetList(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	r := &types.Report{
		Query:              "camera",
		VideoID:            "abc",
		Title:              "Review",
		Summary:            "요약",
		TranscriptKeywords: []classifier.Keyword{{Text: "lens", Score: 1}},
		Comments:           []types.CommentSentiment{{Text: "좋아요", Label: classifier.Positive, Score: 0.9}},
		Positive:           1,
	}
	if err := s.SaveAnalysis(ctx, r); err != nil {
		t.Fatalf("save: %v", err)
	}
	if r.ID == "" || r.CreatedAt.IsZero() {
		t.Fatalf("id or time not assigned: %+v", r)
	}
	got, err := s.GetAnalysis(ctx, r.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Summary != "요약" || len(got.Comments) != 1 || got.TranscriptKeywords[0].Text != "lens" {
		t.Fatalf("unexpected report: %+v", got)
	}

	other := &types.Report{Query: "phone", VideoID: "xyz"}
	if err := s.SaveAnalysis(ctx, other); err != nil {
		t.Fatalf("save: %v", err)
	}
	list, err := s.ListAnalyses(ctx, "camera", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].VideoID != "abc" {
		t.Fatalf("unexpected list: %+v", list)
	}
	all, _ := s.ListAnalyses(ctx, "", 0)
	if len(all) != 2 {
		t.Fatalf("want 2 analyses, got %d", len(all))
	}

	if _, err := s.GetAnalysis(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	if _, err := s.LogRequest(context.Background(), types.RequestRecord{Kind: "k", Outcome: "ok"}); err != nil {
		t.Fatalf("log: %v", err)
	}
}
