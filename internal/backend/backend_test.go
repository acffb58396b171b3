package backend

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"nlpd/internal/classifier"
	"nlpd/internal/registry"
)

func TestNew_LexiconDefault(t *testing.T) {
	l, err := New(Options{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	m, err := l.Sentiment()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := m.Infer([]string{"great movie"})
	if err != nil || len(got) != 1 || got[0].Label != classifier.Positive {
		t.Fatalf("unexpected %+v %v", got, err)
	}
	if l.Summarization == nil || l.QuestionAnswering == nil || l.Keywords == nil {
		t.Fatal("missing loaders")
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	if _, err := New(Options{Name: "onnx"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestNew_LlamaResolvesModels(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"sst2.gguf", "bart.gguf", "squad.gguf", "kw.gguf"} {
		if err := os.WriteFile(filepath.Join(dir, f), nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	models := map[string]string{
		classifier.KindSentiment:         "sst2",
		classifier.KindSummarization:     "bart.gguf",
		classifier.KindQuestionAnswering: "squad",
		classifier.KindKeywords:          "kw",
	}
	l, err := New(Options{Name: "llama", ModelsDir: dir, Models: models})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if l.Sentiment == nil || l.Keywords == nil {
		t.Fatal("missing loaders")
	}

	delete(models, classifier.KindKeywords)
	if _, err := New(Options{Name: "llama", ModelsDir: dir, Models: models}); !errors.Is(err, registry.ErrModelNotFound) {
		t.Fatalf("want ErrModelNotFound, got %v", err)
	}
}

func TestAvailable_IncludesLexicon(t *testing.T) {
	if got := Available(); len(got) == 0 || got[0] != Lexicon {
		t.Fatalf("unexpected %v", got)
	}
}
