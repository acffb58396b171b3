//go:build !llama

package llama

import (
	"errors"
	"testing"
)

func TestLoaders_FailWithoutLlamaTag(t *testing.T) {
	if Built {
		t.Fatal("stub build reports llama support")
	}
	if _, err := SentimentLoader("/models/x.gguf", Options{})(); !errors.Is(err, ErrNotBuilt) {
		t.Fatalf("want ErrNotBuilt, got %v", err)
	}
	if _, err := KeywordLoader("/models/x.gguf", Options{})(); !errors.Is(err, ErrNotBuilt) {
		t.Fatalf("want ErrNotBuilt, got %v", err)
	}
}
