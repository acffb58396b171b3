//go:build llama

package llama

import (
	"errors"
	"strings"

	gollama "github.com/go-skynet/go-llama.cpp"
)

// Built reports whether this binary links llama.cpp.
const Built = true

type session struct {
	model   *gollama.LLama
	threads int
}

func open(path string, o Options) (completer, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("model path is empty")
	}
	mo := []gollama.ModelOption{}
	if o.CtxSize > 0 {
		mo = append(mo, gollama.SetContext(o.CtxSize))
	}
	m, err := gollama.New(path, mo...)
	if err != nil {
		return nil, err
	}
	return &session{model: m, threads: o.Threads}, nil
}

func (s *session) complete(prompt string, maxTokens int) (string, error) {
	if s.model == nil {
		return "", errors.New("llama model not initialized")
	}
	return s.model.Predict(prompt,
		gollama.SetTokens(max(1, maxTokens)),
		gollama.SetThreads(max(1, s.threads)),
		gollama.SetTemperature(0),
		gollama.SetTopK(gollama.DefaultOptions.TopK),
		gollama.SetTopP(gollama.DefaultOptions.TopP),
		gollama.SetPenalty(gollama.DefaultOptions.Penalty),
		gollama.SetStopWords("\n\n"),
	)
}

func (s *session) Close() error {
	if s.model != nil {
		s.model.Free()
		s.model = nil
	}
	return nil
}
