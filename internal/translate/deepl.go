// Package translate implements batch translation through the DeepL API.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

const (
	DefaultURL = "https://api-free.deepl.com"
	// maxBatch is the number of texts DeepL accepts in one request.
	maxBatch = 50
)

// ErrNoAPIKey is returned when no DeepL key is configured.
var ErrNoAPIKey = errors.New("translate: DeepL API key not configured")

// Error is a non-2xx DeepL response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("translate: deepl status %d: %s", e.Status, e.Message)
}

// Options configure a DeepL client.
type Options struct {
	APIKey     string
	URL        string
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// DeepL translates texts. It is safe for concurrent use.
type DeepL struct {
	key string
	url string
	hc  *http.Client
	log zerolog.Logger
}

// NewDeepL returns a DeepL client.
func NewDeepL(o Options) *DeepL {
	d := &DeepL{key: o.APIKey, url: strings.TrimRight(o.URL, "/"), hc: o.HTTPClient, log: zerolog.Nop()}
	if d.url == "" {
		d.url = DefaultURL
	}
	if d.hc == nil {
		d.hc = http.DefaultClient
	}
	if o.Logger != nil {
		d.log = *o.Logger
	}
	d.log = d.log.With().Str("component", "deepl").Logger()
	return d
}

type request struct {
	Text       []string `json:"text"`
	SourceLang string   `json:"source_lang,omitempty"`
	TargetLang string   `json:"target_lang"`
}

type response struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
	Message string `json:"message"`
}

// Translate returns the translations of texts from source to target, in
// order. Blank texts translate to "" without being sent. An empty source
// lets DeepL detect the language.
func (d *DeepL) Translate(ctx context.Context, texts []string, source, target string) ([]string, error) {
	out := make([]string, len(texts))
	var (
		idx   []int
		batch []string
	)
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		idx = append(idx, i)
		batch = append(batch, t)
	}
	if len(batch) == 0 {
		return out, nil
	}
	if d.key == "" {
		return nil, ErrNoAPIKey
	}
	for lo := 0; lo < len(batch); lo += maxBatch {
		hi := min(lo+maxBatch, len(batch))
		got, err := d.call(ctx, batch[lo:hi], source, target)
		if err != nil {
			return nil, err
		}
		for j, s := range got {
			out[idx[lo+j]] = s
		}
	}
	d.log.Debug().Int("texts", len(batch)).Str("source", source).Str("target", target).Msg("translated")
	return out, nil
}

// TranslateOne translates a single text.
func (d *DeepL) TranslateOne(ctx context.Context, text, source, target string) (string, error) {
	out, err := d.Translate(ctx, []string{text}, source, target)
	if err != nil {
		return "", err
	}
	return out[0], nil
}

func (d *DeepL) call(ctx context.Context, texts []string, source, target string) ([]string, error) {
	body, err := json.Marshal(request{Text: texts, SourceLang: strings.ToUpper(source), TargetLang: strings.ToUpper(target)})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url+"/v2/translate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+d.key)
	req.Header.Set("Content-Type", "application/json")
	resp, err := d.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("translate: read body: %w", err)
	}
	var r response
	jerr := json.Unmarshal(raw, &r)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := r.Message
		if jerr != nil || msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return nil, &Error{Status: resp.StatusCode, Message: msg}
	}
	if jerr != nil {
		return nil, fmt.Errorf("translate: decode: %w", jerr)
	}
	if len(r.Translations) != len(texts) {
		return nil, fmt.Errorf("translate: got %d translations for %d texts", len(r.Translations), len(texts))
	}
	out := make([]string, len(texts))
	for i, t := range r.Translations {
		out[i] = t.Text
	}
	return out, nil
}
