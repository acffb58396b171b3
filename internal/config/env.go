package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ApplyEnv overlays NLPD_* variables plus YOUTUBE_API_KEY and DEEPL_API_KEY
// onto c. Unset variables leave fields untouched.
func (c Config) ApplyEnv() (Config, error) {
	return c.applyEnv(os.LookupEnv)
}

func (c Config) applyEnv(lookup func(string) (string, bool)) (Config, error) {
	strs := map[string]*string{
		"NLPD_ADDR":                &c.Addr,
		"NLPD_BACKEND":             &c.Backend,
		"NLPD_MODELS_DIR":          &c.ModelsDir,
		"NLPD_SENTIMENT_MODEL":     &c.SentimentModel,
		"NLPD_SUMMARIZATION_MODEL": &c.SummarizationModel,
		"NLPD_QA_MODEL":            &c.QAModel,
		"NLPD_KEYWORD_MODEL":       &c.KeywordModel,
		"NLPD_FAILURE_POLICY":      &c.FailurePolicy,
		"NLPD_DISPATCH":            &c.Dispatch,
		"NLPD_LOG_LEVEL":           &c.LogLevel,
		"NLPD_LOG_FORMAT":          &c.LogFormat,
		"NLPD_DB_PATH":             &c.DBPath,
		"NLPD_NATS_URL":            &c.NATSURL,
		"NLPD_NATS_SUBJECT_PREFIX": &c.NATSSubjectPrefix,
		"NLPD_NATS_QUEUE_GROUP":    &c.NATSQueueGroup,
		"NLPD_DEEPL_URL":           &c.DeepLURL,
		"NLPD_SOURCE_LANG":         &c.SourceLang,
		"NLPD_PIVOT_LANG":          &c.PivotLang,
		"NLPD_CAPTION_LANG":        &c.CaptionLang,
		"NLPD_QUESTION":            &c.Question,
		"YOUTUBE_API_KEY":          &c.YouTubeAPIKey,
		"DEEPL_API_KEY":            &c.DeepLAPIKey,
	}
	for k, p := range strs {
		if v, ok := lookup(k); ok {
			*p = v
		}
	}
	ints := map[string]*int{
		"NLPD_LLAMA_CTX":          &c.LlamaCtx,
		"NLPD_LLAMA_THREADS":      &c.LlamaThreads,
		"NLPD_WORKERS":            &c.Workers,
		"NLPD_QUEUE_CAPACITY":     &c.QueueCapacity,
		"NLPD_MAX_WAIT_MS":        &c.MaxWaitMS,
		"NLPD_MAX_VIDEOS":         &c.MaxVideos,
		"NLPD_MAX_COMMENTS":       &c.MaxComments,
		"NLPD_REQUEST_TIMEOUT_MS": &c.RequestTimeoutMS,
	}
	for k, p := range ints {
		v, ok := lookup(k)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return c, fmt.Errorf("%s: %w", k, err)
		}
		*p = n
	}
	if v, ok := lookup("NLPD_MAX_BODY_BYTES"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return c, fmt.Errorf("NLPD_MAX_BODY_BYTES: %w", err)
		}
		c.MaxBodyBytes = n
	}
	if v, ok := lookup("NLPD_CORS_ENABLED"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return c, fmt.Errorf("NLPD_CORS_ENABLED: %w", err)
		}
		c.CORSEnabled = b
	}
	if v, ok := lookup("NLPD_CORS_ALLOWED_ORIGINS"); ok {
		c.CORSAllowedOrigins = SplitCSV(v)
	}
	return c, nil
}

// SplitCSV splits a comma separated list, dropping blanks.
func SplitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
