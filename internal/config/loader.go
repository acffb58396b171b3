// Package config loads nlpd settings from YAML, JSON or TOML files and the
// environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are replaced by WithDefaults.
type Config struct {
	Addr string `json:"addr" yaml:"addr" toml:"addr"`

	// Model backend: "lexicon" or "llama".
	Backend            string `json:"backend" yaml:"backend" toml:"backend"`
	ModelsDir          string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	SentimentModel     string `json:"sentiment_model" yaml:"sentiment_model" toml:"sentiment_model"`
	SummarizationModel string `json:"summarization_model" yaml:"summarization_model" toml:"summarization_model"`
	QAModel            string `json:"qa_model" yaml:"qa_model" toml:"qa_model"`
	KeywordModel       string `json:"keyword_model" yaml:"keyword_model" toml:"keyword_model"`
	LlamaCtx           int    `json:"llama_ctx" yaml:"llama_ctx" toml:"llama_ctx"`
	LlamaThreads       int    `json:"llama_threads" yaml:"llama_threads" toml:"llama_threads"`
	SummarySentences   int    `json:"summary_sentences" yaml:"summary_sentences" toml:"summary_sentences"`
	MaxKeywords        int    `json:"max_keywords" yaml:"max_keywords" toml:"max_keywords"`

	// Workers per model kind.
	Workers       int    `json:"workers" yaml:"workers" toml:"workers"`
	QueueCapacity int    `json:"queue_capacity" yaml:"queue_capacity" toml:"queue_capacity"`
	MaxWaitMS     int    `json:"max_wait_ms" yaml:"max_wait_ms" toml:"max_wait_ms"`
	FailurePolicy string `json:"failure_policy" yaml:"failure_policy" toml:"failure_policy"`
	Dispatch      string `json:"dispatch" yaml:"dispatch" toml:"dispatch"`

	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format"`

	// SQLite file for the request log and analyses; empty disables storage.
	DBPath string `json:"db_path" yaml:"db_path" toml:"db_path"`

	// NATS is enabled when NATSURL is set.
	NATSURL           string `json:"nats_url" yaml:"nats_url" toml:"nats_url"`
	NATSSubjectPrefix string `json:"nats_subject_prefix" yaml:"nats_subject_prefix" toml:"nats_subject_prefix"`
	NATSQueueGroup    string `json:"nats_queue_group" yaml:"nats_queue_group" toml:"nats_queue_group"`

	YouTubeAPIKey string `json:"youtube_api_key" yaml:"youtube_api_key" toml:"youtube_api_key"`
	DeepLAPIKey   string `json:"deepl_api_key" yaml:"deepl_api_key" toml:"deepl_api_key"`
	DeepLURL      string `json:"deepl_url" yaml:"deepl_url" toml:"deepl_url"`
	SourceLang    string `json:"source_lang" yaml:"source_lang" toml:"source_lang"`
	PivotLang     string `json:"pivot_lang" yaml:"pivot_lang" toml:"pivot_lang"`
	CaptionLang   string `json:"caption_lang" yaml:"caption_lang" toml:"caption_lang"`
	MaxVideos     int    `json:"max_videos" yaml:"max_videos" toml:"max_videos"`
	MaxComments   int    `json:"max_comments" yaml:"max_comments" toml:"max_comments"`
	Question      string `json:"question" yaml:"question" toml:"question"`

	CORSEnabled        bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins"`
	MaxBodyBytes       int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	RequestTimeoutMS   int      `json:"request_timeout_ms" yaml:"request_timeout_ms" toml:"request_timeout_ms"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}
