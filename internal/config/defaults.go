package config

import "runtime"

const (
	DefaultAddr           = ":8080"
	DefaultBackend        = "lexicon"
	DefaultModelsDir      = "~/models/nlpd"
	DefaultLlamaCtx       = 2048
	DefaultWorkers        = 1
	DefaultQueueCapacity  = 100
	DefaultFailurePolicy  = "fail_fast"
	DefaultDispatch       = "round_robin"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultSubjectPrefix  = "nlpd"
	DefaultQueueGroup     = "nlpd"
	DefaultDeepLURL       = "https://api-free.deepl.com"
	DefaultSourceLang     = "KO"
	DefaultPivotLang      = "EN"
	DefaultCaptionLang    = "ko"
	DefaultMaxVideos      = 10
	DefaultMaxComments    = 100
	DefaultQuestion       = "What is the theme and conclusion of the video?"
	DefaultMaxBodyBytes   = 1 << 20
	DefaultSummarySents   = 3
	DefaultMaxKeywords    = 10
	defaultMaxLlamaThread = 8
)

// Default returns a configuration with every default applied.
func Default() Config {
	return Config{}.WithDefaults()
}

// WithDefaults fills unspecified fields.
func (c Config) WithDefaults() Config {
	setStr(&c.Addr, DefaultAddr)
	setStr(&c.Backend, DefaultBackend)
	setStr(&c.ModelsDir, DefaultModelsDir)
	setInt(&c.LlamaCtx, DefaultLlamaCtx)
	setInt(&c.LlamaThreads, min(runtime.NumCPU(), defaultMaxLlamaThread))
	setInt(&c.SummarySentences, DefaultSummarySents)
	setInt(&c.MaxKeywords, DefaultMaxKeywords)
	setInt(&c.Workers, DefaultWorkers)
	setInt(&c.QueueCapacity, DefaultQueueCapacity)
	setStr(&c.FailurePolicy, DefaultFailurePolicy)
	setStr(&c.Dispatch, DefaultDispatch)
	setStr(&c.LogLevel, DefaultLogLevel)
	setStr(&c.LogFormat, DefaultLogFormat)
	setStr(&c.NATSSubjectPrefix, DefaultSubjectPrefix)
	setStr(&c.NATSQueueGroup, DefaultQueueGroup)
	setStr(&c.DeepLURL, DefaultDeepLURL)
	setStr(&c.SourceLang, DefaultSourceLang)
	setStr(&c.PivotLang, DefaultPivotLang)
	setStr(&c.CaptionLang, DefaultCaptionLang)
	setInt(&c.MaxVideos, DefaultMaxVideos)
	setInt(&c.MaxComments, DefaultMaxComments)
	setStr(&c.Question, DefaultQuestion)
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return c
}

func setStr(p *string, def string) {
	if *p == "" {
		*p = def
	}
}

func setInt(p *int, def int) {
	if *p == 0 {
		*p = def
	}
}
