package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"nlpd/internal/backend"
	"nlpd/internal/classifier"
	"nlpd/internal/common/fsutil"
	"nlpd/internal/config"
	"nlpd/internal/manager"
	"nlpd/internal/registry"
	"nlpd/internal/store"
	"nlpd/internal/worker"
	"nlpd/pkg/types"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	stderr       io.Writer

	configOnce sync.Once
	config     config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag, logLevelFlag: logLevelFlag, stderr: os.Stderr}
}

// ensureConfig resolves the configuration once: file, then environment,
// then flags, then defaults.
func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = resolveConfig(strings.TrimSpace(*c.configFlag), strings.TrimSpace(*c.logLevelFlag))
	})
	return c.config, c.configErr
}

func resolveConfig(path, logLevel string) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}
	cfg, err := cfg.ApplyEnv()
	if err != nil {
		return cfg, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the root logger. Validate has already checked the level.
func newLogger(cfg config.Config, w io.Writer) zerolog.Logger {
	if cfg.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// app holds what both commands build from the configuration.
type app struct {
	log   zerolog.Logger
	mgr   *manager.Manager
	store *store.Store
}

func newApp(ctx context.Context, cfg config.Config, log zerolog.Logger) (*app, error) {
	assigned := map[string]string{
		classifier.KindSentiment:         cfg.SentimentModel,
		classifier.KindSummarization:     cfg.SummarizationModel,
		classifier.KindQuestionAnswering: cfg.QAModel,
		classifier.KindKeywords:          cfg.KeywordModel,
	}
	modelsDir, err := fsutil.ExpandHome(cfg.ModelsDir)
	if err != nil {
		return nil, err
	}
	loaders, err := backend.New(backend.Options{
		Name:         cfg.Backend,
		ModelsDir:    modelsDir,
		Models:       assigned,
		CtxSize:      cfg.LlamaCtx,
		Threads:      cfg.LlamaThreads,
		MaxSentences: cfg.SummarySentences,
		MaxKeywords:  cfg.MaxKeywords,
	})
	if err != nil {
		return nil, err
	}
	var models []types.Model
	if fsutil.PathExists(modelsDir) {
		if models, err = registry.LoadDir(modelsDir); err != nil {
			log.Warn().Err(err).Str("dir", modelsDir).Msg("models scan failed")
		}
	}
	if cfg.Backend != backend.Llama {
		assigned = nil
	}

	rt := &app{log: log}
	var reqLog manager.RequestLog
	if cfg.DBPath != "" {
		st, err := store.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		rt.store = st
		reqLog = st
		log.Info().Str("path", st.Path()).Msg("store opened")
	}

	// Validate already accepted both values.
	policy, _ := worker.ParseFailurePolicy(cfg.FailurePolicy)
	dispatch, _ := worker.ParseDispatch(cfg.Dispatch)
	rt.mgr = manager.NewWithConfig(manager.ManagerConfig{
		Loaders:       loaders,
		Backend:       cfg.Backend,
		Registry:      models,
		Assigned:      assigned,
		Workers:       cfg.Workers,
		QueueCapacity: cfg.QueueCapacity,
		MaxWait:       time.Duration(cfg.MaxWaitMS) * time.Millisecond,
		FailurePolicy: policy,
		Dispatch:      dispatch,
		Logger:        &log,
		Requests:      reqLog,
	})
	return rt, nil
}

// Close stops the workers, then closes the store the request log writes to.
func (rt *app) Close(ctx context.Context) error {
	err := rt.mgr.Close(ctx)
	if rt.store != nil {
		if cerr := rt.store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
