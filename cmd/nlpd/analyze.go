package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"nlpd/internal/analysis"
	"nlpd/internal/config"
	"nlpd/internal/translate"
	"nlpd/internal/youtube"
	"nlpd/pkg/types"
)

const queryPrompt = "Which product would you like recommendations for? "

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var maxVideos int
	cmd := &cobra.Command{
		Use:   "analyze [query]",
		Short: "Analyze the YouTube videos found for a query and print the reports as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if maxVideos > 0 {
				cfg.MaxVideos = maxVideos
			}
			var query string
			if len(args) == 1 {
				query = args[0]
			} else if query, err = readQuery(cmd.InOrStdin(), cmd.ErrOrStderr()); err != nil {
				return err
			}
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			sctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()
			reports, err := analyze(sctx, cfg, query, ctx.stderr)
			if len(reports) > 0 {
				if werr := writeJSON(cmd, reports); werr != nil {
					return werr
				}
			}
			return err
		},
	}
	cmd.Flags().IntVar(&maxVideos, "max-videos", 0, "Override max_videos")
	return cmd
}

// readQuery prompts on out and reads one line from in.
func readQuery(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, queryPrompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read query: %w", err)
	}
	q := strings.TrimSpace(line)
	if q == "" {
		return "", errors.New("no query given")
	}
	return q, nil
}

func analyze(ctx context.Context, cfg config.Config, query string, logOut io.Writer) ([]types.Report, error) {
	log := newLogger(cfg, logOut)
	rt, err := newApp(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rt.Close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("workers did not stop cleanly")
		}
	}()
	if err := rt.mgr.WaitReady(ctx); err != nil {
		return nil, fmt.Errorf("models not ready: %w", err)
	}

	clf := rt.mgr.Classifiers()
	defer clf.Close()

	yt := youtube.New(youtube.Options{APIKey: cfg.YouTubeAPIKey, CaptionLang: cfg.CaptionLang, Logger: &log})
	opts := analysis.Options{
		MaxVideos:   cfg.MaxVideos,
		MaxComments: cfg.MaxComments,
		MaxKeywords: cfg.MaxKeywords,
		Question:    cfg.Question,
		SourceLang:  cfg.SourceLang,
		PivotLang:   cfg.PivotLang,
		Logger:      &log,
	}
	if !strings.EqualFold(cfg.SourceLang, cfg.PivotLang) {
		opts.Translator = translate.NewDeepL(translate.Options{APIKey: cfg.DeepLAPIKey, URL: cfg.DeepLURL, Logger: &log})
	}
	if rt.store != nil {
		opts.Store = rt.store
	}
	return analysis.New(yt, clf, opts).Run(ctx, query)
}
