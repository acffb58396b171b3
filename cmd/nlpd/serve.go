package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"nlpd/internal/config"
	"nlpd/internal/httpapi"
	"nlpd/internal/natsapi"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the models over HTTP (and NATS when nats_url is set)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			return serve(cmd.Context(), cfg, ctx.stderr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address, e.g. :8080")
	return cmd
}

func serve(parent context.Context, cfg config.Config, logOut io.Writer) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := newLogger(cfg, logOut)
	rt, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}

	httpapi.SetLogger(log)
	httpapi.SetBaseContext(ctx)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetRequestTimeout(time.Duration(cfg.RequestTimeoutMS) * time.Millisecond)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSAllowedOrigins, nil, nil)

	var hist httpapi.History
	if rt.store != nil {
		hist = rt.store
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(rt.mgr, hist),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var nsrv *natsapi.Server
	if cfg.NATSURL != "" {
		nc, err := natsapi.Connect(cfg.NATSURL, log)
		if err != nil {
			_ = rt.Close(context.Background())
			return err
		}
		nsrv = natsapi.New(nc, rt.mgr, natsapi.Options{
			Prefix:  cfg.NATSSubjectPrefix,
			Queue:   cfg.NATSQueueGroup,
			Timeout: time.Duration(cfg.RequestTimeoutMS) * time.Millisecond,
			Logger:  &log,
		})
		if err := nsrv.Start(ctx); err != nil {
			_ = nsrv.Drain()
			_ = rt.Close(context.Background())
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("backend", cfg.Backend).Msg("nlpd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case serveErr = <-errCh:
		log.Error().Err(serveErr).Msg("server error")
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	if nsrv != nil {
		if err := nsrv.Drain(); err != nil {
			log.Warn().Err(err).Msg("nats drain error")
		}
	}
	if err := rt.Close(sctx); err != nil {
		log.Warn().Err(err).Msg("workers did not stop cleanly")
	}
	return serveErr
}
