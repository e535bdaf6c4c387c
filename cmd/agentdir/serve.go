package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/30tools/ai-agents-directory/pkg/server"
)

func newServeCmd(opts *cliOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the directory web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port > 0 {
				opts.cfg.Port = port
			}
			if lvl, err := zerolog.ParseLevel(opts.cfg.LogLevel); err == nil && !opts.verbose {
				zerolog.SetGlobalLevel(lvl)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, opts)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	return cmd
}

func serve(ctx context.Context, opts *cliOptions) error {
	srv, err := server.NewWithConfig(ctx, opts.cfg)
	if err != nil {
		return err
	}

	httpServer := srv.HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", srv.Port).Msg("🚀 AI Agents Directory is ready!")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err = <-errCh:
	case <-ctx.Done():
		log.Info().Msg("🛑 Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err = httpServer.Shutdown(shutdownCtx)
	}
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Join(err, srv.Close(closeCtx))
}
