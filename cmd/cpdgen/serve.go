package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/cpdgen/internal/api"
	"github.com/dgallion1/cpdgen/internal/pipeline"
)

func init() {
	rootCmd.AddCommand(newServeCmd())
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [schema|catalog]",
		Short: "Serve generated documentation over HTTP",
		Long: `The serve command generates documentation for the input once at
startup and serves it as HTML, DOCX and Typst, with the memory diagrams as
SVG. The input defaults to $CPDGEN_INPUT. When CPDGEN_API_KEY is set,
POST /api/reload regenerates the document.

Example:
  cpdgen serve catalog.xml
  CPDGEN_PORT=9000 CPDGEN_LOG_JSON=true cpdgen serve radio.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), args)
		},
	}
	return cmd
}

// runServe blocks until ctx is cancelled or the process is signalled.
func runServe(ctx context.Context, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Input = args[0]
	}
	if cfg.Input == "" {
		return errors.New("serve needs an input file (argument or CPDGEN_INPUT)")
	}
	if _, err := os.Stat(cfg.Input); err != nil {
		return err
	}
	log := cfg.NewLogger()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Initialize pipeline and queue the first run.
	orch := pipeline.NewOrchestrator(cfg, log)
	orch.Start(ctx)
	if err := orch.Submit(pipeline.NewRun(cfg.Input, cfg.Format)); err != nil {
		orch.Stop()
		return err
	}

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
		case <-ctx.Done():
		}
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", "error", err)
		}
	}()

	log.Info("starting cpdgen", "port", cfg.Port, "input", cfg.Input, "format", cfg.Format)
	err = httpServer.ListenAndServe()
	cancel()
	<-stopped
	orch.Stop()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
