package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yotip/homestead/internal/server"
	"github.com/yotip/homestead/internal/storage/sqlite"
)

const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	addr   string
	dbPath string
	debug  bool
}

func serveCmd() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the homestead profile server.

Examples:
  homestead-server serve --addr :8080 --db data/homestead.db
  HOMESTEAD_DB_PATH=/var/lib/homestead.db homestead-server serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", envOrDefault("HOMESTEAD_ADDR", ":8080"), "HTTP listen address")
	cmd.Flags().StringVar(&opts.dbPath, "db", envOrDefault("HOMESTEAD_DB_PATH", "data/homestead.db"), "path to sqlite database file")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	return cmd
}

func runServe(ctx context.Context, opts serveOptions) error {
	level := slog.LevelInfo
	if opts.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	store, err := sqlite.Open(opts.dbPath, logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	srv := server.New(store, logger)
	httpServer := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr), slog.String("db", opts.dbPath))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped unexpectedly: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
		return err
	}
	logger.Info("server stopped")
	return nil
}
