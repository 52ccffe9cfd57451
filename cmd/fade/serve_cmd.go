package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fentz26/fade/internal/config"
	"github.com/fentz26/fade/internal/server"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the todo list over HTTP",
	Long: `Starts the fade HTTP API with its own expiry sweeper. Only one server may run
per config directory at a time.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address for the API server (overrides server.listen)")
}

// lockPath is the file guarding against two servers sharing one journal.
func lockPath(c *config.Config) string {
	return filepath.Join(filepath.Dir(c.Journal.Path), "serve.lock")
}

// acquireLock takes the journal's serve lock. Without a journal there is
// nothing to share and the returned lock is nil.
func acquireLock(c *config.Config) (*flock.Flock, error) {
	if !c.Journal.Enabled {
		return nil, nil
	}
	path := lockPath(c)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire serve lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another fade server is already running (lock %s)", path)
	}
	return lock, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := consoleLogger(cfg)
	if listenAddr != "" {
		cfg.Server.Listen = listenAddr
	}

	lock, err := acquireLock(cfg)
	if err != nil {
		return err
	}
	if lock != nil {
		defer lock.Unlock()
	}

	logger.Info("starting fade server", "expiry", cfg.Todo.Expiry, "fade_delay", cfg.Todo.FadeDelay, "journal", cfg.Journal.Enabled)

	c, err := build(cfg, logger)
	if err != nil {
		return err
	}

	service := server.NewService(c.todos, c.journal, cfg.Indicator)
	srv := server.NewServer(service, cfg.Server.Listen, logger)

	c.sweeper.Start()

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	go func() {
		err := srv.Start()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", "signal", sig)
	case err := <-serverErr:
		if err != nil {
			logger.Error("server error", "err", err)
			c.Close()
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "err", err)
	}

	logger.Info("closing journal")
	if err := c.Close(); err != nil {
		logger.Error("journal close error", "err", err)
	}

	logger.Info("shutdown complete")
	return nil
}
