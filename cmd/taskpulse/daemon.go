package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fentz26/taskpulse/internal/audit"
	"github.com/fentz26/taskpulse/internal/config"
	"github.com/fentz26/taskpulse/internal/controlplane"
	"github.com/fentz26/taskpulse/internal/logging"
	"github.com/fentz26/taskpulse/internal/scheduler"
	"github.com/fentz26/taskpulse/internal/store"
	"github.com/fentz26/taskpulse/internal/suggest"
)

var (
	listenAddr string
	dbPath     string
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Start the taskpulse daemon",
	Long:  `Starts the taskpulse daemon which serves the HTTP API and refreshes goal progress in the background.`,
	RunE:  runDaemon,
}

func init() {
	daemonCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address for the API server (overrides config)")
	daemonCmd.Flags().StringVar(&dbPath, "db", "", "Path to SQLite database (overrides config)")
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadConfig(configPath)
	}
	return config.LoadConfigFromHome()
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if listenAddr != "" {
		cfg.Server.Listen = listenAddr
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting taskpulse daemon", zap.String("db", cfg.Store.Path), zap.Bool("remote", cfg.RemoteAvailable()))

	// Initialize store
	s, err := store.New(cfg.Store.Path)
	if err != nil {
		return err
	}

	// Suggestion engine; the remote service is optional.
	var remote suggest.Remote
	if cfg.RemoteAvailable() {
		remote = suggest.NewRemoteAdapter(suggest.RemoteConfig{
			Enabled:           cfg.Remote.Enabled,
			BaseURL:           cfg.Remote.BaseURL,
			Model:             cfg.Remote.Model,
			APIKey:            cfg.Remote.APIKey,
			Timeout:           cfg.Remote.Timeout,
			RequestsPerMinute: cfg.Remote.RequestsPerMinute,
		}, logger.Named("remote"), time.Now)
	}
	limits := suggest.Limits{
		Category: cfg.Suggestions.CategoryLimit,
		DueDate:  cfg.Suggestions.DueDateLimit,
		Priority: cfg.Suggestions.PriorityLimit,
	}
	engine := suggest.NewEngine(suggest.NewLocalMatcher(time.Now), remote, limits, logger.Named("suggest"))

	// Create service and server
	service := controlplane.NewService(s, audit.NewDecisionWriter(s), engine, logger.Named("service"))
	server := controlplane.NewServer(service, s, cfg.Server.Listen, controlplane.ServerOptions{
		CORSOrigins:  cfg.Server.CORSOrigins,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Logger:       logger.Named("http"),
	})

	// Create and start the goal refresher
	sched := scheduler.New(s, s, &scheduler.Config{
		Interval:   cfg.Goals.RefreshInterval,
		RunOnStart: true,
	}, logger.Named("scheduler"))
	server.SetScheduler(sched)

	sched.Start()

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel to receive server errors
	serverErr := make(chan error, 1)

	// Start server in goroutine
	go func() {
		err := server.Start()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil {
			logger.Error("server error", zap.Error(err))
			sched.Stop()
			s.Close()
			return err
		}
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server shutdown error", zap.Error(err))
	}

	sched.Stop()

	if err := s.Close(); err != nil {
		logger.Warn("database close error", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return nil
}
