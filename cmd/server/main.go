package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/policycheck/internal/config"
	"github.com/JonMunkholm/policycheck/internal/core"
	"github.com/JonMunkholm/policycheck/internal/logging"
	"github.com/JonMunkholm/policycheck/internal/submit"
	"github.com/JonMunkholm/policycheck/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	if err := run(cfg); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	var submitter core.Submitter
	if cfg.Submit.Enabled() {
		client, err := submit.NewClient(submit.Options{
			URL:     cfg.Submit.URL,
			Token:   cfg.Submit.Token,
			Timeout: cfg.Submit.HTTPTimeout,
		})
		if err != nil {
			return err
		}
		submitter = client
		slog.Info("batch submission enabled", "url", cfg.Submit.URL)
	} else {
		slog.Warn("SUBMIT_URL not set, batch submission disabled")
	}

	charset := core.CharsetWholeDocument
	if cfg.Upload.LegacyCharset {
		charset = core.CharsetFirstLine
		slog.Warn("using deprecated first-line character check")
	}

	service := core.NewService(core.ServiceConfig{
		MaxConcurrentValidations: cfg.Upload.MaxConcurrent,
		MaxWaitTime:              cfg.Upload.MaxWaitTime,
		ValidationTimeout:        cfg.Upload.Timeout,
		MinSubmitDuration:        cfg.Submit.MinDuration,
		SubmitTimeout:            cfg.Submit.Timeout,
		SessionIdleTTL:           cfg.Session.IdleTTL,
		Charset:                  charset,
	}, submitter)

	server := web.NewServer(cfg, service)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		service.StartSessionSweeper(gctx, cfg.Session.SweepInterval)
		return nil
	})

	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Stop taking requests first, then let running work finish.
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		status := service.Limiter().Status()
		slog.Info("waiting for validations and submissions", "active_validations", status.Active)
		if err := service.WaitForIdle(shutdownCtx); err != nil {
			slog.Warn("work did not complete in time", "error", err)
		} else {
			slog.Info("all work completed")
		}
		return nil
	})

	return g.Wait()
}
