package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/moodtrack/internal/config"
	"github.com/iudanet/moodtrack/internal/server"
	"github.com/iudanet/moodtrack/internal/server/facestore"
	"github.com/iudanet/moodtrack/internal/server/storage/sqlite"
	"github.com/iudanet/moodtrack/internal/server/token"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg.Server.Debug)
	logger.Info("starting moodtrack server",
		"version", Version,
		"build_date", BuildDate,
		"git_commit", GitCommit,
	)

	// Контекст отменяется по SIGINT/SIGTERM и запускает graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	faces, err := facestore.New(cfg.Storage.FaceDataDir)
	if err != nil {
		return fmt.Errorf("failed to init face store: %w", err)
	}

	tokens := token.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	srv := server.New(logger, cfg, server.Deps{
		Users:    store,
		Emotions: store,
		Faces:    faces,
		Tokens:   tokens,
		Version:  Version,
	})

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// newLogger настраивает slog: текст в debug режиме, JSON в проде
func newLogger(debug bool) *slog.Logger {
	var handler slog.Handler
	if debug {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.New(handler)
}

func printVersion() {
	fmt.Printf("moodtrack server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
