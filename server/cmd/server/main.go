package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/housepredict/housepredict/server/internal/api"
	"github.com/housepredict/housepredict/server/internal/artifact"
	"github.com/housepredict/housepredict/server/internal/config"
	"github.com/housepredict/housepredict/server/internal/metrics"
	"github.com/housepredict/housepredict/server/internal/predict"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// A missing config file is fine unless -config was given explicitly.
	explicit := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			explicit = true
		}
	})

	cfg, err := loadConfig(*configPath, explicit)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Server.SlogLevel()}))
	slog.SetDefault(logger)

	slog.Info("housepredict-server starting",
		"config", *configPath,
		"http_port", cfg.Server.HTTPPort,
		"model", cfg.Artifacts.ModelPath,
		"scaler", cfg.Artifacts.ScalerPath,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		slog.Error("housepredict-server failed", "err", err)
		cancel()
		os.Exit(1)
	}
}

// run loads the artifacts and serves until ctx is cancelled. It returns
// before opening any listener if either artifact fails to load.
func run(ctx context.Context, cfg *config.Config) error {
	features := predict.FeatureNames()
	arts, err := artifact.Load(cfg.Artifacts.ModelPath, cfg.Artifacts.ScalerPath, features)
	if err != nil {
		return err
	}
	slog.Info("artifacts loaded",
		"model_kind", arts.ModelKind,
		"scaler_kind", arts.ScalerKind,
		"features", len(features),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := metrics.New()
	m.SetArtifactsLoaded(arts.LoadedAt)

	if cfg.Artifacts.Watch {
		w, err := artifact.NewWatcher(cfg.Artifacts.ModelPath, cfg.Artifacts.ScalerPath, features)
		if err != nil {
			slog.Warn("artifact watcher disabled", "err", err)
		} else {
			go w.Run(ctx, func(path string, err error) {
				m.ObserveArtifactChange(artifactName(cfg.Artifacts, path), err == nil)
			})
		}
	}

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      api.New(arts, m),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	serveErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("housepredict-server shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stop()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		slog.Error("HTTP shutdown", "err", err)
	}

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	default:
		return nil
	}
}

func loadConfig(path string, explicit bool) (*config.Config, error) {
	if explicit {
		return config.Load(path)
	}
	return config.LoadOptional(path)
}

// artifactName labels a watcher event with the artifact it belongs to.
func artifactName(cfg config.ArtifactsConfig, path string) string {
	if filepath.Clean(path) == filepath.Clean(cfg.ScalerPath) {
		return "scaler"
	}
	return "model"
}
