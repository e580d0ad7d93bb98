package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pefman/w40k-wounds/internal/config"
	"github.com/pefman/w40k-wounds/internal/observability"
	"github.com/pefman/w40k-wounds/internal/server"
	"github.com/pefman/w40k-wounds/internal/stats"
)

// Build metadata injected via -ldflags at build time
var (
	buildVersion = "dev"
	buildTime    = ""
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	// Prefer Cloud Run's PORT env var when present
	if p := os.Getenv("PORT"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			log.Fatalf("invalid PORT %q: %v", p, err)
		}
		cfg.Server.Port = n
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	rec := stats.NewRecorder()
	srv := server.New(logger, rec, server.BuildInfo{Version: buildVersion, Time: buildTime})
	httpSrv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go pruneDaily(ctx, rec, logger)

	go func() {
		logger.Info("expected wounds API listening", zap.String("addr", httpSrv.Addr), zap.String("version", buildVersion))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

// pruneDaily drops stale days once an hour.
func pruneDaily(ctx context.Context, rec *stats.Recorder, logger *zap.Logger) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := rec.Prune(); n > 0 {
				logger.Debug("pruned daily stats", zap.Int("days", n))
			}
		}
	}
}
