package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-timeline/internal/config"
	"github.com/goliatone/go-timeline/internal/notify"
	"github.com/goliatone/go-timeline/pkg/content"
	"github.com/goliatone/go-timeline/pkg/logger"
	"github.com/goliatone/go-timeline/pkg/metrics"
	"github.com/goliatone/go-timeline/pkg/pipeline"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	log := logger.New(logger.WithLevel(level), logger.WithJSON(), logger.WithName("timeline-server"))
	if err != nil {
		log.Warn(ctx, "invalid log_level, falling back to info", logger.String("log_level", cfg.LogLevel))
	}

	manager := metrics.NewManager(metrics.WithEnabled(cfg.MetricsEnabled))

	batch := content.DirBatch(cfg.ContentDir)
	if cfg.ContentURL != "" {
		batch = content.URLBatch(cfg.ContentURL)
	}

	var srv *server
	hook := func(_, to pipeline.State) {
		if to == pipeline.StateFailed && srv != nil {
			srv.notifyFailure()
		}
	}

	pipe, err := pipeline.New(
		pipeline.WithBatch(batch),
		pipeline.WithLogger(log.Named("pipeline")),
		pipeline.WithMetrics(manager),
		pipeline.WithRetryPolicy(cfg.FetchAttempts, cfg.FetchBaseDelay()),
		pipeline.WithReadyTimeout(cfg.ReadyTimeout()),
		pipeline.WithTheme(cfg.Theme, cfg.ThemeVariant),
		pipeline.WithTransitionHook(hook),
	)
	if err != nil {
		log.Error(ctx, "failed to build pipeline", logger.Error(err))
		os.Exit(1)
	}

	srv = newServer(ctx, pipe, log, manager)
	if cfg.NotifierEnabled() {
		srv.notifier = notify.NewEmail(notify.EmailConfig{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
			From: cfg.SMTPFrom,
			To:   cfg.SMTPTo,
		})
	}

	// The first pass runs in the background; requests see the loading page
	// until it finishes.
	go func() {
		if err := pipe.Run(ctx); err != nil {
			log.Error(ctx, "initial pass failed", logger.Error(err))
		}
	}()

	mux := http.NewServeMux()
	srv.routes(mux)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "shutdown incomplete", logger.Error(err))
	}
}
