package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calculator-widget/internal/calculator"
	"calculator-widget/internal/config"
	"calculator-widget/internal/observability"
	"calculator-widget/internal/server"
	"calculator-widget/internal/tone"

	"go.uber.org/zap"
)

func main() {

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := config.LoadDotEnv(); err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	if err := observability.InitLogger(cfg.LogFile); err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	if cfg.LogsExport {
		logShutdown, err := observability.InitLogging(ctx)
		if err != nil {
			panic(err)
		}
		defer logShutdown(context.Background())
	}

	// Tracing
	traceShutdown, err := observability.InitTracing(ctx)
	if err != nil {
		panic(err)
	}
	defer traceShutdown(context.Background())

	// Tones
	tones, err := tone.LoadTableFile(cfg.ToneTableFile)
	if err != nil {
		panic(err)
	}
	var player tone.Player = tone.NopPlayer{}
	if p := tone.NewCommandPlayer(cfg.TonePlayerCmd); p != nil {
		player = p
	}
	emitter := tone.NewEmitter(tones, player, observability.Logger.Named("tone"))
	defer emitter.Wait()

	// Sessions
	store := calculator.NewStore(cfg.SessionTTL, observability.Logger.Named("sessions"),
		calculator.WithClearDelay(cfg.ErrorClearDelay),
		calculator.WithEmitter(emitter),
		calculator.WithLogger(observability.Logger.Named("pad")),
	)
	go store.Run(ctx, cfg.SessionSweep)

	// Metrics
	metricShutdown, err := initMetrics(ctx, store)
	if err != nil {
		panic(err)
	}
	defer metricShutdown(context.Background())

	// Router
	router := server.NewRouter(store, tones)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.Addr),
			zap.Duration("error_clear_delay", cfg.ErrorClearDelay),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	waitForShutdown(srv)
	cancel()
}

func waitForShutdown(srv *http.Server) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		observability.Logger.Error("server shutdown", zap.Error(err))
	}
}
