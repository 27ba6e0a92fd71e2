package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/TNRProtography/questoot/internal/config"
	"github.com/TNRProtography/questoot/internal/httpapi"
	"github.com/TNRProtography/questoot/internal/hub"
	"github.com/TNRProtography/questoot/internal/questions"
	"github.com/TNRProtography/questoot/internal/room"
	"github.com/TNRProtography/questoot/internal/store"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	var st store.Store = store.NewMemory()
	if cfg.PostgresDSN != "" {
		pg, err := store.NewPostgres(cfg.PostgresDSN)
		if err != nil {
			logger.Fatal("failed to open postgres store", zap.Error(err))
		}
		defer pg.Close()
		st = pg
	}

	source := questions.WithFallback(
		questions.NewHTTPSource(cfg.QuestionURL, cfg.QuestionTimeout),
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := hub.New(ctx, room.Options{
		Store:         st,
		Source:        source,
		Durations:     cfg.Durations(),
		TickInterval:  cfg.TickInterval,
		QuestionCount: cfg.QuestionCount,
		IdleTTL:       cfg.RoomIdleTTL,
		Logger:        logger,
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpapi.SetupRoutes(h, logger),
	}

	// On SIGINT/SIGTERM the hub context is cancelled, which closes every
	// room and its client outboxes; stop accepting connections too.
	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		h.Inbox() <- hub.ShutdownHub{}
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	logger.Info("listening", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
