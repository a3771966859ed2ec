package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gtanav/assistant/backend/internal/analysis/intent"
	"github.com/gtanav/assistant/backend/internal/catalog"
	"github.com/gtanav/assistant/backend/internal/config"
	"github.com/gtanav/assistant/backend/internal/handler"
	"github.com/gtanav/assistant/backend/internal/handler/navigation"
	"github.com/gtanav/assistant/backend/internal/logging"
	"github.com/gtanav/assistant/backend/internal/model/profile"
	"github.com/gtanav/assistant/backend/internal/service/chat"
	navService "github.com/gtanav/assistant/backend/internal/service/navigation"
	settingsService "github.com/gtanav/assistant/backend/internal/service/settings"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	data, err := catalog.Default()
	if err != nil {
		return err
	}

	profiles := profile.NewMemoryStore(profile.Seed())
	if err := profiles.SetDefault(cfg.Chat.DefaultProfile); err != nil {
		fallback, _ := profiles.Default()
		logger.Warn("default profile not found, using first seeded profile",
			zap.String("profile_id", cfg.Chat.DefaultProfile), zap.String("fallback", fallback.ID))
	}

	matcher := intent.New(intent.KnowledgeFrom(data))
	chatSvc, err := chat.NewService(ctx, profiles, matcher, chat.Options{
		TypingDelay: cfg.Chat.TypingDelay,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer chatSvc.Close()

	events := navigation.NewEvents(logger)
	simulator := navService.NewSimulator(data, data.Steps, navService.Options{
		Tick:      cfg.Navigation.Tick,
		Step:      cfg.Navigation.Step,
		Publisher: events,
		Logger:    logger,
	})
	defer simulator.Close()

	router := handler.NewRouter(handler.Deps{
		Config:    cfg,
		Catalog:   data,
		Profiles:  profiles,
		Chat:      chatSvc,
		Simulator: simulator,
		Events:    events,
		Settings:  settingsService.NewStore(),
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("GTA navigation assistant listening",
			zap.String("addr", srv.Addr),
			zap.Duration("typing_delay", cfg.Chat.TypingDelay),
			zap.Int("intents", len(matcher.Labels())))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		logger.Info("shutting down")
		// SSE subscribers hold connections open; close them first.
		if err := events.Shutdown(shutdownCtx); err != nil {
			logger.Warn("sse shutdown", zap.Error(err))
		}
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
