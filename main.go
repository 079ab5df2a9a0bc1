package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/wordweave/internal/articlecache"
	"github.com/example/wordweave/internal/config"
	"github.com/example/wordweave/internal/database"
	"github.com/example/wordweave/internal/generator"
	"github.com/example/wordweave/internal/importer"
	"github.com/example/wordweave/internal/mastery"
	"github.com/example/wordweave/internal/scheduler"
	"github.com/example/wordweave/internal/server"
)

func main() {
	cfg := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	db, err := database.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	words := database.NewWordRepository(db)
	progress := database.NewProgressRepository(db)
	aggregates := database.NewAggregateRepository(db)
	articleStore := database.NewArticleCacheRepository(db)

	volatile, err := articlecache.NewVolatileCache(cfg.VolatileMaxEntries, cfg.VolatileTTL)
	if err != nil {
		log.Error("failed to create volatile cache", "error", err)
		os.Exit(1)
	}
	defer volatile.Close()

	var external generator.TextGenerator
	if cfg.OpenAIAPIKey != "" {
		external, err = generator.NewOpenAI(generator.OpenAIConfig{
			APIKey:    cfg.OpenAIAPIKey,
			BaseURL:   cfg.OpenAIBaseURL,
			Model:     cfg.OpenAIModel,
			MaxTokens: cfg.GenerationMaxTokens,
			Timeout:   cfg.GenerationTimeout,
		})
		if err != nil {
			log.Error("failed to create text generator", "error", err)
			os.Exit(1)
		}
	} else {
		log.Warn("OPENAI_API_KEY not set, articles will use the fallback generator")
	}

	coordinator := articlecache.NewCoordinator(
		articleStore, volatile, external, generator.NewFallback(),
		articlecache.Config{
			MaxAge:             cfg.DurableMaxAge,
			MaxEntries:         cfg.DurableMaxEntries,
			SweepEveryNInserts: cfg.SweepEveryNInserts,
		},
		log,
	)

	masteryService := mastery.NewService(progress, aggregates, words, log)

	sched := scheduler.New(coordinator, cfg.SweepInterval, log)
	sched.Start()
	defer sched.Stop()

	srv := server.New(cfg.Addr, coordinator, masteryService, words, importer.New(words), log)

	done := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		sig := <-sigChan
		log.Info("shutting down", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("error during shutdown", "error", err)
		}
		close(done)
	}()

	if err := srv.Start(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
	log.Info("server stopped")
}
