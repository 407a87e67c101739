package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"core/internal/config"
	"core/internal/dialog"
	"core/internal/handler"
	"core/internal/importer"
	"core/internal/logger"
	"core/internal/repository"
	"core/internal/service"
	"core/internal/transport"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&cfg.Logging)
	log.WithField("version", Version).
		WithField("build_time", BuildTime).
		WithField("git_commit", GitCommit).
		Info("rental listing engine starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgresDSN(),
		cfg.Postgres.MaxConnections,
		cfg.Postgres.MaxIdleConnections,
		log,
	)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		log.WithError(err).Fatal("failed to prepare schema")
	}
	log.Info("connected to Postgres")

	var enricher service.Enricher
	if e := service.NewOpenAIEnricher(&cfg.OpenAI, log); e != nil {
		enricher = e
		log.WithField("model", cfg.OpenAI.Model).Info("enrichment enabled")
	} else {
		log.Info("enrichment disabled, heuristic extraction only")
	}

	tgClient := transport.NewClient(cfg.Telegram.Token)
	me, err := tgClient.GetMe(ctx)
	if err != nil {
		log.WithError(err).Fatal("failed to reach Telegram")
	}
	log.WithField("bot", me.Username).Info("bot authorized")

	ranker := service.NewRanker(
		cfg.Search.WeightBedrooms,
		cfg.Search.WeightLocation,
		cfg.Search.ResultCap,
	)
	engine := service.NewEngine(
		repo, repo, tgClient, enricher, ranker,
		dialog.NewMachine(), &cfg.Telegram, log,
	)

	if cfg.Import.DumpPath != "" && cfg.Import.Channels != "" {
		imp := importer.NewImporter(
			importer.NewDumpSource(cfg.Import.DumpPath),
			engine, cfg.Import.RatePerSec, cfg.Import.Burst, log,
		)
		added, err := imp.Run(ctx, cfg.Import.Channels, cfg.Import.Limit)
		if err != nil {
			log.WithError(err).Error("backfill aborted")
		}
		log.WithField("added", added).Info("backfill complete")
	}

	h := handler.NewBotHandler(engine, log)
	router := handler.NewRouter(h, &cfg.Server, cfg.Telegram.WebhookPath)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	if cfg.Telegram.BaseURL != "" {
		webhookURL := strings.TrimRight(cfg.Telegram.BaseURL, "/") + cfg.Telegram.WebhookPath
		if err := tgClient.SetWebhook(ctx, webhookURL); err != nil {
			log.WithError(err).Fatal("failed to set webhook")
		}
		log.WithField("url", webhookURL).Info("webhook mode")
	} else {
		if err := tgClient.DeleteWebhook(ctx); err != nil {
			log.WithError(err).Warn("failed to clear webhook before polling")
		}
		log.Info("polling mode")
		go poll(ctx, tgClient, engine, cfg.Telegram.PollTimeout, log)
	}

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http server shutdown failed")
	}
	log.Info("stopped")
}

// poll drives the engine from long-polled updates until the context ends.
func poll(ctx context.Context, client *transport.Client, engine *service.Engine, timeout int, log logger.Logger) {
	var offset int64
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		updates, err := client.GetUpdates(ctx, offset, timeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.WithError(err).Warn("getUpdates failed, retrying")
			time.Sleep(3 * time.Second)
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			engine.HandleUpdate(ctx, u)
		}
	}
}
