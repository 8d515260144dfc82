package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "resume-api/internal/adapter/http"
	repo "resume-api/internal/adapter/repository"
	"resume-api/internal/config"
	"resume-api/internal/observability"
	"resume-api/internal/usecase"
	"resume-api/pkg/ai"
	"resume-api/pkg/automation"
	infra "resume-api/pkg/infrastructure"
)

func main() {
	cfg, err := config.Load(".env.local", ".env")
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := observability.NewMetrics()

	querier, closeStore, err := repo.Open(ctx, cfg.Datastore.URL, cfg.Datastore.Timeout, logger)
	if err != nil {
		logger.Error("datastore unavailable", "error", err)
		os.Exit(1)
	}
	defer closeStore()
	resumes := repo.NewResumeRepository(querier, logger, metrics)

	compiler := infra.NewPdflatexCompiler(cfg.LaTeX.Compiler, cfg.LaTeX.Timeout, cfg.LaTeX.Attempts, logger)
	exporter := usecase.NewExporter(resumes, compiler, cfg.Render, cfg.LaTeX.TmpDir, logger, metrics)

	aiClient := ai.NewClient(cfg.AI.URL, cfg.AI.Timeout)
	importer := usecase.NewImporter(aiClient, logger)

	browser := infra.NewChromedpBrowser(cfg.Automation.CDPURL, cfg.Automation.ChromePath)
	agent := automation.NewAgent(automation.NewLLMPlanner(aiClient.NewActionFormatter()), cfg.Automation.MaxSteps, logger)
	linkedin := automation.LinkedInSite(cfg.LinkedIn.ProfileID, cfg.LinkedIn.Username, cfg.LinkedIn.Password)
	simplify := automation.SimplifySite(cfg.Simplify.Username, cfg.Simplify.Password)
	profiles := usecase.NewProfileSync(resumes, logger, metrics,
		usecase.Site{Key: linkedin.Key, Name: linkedin.Name, Updater: automation.NewProfileAgent(linkedin, browser, agent, logger)},
		usecase.Site{Key: simplify.Key, Name: simplify.Name, Updater: automation.NewProfileAgent(simplify, browser, agent, logger)},
	)

	app := httpadapter.NewApp(httpadapter.NewHandler(exporter, profiles, importer, logger), httpadapter.AppOptions{
		Origins:        cfg.Server.Origins(),
		RatePerMinute:  cfg.RateLimit.PerMinute,
		RateBurst:      cfg.RateLimit.Burst,
		Metrics:        metrics,
		DisableStartup: true,
	})

	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := app.Listen(cfg.Server.Addr()); err != nil {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("server stopped")
}
