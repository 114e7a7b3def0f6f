package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/verdiscan/label-backend/internal/common"
	"github.com/verdiscan/label-backend/internal/llm"
	"github.com/verdiscan/label-backend/internal/llm/openai"
	"github.com/verdiscan/label-backend/internal/ocr"
	"github.com/verdiscan/label-backend/internal/repository"
	"github.com/verdiscan/label-backend/internal/rules"
	"github.com/verdiscan/label-backend/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("config.invalid", "error", err)
		os.Exit(1)
	}

	ruleCtx, err := rules.Load(cfg.Rules.WorkbookPath, cfg.Rules.Destination, logger)
	if err != nil {
		logger.Error("rules.load.failed", "path", cfg.Rules.WorkbookPath, "error", err)
		os.Exit(1)
	}

	chat := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	extractor := llm.NewExtractor(chat, logger)
	classifier := rules.NewModelClassifier(chat, logger)
	oracle := rules.NewModelOracle(chat, logger)
	validator := rules.NewValidator(ruleCtx, classifier, oracle, logger)

	engines := ocr.NewRegistry(
		ocr.NewTesseract(cfg.OCR.Languages, cfg.OCR.TessdataDir, logger),
	)

	var users repository.UserRepository
	if cfg.Storage.DSN != "" {
		pool, err := repository.Open(ctx, cfg.Storage, logger)
		if err != nil {
			logger.Error("db.open.failed", "error", err)
			os.Exit(1)
		}
		defer repository.Close(pool, logger)
		if err := repository.HealthCheck(ctx, pool, cfg.Storage.DialTimeout); err != nil {
			logger.Error("db.health.failed", "error", err)
			os.Exit(1)
		}
		users = repository.NewUserRepository(pool, logger)
	}

	var history *repository.HistoryStore
	if cfg.Storage.HistoryPath != "" {
		history, err = repository.OpenHistory(ctx, cfg.Storage.HistoryPath, logger)
		if err != nil {
			logger.Error("history.open.failed", "error", err)
			os.Exit(1)
		}
		defer history.Close()
	}

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           server.New(cfg.Server, engines, extractor, validator, users, history, logger).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http.serve", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http.serve.failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http.shutdown.failed", "error", err)
	}
	logger.Info("stopped")
}
