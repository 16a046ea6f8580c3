package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-sf-exporter/internal/config"
	"go-sf-exporter/internal/logger"
	"go-sf-exporter/internal/model"
	"go-sf-exporter/internal/pipeline"
	"go-sf-exporter/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := logger.Init(cfg.LogLevel, false); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.L().Sync()

	if err := store.InitDB(cfg.DBPath); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer store.CloseDB()

	runID := uuid.New().String()
	if err := store.SaveRun(runID, len(cfg.ObjectNames)); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	if err := pipeline.Run(context.Background(), runID, cfg); err != nil {
		return fmt.Errorf("export run %s failed: %w", runID, err)
	}

	run, err := store.GetRun(runID)
	if err != nil {
		return fmt.Errorf("failed to load run outcome: %w", err)
	}
	if run.Status == model.RunCompletedWithErrors {
		logger.L().Warn("run completed with errors",
			zap.String("run_id", runID),
			zap.Int("objects_failed", run.ObjectsFailed))
		return fmt.Errorf("export run %s: %d of %d objects failed",
			runID, run.ObjectsFailed, run.ObjectsTotal)
	}
	return nil
}
