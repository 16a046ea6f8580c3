package main

import (
	"fmt"
	"os"

	_ "go-sf-exporter/docs"
	"go-sf-exporter/internal/api"
	"go-sf-exporter/internal/api/handler"
	"go-sf-exporter/internal/config"
	"go-sf-exporter/internal/logger"
	"go-sf-exporter/internal/store"
	"go-sf-exporter/pkg/router"
)

// @title Salesforce Exporter API
// @version 1.0
// @description Export Salesforce objects to spreadsheets and Google Drive
// @host localhost:8080
// @BasePath /api/v1
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

	handler.Init(cfg)

	r := router.New(logger.Named("http"))
	api.RegisterRoutes(r)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	return r.Start(addr)
}
