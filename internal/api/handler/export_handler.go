package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-sf-exporter/internal/config"
	"go-sf-exporter/internal/logger"
	"go-sf-exporter/internal/model"
	"go-sf-exporter/internal/pipeline"
	"go-sf-exporter/internal/store"
)

var cfg *config.Config

// Init wires the loaded configuration into the handlers
func Init(c *config.Config) {
	cfg = c
}

func runIDFromPath(path, suffix string) string {
	const prefix = "/api/v1/exports/"
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return ""
	}
	return path[len(prefix) : len(path)-len(suffix)]
}

// CreateExport starts a new export run
// @Summary Start a new export run
// @Description Start a Salesforce export run over the configured objects
// @Tags exports
// @Accept json
// @Produce json
// @Success 202 {object} map[string]interface{} "Export run accepted"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /exports [post]
func CreateExport(w http.ResponseWriter, r *http.Request) {
	runID := uuid.New().String()

	if err := store.SaveRun(runID, len(cfg.ObjectNames)); err != nil {
		http.Error(w, "Failed to save run", http.StatusInternalServerError)
		return
	}

	go func() {
		if err := pipeline.Run(context.Background(), runID, cfg); err != nil {
			logger.Named("api").Error("export run failed",
				zap.String("run_id", runID), zap.Error(err))
		}
	}()

	resp := map[string]interface{}{
		"message":   "Export run started",
		"runID":     runID,
		"status":    model.RunPending,
		"objects":   len(cfg.ObjectNames),
		"createdAt": time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(resp)
}

// ListExports retrieves all export runs
// @Summary List export runs
// @Description Get all export runs with their current status, newest first
// @Tags exports
// @Accept json
// @Produce json
// @Success 200 {array} model.RunSummary "List of export runs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /exports [get]
func ListExports(w http.ResponseWriter, r *http.Request) {
	runs, err := store.ListRuns()
	if err != nil {
		http.Error(w, "Failed to fetch runs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

// GetExport retrieves one export run
// @Summary Get export run
// @Description Retrieve the status of a specific export run
// @Tags exports
// @Accept json
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.RunSummary "Export run details"
// @Failure 400 {object} map[string]interface{} "Invalid run ID"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /exports/{id} [get]
func GetExport(w http.ResponseWriter, r *http.Request) {
	runID := runIDFromPath(r.URL.Path, "")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	run, err := store.GetRun(runID)
	if err != nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// GetExportObjects retrieves per-object outcomes for a run
// @Summary Get per-object outcomes
// @Description Retrieve the explicit per-object export outcomes of a run
// @Tags exports
// @Accept json
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Per-object outcomes"
// @Failure 400 {object} map[string]interface{} "Invalid run ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /exports/{id}/objects [get]
func GetExportObjects(w http.ResponseWriter, r *http.Request) {
	runID := runIDFromPath(r.URL.Path, "/objects")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	objects, err := store.ListObjectExports(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve object outcomes", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id":  runID,
		"objects": objects,
		"count":   len(objects),
	})
}

// GetExportUploads retrieves Drive upload logs for a run
// @Summary Get upload logs
// @Description Retrieve the Google Drive upload attempts of a run
// @Tags exports
// @Accept json
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Upload logs"
// @Failure 400 {object} map[string]interface{} "Invalid run ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /exports/{id}/uploads [get]
func GetExportUploads(w http.ResponseWriter, r *http.Request) {
	runID := runIDFromPath(r.URL.Path, "/uploads")
	if runID == "" {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}

	uploads, err := store.ListUploadLogs(runID)
	if err != nil {
		http.Error(w, "Failed to retrieve upload logs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id":  runID,
		"uploads": uploads,
		"count":   len(uploads),
	})
}
