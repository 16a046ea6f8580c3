// Package pipeline drives the Salesforce export: per-object exporters
// fanned out under bounded concurrency, a single-writer workbook sink, and
// timing statistics persisted per run.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-sf-exporter/internal/config"
	"go-sf-exporter/internal/drive"
	"go-sf-exporter/internal/logger"
	"go-sf-exporter/internal/model"
	"go-sf-exporter/internal/retry"
	"go-sf-exporter/internal/salesforce"
	"go-sf-exporter/internal/sink"
	"go-sf-exporter/internal/store"
	"go-sf-exporter/pkg/utils"
)

// Exporter produces the record table for one object
type Exporter interface {
	Export(ctx context.Context, objectName string) (*model.ExportResult, error)
}

// SheetWriter is the shared workbook surface the coordinator writes into
type SheetWriter interface {
	WriteSheet(name string, columns []string, rows []model.RecordRow) error
}

// Coordinator fans the exporter out over all configured objects. The shared
// workbook is the only mutable shared resource: sheet writes are serialized
// through the coordinator's mutex, while large objects go to standalone CSV
// files and need no serialization.
type Coordinator struct {
	Objects      []string
	Workers      int
	Threshold    int
	CustomMarker string
	LocalFolder  string
	Exporter     Exporter
	Sheets       SheetWriter
	Stats        *StatisticsSink
	Logger       *zap.Logger

	mu sync.Mutex
}

// ExportAll runs every object export and returns one explicit status per
// object, in configured order. Individual failures never abort siblings.
func (c *Coordinator) ExportAll(ctx context.Context) []model.ObjectStatus {
	workers := c.Workers
	if workers <= 0 {
		workers = 4
	}
	sem := make(chan struct{}, workers)

	statuses := make([]model.ObjectStatus, len(c.Objects))
	var wg sync.WaitGroup
	for i, name := range c.Objects {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			statuses[i] = c.exportObject(ctx, name)
		}(i, name)
	}
	wg.Wait()
	return statuses
}

func (c *Coordinator) exportObject(ctx context.Context, objectName string) model.ObjectStatus {
	start := time.Now()
	status := model.ObjectStatus{ObjectName: objectName, StartedAt: start}
	c.Logger.Info("processing object", zap.String("object", objectName))

	result, err := c.Exporter.Export(ctx, objectName)
	if err != nil {
		// Failure is scoped to this object: log, record, move on. No
		// statistics record is emitted for a failed object.
		c.Logger.Error("object export failed", zap.String("object", objectName), zap.Error(err))
		status.Status = model.ObjectFailed
		status.Error = err.Error()
		return status
	}

	if result.RowCount > 0 {
		if err := c.materialize(result, &status); err != nil {
			c.Logger.Error("object write failed", zap.String("object", objectName), zap.Error(err))
			status.Status = model.ObjectFailed
			status.Error = err.Error()
			return status
		}
		c.Logger.Info("object saved",
			zap.String("object", objectName),
			zap.String("destination", status.Destination),
			zap.Int("rows", result.RowCount))
	}

	end := time.Now()
	status.Status = model.ObjectSuccess
	status.RowCount = result.RowCount
	status.FinishedAt = &end

	c.Stats.Append(model.StatisticsRecord{
		ObjectName:      objectName,
		StartTime:       start,
		EndTime:         end,
		DurationSeconds: end.Sub(start).Seconds(),
		LastRefreshDate: end.Format("2006-01-02"),
	})
	return status
}

// materialize routes the result: small objects become a workbook sheet
// (serialized), large ones a standalone CSV file.
func (c *Coordinator) materialize(result *model.ExportResult, status *model.ObjectStatus) error {
	if result.RowCount >= c.Threshold {
		path := filepath.Join(c.LocalFolder, result.ObjectName+".csv")
		status.Destination = path
		return sink.WriteCSV(path, result.Columns, result.Rows)
	}

	name := utils.SheetName(result.ObjectName, c.CustomMarker)
	status.Destination = name

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Sheets.WriteSheet(name, result.Columns, result.Rows)
}

// Run executes one full pipeline run: login, concurrent export, statistics
// flush, then the Drive upload phase. Setup failures abort the run; object
// failures do not.
func Run(ctx context.Context, runID string, cfg *config.Config) error {
	log := logger.Named("pipeline").With(zap.String("run_id", runID))
	log.Info("starting pipeline run", zap.Int("objects", len(cfg.ObjectNames)))

	_ = store.UpdateRunStatus(runID, model.RunRunning)
	fail := func(err error) error {
		log.Error("pipeline run failed", zap.Error(err))
		_ = store.FinishRun(runID, model.RunFailed, 0, err.Error())
		return err
	}

	if err := cfg.EnsureFolders(); err != nil {
		return fail(err)
	}

	rc := retry.Config{MaxAttempts: cfg.MaxRetries, Logger: log}
	client, err := salesforce.Connect(ctx, salesforce.Credentials{
		Username: cfg.SFUsername,
		Password: cfg.SFPassword,
		Token:    cfg.SFToken,
		Domain:   cfg.SFDomain,
	}, rc)
	if err != nil {
		return fail(fmt.Errorf("salesforce login failed: %w", err))
	}
	log.Info("salesforce login successful")

	workbook := sink.NewWorkbook(cfg.WorkbookPath())
	stats := &StatisticsSink{}
	coordinator := &Coordinator{
		Objects:      cfg.ObjectNames,
		Workers:      cfg.Workers,
		Threshold:    cfg.LargeRowThreshold,
		CustomMarker: cfg.CustomFieldMarker,
		LocalFolder:  cfg.LocalFolder,
		Exporter: &ObjectExporter{
			Source:       salesforce.NewFetcher(client, rc, log),
			IsStandard:   cfg.IsStandardField,
			CustomMarker: cfg.CustomFieldMarker,
			Logger:       log,
		},
		Sheets: workbook,
		Stats:  stats,
		Logger: log,
	}

	statuses := coordinator.ExportAll(ctx)
	failed := 0
	for _, st := range statuses {
		if st.Status == model.ObjectFailed {
			failed++
		}
		if err := store.SaveObjectExport(runID, st); err != nil {
			log.Warn("failed to record object status", zap.String("object", st.ObjectName), zap.Error(err))
		}
	}

	if err := workbook.Close(); err != nil {
		return fail(err)
	}
	if err := stats.Flush(cfg.StatsPath()); err != nil {
		return fail(err)
	}
	log.Info("statistics saved", zap.String("path", cfg.StatsPath()))

	if cfg.UploadEnabled {
		uploader, err := drive.NewUploader(ctx, cfg.CredentialsFile, cfg.TokenFile, log)
		if err != nil {
			return fail(fmt.Errorf("drive authentication failed: %w", err))
		}
		if err := uploader.EnsureFolder(ctx, cfg.DriveFolderName); err != nil {
			return fail(fmt.Errorf("drive folder setup failed: %w", err))
		}
		for _, entry := range uploader.UploadDir(ctx, cfg.LocalFolder) {
			if err := store.SaveUploadLog(runID, entry); err != nil {
				log.Warn("failed to record upload log", zap.String("file", entry.FileName), zap.Error(err))
			}
		}
	}

	runStatus := model.RunCompleted
	if failed > 0 {
		runStatus = model.RunCompletedWithErrors
	}
	_ = store.FinishRun(runID, runStatus, failed, "")
	log.Info("pipeline run finished",
		zap.String("status", runStatus),
		zap.Int("objects_failed", failed))
	return nil
}
