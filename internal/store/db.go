// Package store persists run tracking in sqlite: runs, per-object export
// outcomes, and Drive upload logs.
package store

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"go-sf-exporter/internal/model"
)

var db *sql.DB

// InitDB opens the sqlite database and creates tables if needed
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	runTable := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		status TEXT,
		objects_total INTEGER,
		objects_failed INTEGER,
		error TEXT,
		started_at DATETIME,
		finished_at DATETIME
	);
	`
	objectTable := `
	CREATE TABLE IF NOT EXISTS object_exports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		object_name TEXT,
		status TEXT,
		row_count INTEGER,
		destination TEXT,
		error TEXT,
		started_at DATETIME,
		finished_at DATETIME
	);
	`
	uploadTable := `
	CREATE TABLE IF NOT EXISTS upload_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		file_name TEXT,
		operation TEXT,
		success INTEGER,
		message TEXT,
		duration_seconds REAL,
		started_at DATETIME,
		finished_at DATETIME
	);
	`

	for _, ddl := range []string{runTable, objectTable, uploadTable} {
		if _, err := db.Exec(ddl); err != nil {
			return err
		}
	}
	return nil
}

// CloseDB closes the database handle
func CloseDB() error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// SaveRun stores a new pipeline run in pending state
func SaveRun(runID string, objectsTotal int) error {
	now := time.Now().UTC()
	_, err := db.Exec(
		`INSERT INTO runs (id, status, objects_total, objects_failed, error, started_at) VALUES (?, ?, ?, 0, '', ?)`,
		runID, model.RunPending, objectsTotal, now)
	return err
}

// UpdateRunStatus updates the status of a run
func UpdateRunStatus(runID, status string) error {
	_, err := db.Exec(`UPDATE runs SET status = ? WHERE id = ?`, status, runID)
	return err
}

// FinishRun records a run's terminal state
func FinishRun(runID, status string, objectsFailed int, errMsg string) error {
	now := time.Now().UTC()
	_, err := db.Exec(
		`UPDATE runs SET status = ?, objects_failed = ?, error = ?, finished_at = ? WHERE id = ?`,
		status, objectsFailed, errMsg, now, runID)
	return err
}

// ListRuns returns all runs, newest first
func ListRuns() ([]model.RunSummary, error) {
	rows, err := db.Query(
		`SELECT id, status, objects_total, objects_failed, error, started_at, finished_at FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.RunSummary
	for rows.Next() {
		var run model.RunSummary
		var finished sql.NullTime
		if err := rows.Scan(&run.ID, &run.Status, &run.ObjectsTotal, &run.ObjectsFailed,
			&run.Error, &run.StartedAt, &finished); err != nil {
			return nil, err
		}
		if finished.Valid {
			run.FinishedAt = &finished.Time
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches one run by ID
func GetRun(runID string) (*model.RunSummary, error) {
	var run model.RunSummary
	var finished sql.NullTime
	err := db.QueryRow(
		`SELECT id, status, objects_total, objects_failed, error, started_at, finished_at FROM runs WHERE id = ?`,
		runID).Scan(&run.ID, &run.Status, &run.ObjectsTotal, &run.ObjectsFailed,
		&run.Error, &run.StartedAt, &finished)
	if err != nil {
		return nil, err
	}
	if finished.Valid {
		run.FinishedAt = &finished.Time
	}
	return &run, nil
}

// SaveObjectExport records the explicit outcome of one object's export
func SaveObjectExport(runID string, st model.ObjectStatus) error {
	_, err := db.Exec(
		`INSERT INTO object_exports (run_id, object_name, status, row_count, destination, error, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, st.ObjectName, st.Status, st.RowCount, st.Destination, st.Error, st.StartedAt, st.FinishedAt)
	return err
}

// ListObjectExports returns all object outcomes for a run
func ListObjectExports(runID string) ([]model.ObjectStatus, error) {
	rows, err := db.Query(
		`SELECT object_name, status, row_count, destination, error, started_at, finished_at
		 FROM object_exports WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []model.ObjectStatus
	for rows.Next() {
		var st model.ObjectStatus
		var finished sql.NullTime
		if err := rows.Scan(&st.ObjectName, &st.Status, &st.RowCount, &st.Destination,
			&st.Error, &st.StartedAt, &finished); err != nil {
			return nil, err
		}
		if finished.Valid {
			st.FinishedAt = &finished.Time
		}
		statuses = append(statuses, st)
	}
	return statuses, rows.Err()
}

// SaveUploadLog records one Drive upload attempt
func SaveUploadLog(runID string, entry model.UploadLogEntry) error {
	_, err := db.Exec(
		`INSERT INTO upload_logs (run_id, file_name, operation, success, message, duration_seconds, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, entry.FileName, entry.Operation, entry.Success, entry.Message,
		entry.DurationSeconds, entry.StartTime, entry.EndTime)
	return err
}

// ListUploadLogs returns all upload attempts for a run
func ListUploadLogs(runID string) ([]model.UploadLogEntry, error) {
	rows, err := db.Query(
		`SELECT file_name, operation, success, message, duration_seconds, started_at, finished_at
		 FROM upload_logs WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.UploadLogEntry
	for rows.Next() {
		var entry model.UploadLogEntry
		if err := rows.Scan(&entry.FileName, &entry.Operation, &entry.Success, &entry.Message,
			&entry.DurationSeconds, &entry.StartTime, &entry.EndTime); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
