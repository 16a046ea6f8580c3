package model

import "time"

// StatisticsRecord captures the timing of one successful object export.
// Immutable once created; persisted by appending after any existing records.
type StatisticsRecord struct {
	ObjectName      string    `json:"object_name"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds float64   `json:"duration_seconds"`
	LastRefreshDate string    `json:"last_refresh_date"` // YYYY-MM-DD
}

// UploadLogEntry records one Drive upload attempt
type UploadLogEntry struct {
	FileName        string    `json:"file_name"`
	Operation       string    `json:"operation"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds float64   `json:"duration_seconds"`
	Success         bool      `json:"success"`
	Message         string    `json:"message"`
}
