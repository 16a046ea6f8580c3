package model

import "time"

// Run statuses as stored in the runs table
const (
	RunPending             = "pending"
	RunRunning             = "running"
	RunCompleted           = "completed"
	RunCompletedWithErrors = "completed_with_errors"
	RunFailed              = "failed"
)

// Object export statuses
const (
	ObjectSuccess = "success"
	ObjectFailed  = "failed"
)

// ObjectStatus is the explicit per-object outcome of a run. A failed object
// gets a status row even though it never gets a statistics record.
type ObjectStatus struct {
	ObjectName  string     `json:"object_name"`
	Status      string     `json:"status"`
	RowCount    int        `json:"row_count"`
	Destination string     `json:"destination,omitempty"` // sheet name or file path
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// RunSummary is the stored state of a pipeline run
type RunSummary struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	ObjectsTotal  int        `json:"objects_total"`
	ObjectsFailed int        `json:"objects_failed"`
	Error         string     `json:"error,omitempty"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
}
