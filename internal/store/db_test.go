package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sf-exporter/internal/model"
)

func initTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, InitDB(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() { _ = CloseDB() })
}

func TestRunLifecycle(t *testing.T) {
	initTestDB(t)

	require.NoError(t, SaveRun("run-1", 3))
	require.NoError(t, UpdateRunStatus("run-1", model.RunRunning))
	require.NoError(t, FinishRun("run-1", model.RunCompletedWithErrors, 1, ""))

	run, err := GetRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, model.RunCompletedWithErrors, run.Status)
	assert.Equal(t, 3, run.ObjectsTotal)
	assert.Equal(t, 1, run.ObjectsFailed)
	require.NotNil(t, run.FinishedAt)

	runs, err := ListRuns()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestObjectExports(t *testing.T) {
	initTestDB(t)
	require.NoError(t, SaveRun("run-1", 2))

	now := time.Now().UTC()
	done := now.Add(2 * time.Second)
	require.NoError(t, SaveObjectExport("run-1", model.ObjectStatus{
		ObjectName:  "Account",
		Status:      model.ObjectSuccess,
		RowCount:    10,
		Destination: "Account",
		StartedAt:   now,
		FinishedAt:  &done,
	}))
	require.NoError(t, SaveObjectExport("run-1", model.ObjectStatus{
		ObjectName: "Contact",
		Status:     model.ObjectFailed,
		Error:      "max retries reached",
		StartedAt:  now,
	}))

	statuses, err := ListObjectExports("run-1")
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.Equal(t, model.ObjectSuccess, statuses[0].Status)
	assert.Equal(t, 10, statuses[0].RowCount)
	assert.Equal(t, model.ObjectFailed, statuses[1].Status)
	assert.Contains(t, statuses[1].Error, "max retries")
	assert.Nil(t, statuses[1].FinishedAt)
}

func TestUploadLogs(t *testing.T) {
	initTestDB(t)
	require.NoError(t, SaveRun("run-1", 1))

	start := time.Now().UTC()
	require.NoError(t, SaveUploadLog("run-1", model.UploadLogEntry{
		FileName:        "all_data.xlsx",
		Operation:       "Upload Data",
		StartTime:       start,
		EndTime:         start.Add(time.Second),
		DurationSeconds: 1.0,
		Success:         true,
		Message:         "File 'all_data.xlsx' uploaded successfully.",
	}))

	entries, err := ListUploadLogs("run-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Success)
	assert.Equal(t, "all_data.xlsx", entries[0].FileName)
}
