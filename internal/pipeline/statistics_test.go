package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sf-exporter/internal/model"
)

func statsRecord(name string) model.StatisticsRecord {
	start := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Second)
	return model.StatisticsRecord{
		ObjectName:      name,
		StartTime:       start,
		EndTime:         end,
		DurationSeconds: end.Sub(start).Seconds(),
		LastRefreshDate: end.Format("2006-01-02"),
	}
}

func readStats(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestFlushWritesHeaderAndRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.csv")

	sink := &StatisticsSink{}
	sink.Append(statsRecord("Account"))
	sink.Append(statsRecord("Contact"))
	require.NoError(t, sink.Flush(path))

	rows := readStats(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, statsHeader, rows[0])
	assert.Equal(t, "Account", rows[1][0])
	assert.Equal(t, "2026-08-25 10:00:00", rows[1][1])
	assert.Equal(t, "90.00", rows[1][3])
	assert.Equal(t, "2026-08-25", rows[1][4])
	assert.Equal(t, "Contact", rows[2][0])
}

func TestFlushAppendsToExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.csv")

	first := &StatisticsSink{}
	first.Append(statsRecord("Account"))
	require.NoError(t, first.Flush(path))

	second := &StatisticsSink{}
	second.Append(statsRecord("Order"))
	require.NoError(t, second.Flush(path))

	rows := readStats(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, statsHeader, rows[0])
	assert.Equal(t, "Account", rows[1][0])
	assert.Equal(t, "Order", rows[2][0])
}

func TestRecordsReturnsCopy(t *testing.T) {
	sink := &StatisticsSink{}
	sink.Append(statsRecord("Account"))

	records := sink.Records()
	records[0].ObjectName = "mutated"
	assert.Equal(t, "Account", sink.Records()[0].ObjectName)
}
