package pipeline

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"go-sf-exporter/internal/model"
)

const statsTimeLayout = "2006-01-02 15:04:05"

var statsHeader = []string{"Object Name", "Start Time", "End Time", "Duration (Seconds)", "Last Refresh Date"}

// StatisticsSink accumulates per-object timing records in completion order
// and persists them by appending after any previously persisted records.
type StatisticsSink struct {
	mu      sync.Mutex
	records []model.StatisticsRecord
}

// Append adds one record. Called from concurrent export tasks; order is
// completion order, not configured order.
func (s *StatisticsSink) Append(rec model.StatisticsRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

// Records returns a copy of the accumulated records
func (s *StatisticsSink) Records() []model.StatisticsRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.StatisticsRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Flush persists the accumulated records: existing rows in the file are
// kept and the new records are written after them. Append-via-rewrite;
// a single run per statistics file is assumed.
func (s *StatisticsSink) Flush(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := readExistingRows(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create statistics file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(statsHeader); err != nil {
		return fmt.Errorf("failed to write statistics header: %w", err)
	}
	for _, row := range existing {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to rewrite statistics row: %w", err)
		}
	}
	for _, rec := range s.records {
		row := []string{
			rec.ObjectName,
			rec.StartTime.Format(statsTimeLayout),
			rec.EndTime.Format(statsTimeLayout),
			strconv.FormatFloat(rec.DurationSeconds, 'f', 2, 64),
			rec.LastRefreshDate,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write statistics row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// readExistingRows loads previously persisted records, minus the header.
// A missing file means a first run.
func readExistingRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read existing statistics: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse existing statistics: %w", err)
	}
	if len(rows) > 0 {
		rows = rows[1:] // drop header
	}
	return rows, nil
}
