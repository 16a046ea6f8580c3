package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go-sf-exporter/internal/model"
	"go-sf-exporter/pkg/utils"
)

// WriteCSV writes one object's rows to a standalone delimited file. Large
// objects land here instead of the shared workbook; each object writes a
// distinct file, so no serialization is needed.
func WriteCSV(path string, columns []string, rows []model.RecordRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range rows {
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = utils.CellString(row[col])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
