// Package sink materializes export results: a shared multi-sheet workbook
// for small objects and standalone CSV files for large ones.
package sink

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"go-sf-exporter/internal/model"
	"go-sf-exporter/pkg/utils"
)

const defaultSheet = "Sheet1"

// Workbook accumulates sheets in memory and saves on Close. It is not
// goroutine-safe: the coordinator serializes all WriteSheet calls.
type Workbook struct {
	file   *excelize.File
	path   string
	sheets int
}

// NewWorkbook creates an empty workbook that will be saved at path
func NewWorkbook(path string) *Workbook {
	return &Workbook{file: excelize.NewFile(), path: path}
}

// WriteSheet appends one sheet: a header row of column labels followed by
// the record rows in order.
func (w *Workbook) WriteSheet(name string, columns []string, rows []model.RecordRow) error {
	if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", name, err)
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := w.file.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header for sheet %q: %w", name, err)
	}

	for i, row := range rows {
		values := make([]interface{}, len(columns))
		for j, col := range columns {
			values[j] = utils.CellString(row[col])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := w.file.SetSheetRow(name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of sheet %q: %w", i+1, name, err)
		}
	}

	w.sheets++
	return nil
}

// SheetCount reports how many sheets have been written
func (w *Workbook) SheetCount() int {
	return w.sheets
}

// Close saves the workbook. The default empty sheet is dropped once at
// least one real sheet exists.
func (w *Workbook) Close() error {
	if w.sheets > 0 {
		_ = w.file.DeleteSheet(defaultSheet)
	}
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", w.path, err)
	}
	return w.file.Close()
}
