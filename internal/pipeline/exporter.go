package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"go-sf-exporter/internal/model"
	"go-sf-exporter/internal/salesforce"
)

// FieldSource resolves an object's field metadata and fetches its records
type FieldSource interface {
	FieldMetadata(ctx context.Context, objectName string) ([]salesforce.FieldDef, error)
	FetchAll(ctx context.Context, objectName string, fields []string) ([]map[string]interface{}, error)
}

// ObjectExporter runs the per-object pipeline: resolve field labels, fetch
// all rows, and rename columns from API names to labels.
type ObjectExporter struct {
	Source       FieldSource
	IsStandard   func(field string) bool
	CustomMarker string
	Logger       *zap.Logger
}

// Export produces the full record table for one object. Any error here is
// scoped to this object and must not abort sibling exports.
func (e *ObjectExporter) Export(ctx context.Context, objectName string) (*model.ExportResult, error) {
	defs, err := e.Source.FieldMetadata(ctx, objectName)
	if err != nil {
		return nil, fmt.Errorf("field resolution for %s failed: %w", objectName, err)
	}

	// Keep standard allowlisted fields plus anything carrying the custom
	// field marker; everything else is dropped.
	desc := model.ObjectDescriptor{Name: objectName, Labels: make(model.FieldLabelMap)}
	for _, def := range defs {
		if e.IsStandard(def.APIName) || strings.Contains(def.APIName, e.CustomMarker) {
			desc.Fields = append(desc.Fields, def.APIName)
			desc.Labels[def.APIName] = def.Label
		}
	}
	if len(desc.Fields) == 0 {
		return nil, fmt.Errorf("no exportable fields for %s", objectName)
	}

	records, err := e.Source.FetchAll(ctx, objectName, desc.Fields)
	if err != nil {
		return nil, fmt.Errorf("fetch for %s failed: %w", objectName, err)
	}

	columns := make([]string, len(desc.Fields))
	for i, field := range desc.Fields {
		label := desc.Labels[field]
		if label == "" {
			label = field
		}
		columns[i] = label
	}

	rows := make([]model.RecordRow, 0, len(records))
	for _, rec := range records {
		row := make(model.RecordRow, len(desc.Fields))
		for i, field := range desc.Fields {
			value, ok := rec[field]
			if !ok {
				value = ""
			}
			row[columns[i]] = value
		}
		rows = append(rows, row)
	}

	e.Logger.Info("object fetched",
		zap.String("object", objectName),
		zap.Int("fields", len(desc.Fields)),
		zap.Int("rows", len(rows)))

	return &model.ExportResult{
		ObjectName: objectName,
		Columns:    columns,
		Rows:       rows,
		RowCount:   len(rows),
	}, nil
}
