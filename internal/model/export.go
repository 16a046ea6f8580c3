package model

// RecordRow is a single exported record keyed by field label
type RecordRow map[string]interface{}

// FieldLabelMap maps Salesforce field API names to their human-readable labels
type FieldLabelMap map[string]string

// ObjectDescriptor describes one object to export: its name plus the
// resolved field API names, in the order they were returned by metadata
type ObjectDescriptor struct {
	Name   string        `json:"name"`
	Fields []string      `json:"fields"`
	Labels FieldLabelMap `json:"labels"`
}

// ExportResult is the outcome of exporting a single object
type ExportResult struct {
	ObjectName string      `json:"object_name"`
	Columns    []string    `json:"columns"` // field labels, in resolved field order
	Rows       []RecordRow `json:"rows"`
	RowCount   int         `json:"row_count"`
}
