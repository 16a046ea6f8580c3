package utils

import (
	"fmt"
	"path/filepath"
	"strings"
)

// maxSheetNameLen is Excel's hard cap on sheet names
const maxSheetNameLen = 31

// SheetName derives a workbook sheet name from an object API name: the
// custom-object marker is stripped and underscores become spaces.
func SheetName(objectName, customMarker string) string {
	name := strings.ReplaceAll(objectName, customMarker, "")
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.TrimSpace(name)
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}
	return name
}

// CellString renders a record value for a spreadsheet or CSV cell.
// Missing and null values render as empty strings.
func CellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		// JSON numbers arrive as float64; keep integers unsuffixed
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	case bool:
		return fmt.Sprintf("%t", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// IsUploadable reports whether a local artifact should be pushed to Drive
func IsUploadable(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".csv":
		return true
	default:
		return false
	}
}
