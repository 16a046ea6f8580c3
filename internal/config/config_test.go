package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "login", cfg.SFDomain)
	assert.Equal(t, "files", cfg.LocalFolder)
	assert.Equal(t, "__c", cfg.CustomFieldMarker)
	assert.Equal(t, DefaultLargeRowThreshold, cfg.LargeRowThreshold)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.NotEmpty(t, cfg.ObjectNames)
	assert.True(t, cfg.IsStandardField("Id"))
	assert.False(t, cfg.IsStandardField("RandomField"))
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("EXPORT_OBJECTS", "Account, Contact ,Order")
	t.Setenv("EXPORT_LARGE_ROW_THRESHOLD", "100")
	t.Setenv("EXPORT_WORKERS", "2")
	t.Setenv("LOCAL_FOLDER", "out")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"Account", "Contact", "Order"}, cfg.ObjectNames)
	assert.Equal(t, 100, cfg.LargeRowThreshold)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, filepath.Join("out", "all_data.xlsx"), cfg.WorkbookPath())
	assert.Equal(t, filepath.Join("out", "Pipeline_Logs.csv"), cfg.StatsPath())
}

func TestLoadSpecFile(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "export.yaml")
	spec := `objects:
  - Account
  - Custom_Thing__x
standardFields:
  - Id
  - Name
customFieldMarker: "__x"
`
	require.NoError(t, os.WriteFile(specPath, []byte(spec), 0o644))
	t.Setenv("EXPORT_SPEC_FILE", specPath)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"Account", "Custom_Thing__x"}, cfg.ObjectNames)
	assert.Equal(t, "__x", cfg.CustomFieldMarker)
	assert.True(t, cfg.IsStandardField("Id"))
	assert.False(t, cfg.IsStandardField("OwnerId"))
}

func TestLoadSpecFileMissing(t *testing.T) {
	t.Setenv("EXPORT_SPEC_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
