package filter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filters.yaml")

	original, err := ApplyPreset(PresetClimateOnly)
	require.NoError(t, err)
	require.NoError(t, SaveFile(original, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original.Criteria(), loaded.Criteria())
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFile_IncompleteSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("filters:\n  - name: stage\n    enabled: true\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
