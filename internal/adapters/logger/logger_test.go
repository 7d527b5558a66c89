package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cra.log")

	lg, err := NewLogger(Options{File: path, JSON: true})
	require.NoError(t, err)

	lg.Info("Dataset loaded", "rows", 3)
	require.NoError(t, lg.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Dataset loaded")
}

func TestNewLoggerBadPath(t *testing.T) {
	_, err := NewLogger(Options{File: filepath.Join(t.TempDir(), "missing", "cra.log")})
	assert.Error(t, err)
}

func TestNopLogger(t *testing.T) {
	lg := NewNopLogger()
	lg.Debug("ignored", "k", "v")
	lg.Error("ignored")
	assert.NoError(t, lg.Close())
}
