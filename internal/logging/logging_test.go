package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "breathe.log")

	logger, err := New(Options{OutputPaths: []string{path}})
	require.NoError(t, err)
	logger.Info("phase advanced", zap.String("phase", "inhale"))
	logger.Debug("hidden")
	_ = logger.Sync()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"phase advanced"`)
	assert.Contains(t, string(content), `"phase":"inhale"`)
	assert.NotContains(t, string(content), "hidden")
}

func TestNewDebugLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "breathe.log")

	logger, err := New(Options{Debug: true, OutputPaths: []string{path}})
	require.NoError(t, err)
	logger.Debug("countdown started")
	_ = logger.Sync()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "countdown started")
	assert.Contains(t, string(content), "DEBUG")
}
