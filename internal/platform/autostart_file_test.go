//go:build !windows

package platform

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginFileLifecycle(t *testing.T) {
	item := loginFile{path: filepath.Join(t.TempDir(), "agents", "breathe.item")}

	enabled, err := loginFileEnabled(item, nil)
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, enableLoginFile(item, nil, "/usr/bin/breathe", func(execPath string) string {
		return "run " + execPath
	}))
	content, err := os.ReadFile(item.path)
	require.NoError(t, err)
	assert.Equal(t, "run /usr/bin/breathe", string(content))

	enabled, err = loginFileEnabled(item, nil)
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, disableLoginFile(item, nil))
	require.NoError(t, disableLoginFile(item, nil))
	enabled, err = loginFileEnabled(item, nil)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestLoginFileLocateError(t *testing.T) {
	locateErr := errors.New("no home")

	assert.ErrorIs(t, enableLoginFile(loginFile{}, locateErr, "/usr/bin/breathe", nil), locateErr)
	assert.ErrorIs(t, disableLoginFile(loginFile{}, locateErr), locateErr)
	_, err := loginFileEnabled(loginFile{}, locateErr)
	assert.ErrorIs(t, err, locateErr)
}
