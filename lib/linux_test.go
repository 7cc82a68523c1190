//go:build !windows

package fissionlib

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommandReportsOutput(t *testing.T) {
	err := runCommand(context.Background(), "sh", "-c", "echo broken >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")

	assert.NoError(t, runCommand(context.Background(), "true"))
}

func TestTrimDisplay(t *testing.T) {
	assert.Equal(t, ":0", trimDisplay(":0.0"))
	assert.Equal(t, ":1", trimDisplay(":1"))
}

func TestNewBackendByName(t *testing.T) {
	b, err := NewBackend(BackendFeh)
	require.NoError(t, err)
	assert.Equal(t, BackendFeh, b.Name())

	_, err = NewBackend(BackendWindows)
	assert.Error(t, err)
}
