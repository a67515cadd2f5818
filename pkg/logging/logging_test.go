package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigure_StderrMode(t *testing.T) {
	require.NoError(t, Configure(true, nil))
	Debug("test debug message")
	Info("test info message")
	require.NotNil(t, current())
}

func TestConfigure_FileMode(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Configure(false, &FileOptions{Path: dir + "/relaynet.log"}))
	Info("written to file")
	require.NoError(t, Sync())
}
