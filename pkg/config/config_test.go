package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":9500", cfg.ListenAddr)
	require.Equal(t, 5*time.Second, cfg.CleanupInterval)
	require.Equal(t, 1024, cfg.MaxFragmentsPerMessage)
}

func TestLoad_FromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relaynet.yaml")
	contents := "listen_addr: \":9999\"\ndebug: true\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9999", cfg.ListenAddr)
	require.True(t, cfg.Debug)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("RELAYNET_LISTEN_ADDR", ":7777")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":7777", cfg.ListenAddr)
}
