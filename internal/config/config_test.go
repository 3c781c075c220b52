package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("TRANSPARENCY_API_URL")
	os.Unsetenv("TRANSPARENCY_TIMEOUT")
	t.Setenv("TRANSPARENCY_STATE_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:5000", cfg.APIBaseURL)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TRANSPARENCY_API_URL", "https://api.example.com")
	t.Setenv("TRANSPARENCY_STATE_DIR", t.TempDir())
	t.Setenv("TRANSPARENCY_TIMEOUT", "5")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://api.example.com", cfg.APIBaseURL)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func TestStatePathCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	cfg := &Config{StateDir: dir}

	p, err := cfg.StatePath("state.db")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "state.db"), p)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
