// Package config resolves client configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/altibbe/transparency/internal/utils"
)

// Config carries every knob the CLI reads at startup.
type Config struct {
	// APIBaseURL is the root of the remote product/report/AI API.
	APIBaseURL string
	// StateDir holds the client state database (credentials, report cache).
	StateDir string
	// RequestTimeout bounds each HTTP call. Zero disables the bound; the
	// default keeps a hung request from pinning the loading flag forever.
	RequestTimeout time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present; real environment wins.
func Load() (*Config, error) {
	_ = godotenv.Load() // absent file is fine

	cfg := &Config{
		APIBaseURL: utils.SafeEnv("TRANSPARENCY_API_URL", "http://localhost:5000"),
		StateDir:   utils.SafeEnv("TRANSPARENCY_STATE_DIR", ""),
	}
	if cfg.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfg.StateDir = filepath.Join(home, ".transparency")
	}

	cfg.RequestTimeout = 30 * time.Second
	if raw := os.Getenv("TRANSPARENCY_TIMEOUT"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs >= 0 {
			cfg.RequestTimeout = time.Duration(secs) * time.Second
		}
	}
	return cfg, nil
}

// StatePath returns the path of a file inside the state directory, creating
// the directory on first use.
func (c *Config) StatePath(name string) (string, error) {
	if err := os.MkdirAll(c.StateDir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(c.StateDir, name), nil
}
