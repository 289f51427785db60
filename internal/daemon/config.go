// Package daemon hosts the server configuration and bootstrap: it opens the
// store, wires the services, and serves the terminal-facing HTTP API.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the full daemon configuration, loaded from pulso.toml.
type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	Metrics MetricsConfig `toml:"metrics"`
	Event   EventConfig   `toml:"event"`
}

// APIConfig configures the HTTP listener.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig configures the embedded store.
type StorageConfig struct {
	// DataDir holds the SQLite database. Defaults to ~/.pulso.
	DataDir string `toml:"data_dir"`
}

// MetricsConfig toggles the Prometheus /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// EventConfig carries event-wide settings.
type EventConfig struct {
	// BaseURL is the public origin encoded into user QR codes.
	BaseURL string `toml:"base_url"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8519,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Event: EventConfig{
			BaseURL: "http://localhost:5173",
		},
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error:
// defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = filepath.Join(defaultDataDir(), "config.toml")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ListenAddr returns the host:port the API binds to.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.API.Host, c.API.Port)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pulso"
	}
	return filepath.Join(home, ".pulso")
}
