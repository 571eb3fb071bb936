// Package config loads gateway configuration: a TOML file first, env vars
// on top. Everything has a default, so the bot runs with no config at all.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Defaults used when neither the file nor the environment says otherwise.
const (
	DefaultPort     = 8080
	DefaultDataPath = "data/checkin_data.json"
	DefaultBackend  = "json"
)

// Config is the effective gateway configuration.
type Config struct {
	Port int `toml:"port"`

	// DataPath is the data file (json backend) or database file (sqlite
	// backend). The parent directory is created if absent.
	DataPath string `toml:"data_path"`

	// StorageBackend selects the repository: "json" or "sqlite".
	StorageBackend string `toml:"storage_backend"`

	// WebhookToken, when set, must accompany every inbound event in the
	// X-Webhook-Token header.
	WebhookToken string `toml:"webhook_token"`

	// ExtendedLeaderboards registers the all-time / days / today boards
	// in addition to the monthly medal board.
	ExtendedLeaderboards bool `toml:"extended_leaderboards"`
}

// Load builds the configuration: defaults, then the TOML file at path (a
// missing file is not an error), then env-var overrides (PORT, DATA_PATH,
// STORAGE_BACKEND, WEBHOOK_TOKEN, EXTENDED_LEADERBOARDS).
func Load(path string) (Config, error) {
	cfg := Config{
		Port:           DefaultPort,
		DataPath:       DefaultDataPath,
		StorageBackend: DefaultBackend,
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: decoding %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("DATA_PATH"); v != "" {
		cfg.DataPath = v
	}
	if v := os.Getenv("STORAGE_BACKEND"); v != "" {
		cfg.StorageBackend = v
	}
	if v := os.Getenv("WEBHOOK_TOKEN"); v != "" {
		cfg.WebhookToken = v
	}
	if v := os.Getenv("EXTENDED_LEADERBOARDS"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid EXTENDED_LEADERBOARDS %q: %w", v, err)
		}
		cfg.ExtendedLeaderboards = enabled
	}

	if cfg.StorageBackend != "json" && cfg.StorageBackend != "sqlite" {
		return Config{}, fmt.Errorf("config: unknown storage backend %q (want json or sqlite)", cfg.StorageBackend)
	}

	return cfg, nil
}
