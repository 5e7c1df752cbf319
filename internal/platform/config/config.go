// Package config loads process configuration into the environment.
//
// Settings are read by each platform package from environment variables. Load fills
// the environment from a .env file and, optionally, from a YAML file named by
// CONFIG_FILE. Variables already present in the environment always win.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// EnvConfigFile names the optional YAML file with default settings.
const EnvConfigFile = "CONFIG_FILE"

// Load reads .env and the optional YAML file into the environment.
func Load() error {
	// godotenv.Load never overrides variables that are already set.
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	path := os.Getenv(EnvConfigFile)
	if path == "" {
		return nil
	}
	return LoadYAML(path)
}

// LoadYAML seeds unset environment variables from a flat YAML mapping such as
//
//	DB_HOST: localhost
//	SESSION_TTL: 168h
func LoadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	values := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	for key, v := range values {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(v)); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}
	slog.Info("config file loaded", "path", path, "keys", len(values))
	return nil
}

// String returns the value of key, or def when it is unset or empty.
func String(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// Bool returns the boolean value of key, or def when it is unset or malformed.
func Bool(key string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

// Int returns the integer value of key, or def when it is unset or malformed.
func Int(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

// Duration returns the duration value of key (e.g. "168h"), or def when it is unset
// or malformed.
func Duration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// List splits a comma-separated value of key into trimmed, non-empty items.
func List(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
