// Package config loads the blockbridge.yaml daemon configuration. Discovery
// is first-match: an explicit path, then ./blockbridge.yaml, then
// ~/.blockbridge/config.yaml; a missing explicit path is an error, missing
// defaults are not.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	projectConfigName = "blockbridge.yaml"
	homeConfigName    = "config.yaml"
	homeConfigDir     = ".blockbridge"
)

// Config is the daemon startup configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server,omitempty"`
	History HistoryConfig `yaml:"history,omitempty"`
	Tracing TracingConfig `yaml:"tracing,omitempty"`
}

// ServerConfig names the MCP server identity.
type ServerConfig struct {
	Name    string `yaml:"name,omitempty"`
	Version string `yaml:"version,omitempty"`
}

// HistoryConfig controls the invocation history store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
	// Retention is a Go duration string such as "720h". Empty disables pruning.
	Retention string `yaml:"retention,omitempty"`
	// PruneSchedule is a five-field UTC cron expression for maintenance runs.
	PruneSchedule string `yaml:"prune_schedule,omitempty"`
}

// RetentionAge parses the retention duration. A zero duration with nil error
// means pruning is disabled.
func (h HistoryConfig) RetentionAge() (time.Duration, error) {
	if strings.TrimSpace(h.Retention) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(h.Retention)
	if err != nil {
		return 0, fmt.Errorf("config: history retention %q: %w", h.Retention, err)
	}
	return d, nil
}

// TracingConfig controls OTLP trace export.
type TracingConfig struct {
	Endpoint string `yaml:"endpoint,omitempty"`
	Insecure bool   `yaml:"insecure,omitempty"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Server: ServerConfig{Name: "blockbridge"},
		History: HistoryConfig{
			Enabled:       true,
			Retention:     "720h",
			PruneSchedule: "0 * * * *",
		},
	}
}

// Discover resolves the config file location with first-match semantics.
// The boolean is false when no candidate exists and no explicit path was set.
func Discover(explicitPath string) (string, bool, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false, fmt.Errorf("config: resolve working directory: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("config: resolve user home: %w", err)
	}
	return DiscoverFrom(explicitPath, cwd, home)
}

// DiscoverFrom is a testable variant of Discover.
func DiscoverFrom(explicitPath, cwd, home string) (string, bool, error) {
	explicit := strings.TrimSpace(explicitPath) != ""
	var candidates []string
	if explicit {
		candidates = []string{filepath.Clean(strings.TrimSpace(explicitPath))}
	} else {
		candidates = []string{
			filepath.Join(cwd, projectConfigName),
			filepath.Join(home, homeConfigDir, homeConfigName),
		}
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			if explicit {
				return "", false, fmt.Errorf("config: file %q not found", candidate)
			}
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("config: checking %q: %w", candidate, err)
		}
	}
	return "", false, nil
}

// Load reads and decodes a config file over the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
