package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// CachePath returns the per-project cache file path for a project directory.
func CachePath(projectDir string) string {
	return filepath.Join(projectDir, CacheFile)
}

// CacheExists reports whether a cached config exists for the project.
func CacheExists(projectDir string) bool {
	_, err := os.Stat(CachePath(projectDir))
	return err == nil
}

// LoadCache reads and validates the cached config for a project directory.
// Callers that can run standalone (check-dns, setup-server, setup-secrets)
// treat a missing cache as a fatal missing precondition.
func LoadCache(projectDir string) (*CollectedConfig, error) {
	data, err := os.ReadFile(CachePath(projectDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no cached configuration found in %s (run 'slipway init' first)", projectDir)
		}
		return nil, fmt.Errorf("failed to read cached config: %w", err)
	}

	var cfg CollectedConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse cached config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cached config is invalid: %w", err)
	}

	return &cfg, nil
}

// LoadFile reads and validates a config from an explicit file path, for
// non-interactive runs that bypass the per-project cache.
func LoadFile(path string) (*CollectedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg CollectedConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s is invalid: %w", path, err)
	}

	return &cfg, nil
}

// SaveCache overwrites the per-project cache wholesale.
func (c *CollectedConfig) SaveCache(projectDir string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(CachePath(projectDir), data, PermConfigFile); err != nil {
		return fmt.Errorf("failed to write cached config: %w", err)
	}

	return nil
}
