// Package config handles the global configuration file holding API keys
// and the lookup cache location.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/arex/config.yml.
// Environment variables override the file: S2_API_KEY and ANTHROPIC_API_KEY.
type GlobalConfig struct {
	S2APIKey        string `yaml:"s2_api_key,omitempty"`
	AnthropicAPIKey string `yaml:"anthropic_api_key,omitempty"`
	CachePath       string `yaml:"cache_path,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "arex"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
	// DefaultCacheFile is the lookup cache filename inside the config dir.
	DefaultCacheFile = "lookups.db"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/arex/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.CachePath != "" {
		cfg.CachePath = ExpandTilde(cfg.CachePath)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// Save writes the global configuration, creating the directory if needed.
func (c *GlobalConfig) Save() error {
	path := GlobalConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding global config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing global config: %w", err)
	}

	globalConfigCache = nil
	return nil
}

// ResolveS2Key returns the Semantic Scholar API key, preferring the
// environment over the config file. Empty means anonymous access.
func (c *GlobalConfig) ResolveS2Key() string {
	if key := os.Getenv("S2_API_KEY"); key != "" {
		return key
	}
	return c.S2APIKey
}

// ResolveAnthropicKey returns the Anthropic API key, preferring the
// environment. Empty disables the LLM fallback.
func (c *GlobalConfig) ResolveAnthropicKey() string {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return key
	}
	return c.AnthropicAPIKey
}

// ResolveCachePath returns the lookup cache path, defaulting to
// lookups.db next to the config file.
func (c *GlobalConfig) ResolveCachePath() string {
	if c.CachePath != "" {
		return c.CachePath
	}
	path := GlobalConfigPath()
	if path == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(path), DefaultCacheFile)
}

// ExpandTilde expands a leading ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
