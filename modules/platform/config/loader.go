package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFileName is the default config file name
	DefaultConfigFileName = "nimbletrace.yaml"
)

// Loader handles configuration loading and saving
type Loader struct {
	configPath string
}

// NewLoader creates a new config loader
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
	}
}

// Load loads configuration from file
func (l *Loader) Load() (*Config, error) {
	return l.LoadWithCreate(false)
}

// LoadWithCreate loads configuration from file, optionally creating it if missing
func (l *Loader) LoadWithCreate(createIfMissing bool) (*Config, error) {
	if _, err := os.Stat(l.configPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if createIfMissing {
			if err := l.Save(cfg); err != nil {
				return nil, fmt.Errorf("failed to create config file: %w", err)
			}
		}
		return cfg, nil
	}

	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Save writes configuration to file
func (l *Loader) Save(cfg *Config) error {
	dir := filepath.Dir(l.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(l.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Path returns the path the loader reads from
func (l *Loader) Path() string {
	return l.configPath
}

// applyDefaults fills in zero-valued fields so a sparse config file
// still yields a fully usable configuration.
func applyDefaults(cfg *Config) {
	def := DefaultSettings()
	if cfg.Settings == nil {
		cfg.Settings = def
		return
	}

	s := cfg.Settings
	if s.APIBaseURL == "" {
		s.APIBaseURL = def.APIBaseURL
	}
	if s.RealtimeURL == "" {
		s.RealtimeURL = def.RealtimeURL
	}
	if s.PageSize <= 0 {
		s.PageSize = def.PageSize
	}
	if s.RefreshInterval <= 0 {
		s.RefreshInterval = def.RefreshInterval
	}
	if s.SearchDebounce <= 0 {
		s.SearchDebounce = def.SearchDebounce
	}
	if s.ReconnectDelay <= 0 {
		s.ReconnectDelay = def.ReconnectDelay
	}
	if s.RequestTimeout <= 0 {
		s.RequestTimeout = def.RequestTimeout
	}
	if s.LogLevel == "" {
		s.LogLevel = def.LogLevel
	}
}
