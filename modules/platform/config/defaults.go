package config

import "time"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Version:  "1.0",
		Settings: DefaultSettings(),
	}
}

// DefaultSettings returns default client settings
func DefaultSettings() *Settings {
	return &Settings{
		APIBaseURL:      "http://localhost:8080/api",
		RealtimeURL:     "ws://localhost:8080/ws",
		PageSize:        25,
		RefreshInterval: 30 * time.Second,
		SearchDebounce:  300 * time.Millisecond,
		ReconnectDelay:  5 * time.Second,
		RequestTimeout:  15 * time.Second,
		LogLevel:        "info",
	}
}
