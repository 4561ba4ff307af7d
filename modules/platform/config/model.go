package config

import "time"

// Config represents the main client configuration
type Config struct {
	Version  string    `yaml:"version"`
	Settings *Settings `yaml:"settings"`
}

// Settings holds all tunable client settings
type Settings struct {
	// APIBaseURL is the base of the REST surface, e.g. http://localhost:8080/api
	APIBaseURL string `yaml:"api_base_url"`
	// RealtimeURL is the websocket endpoint, e.g. ws://localhost:8080/ws
	RealtimeURL string `yaml:"realtime_url"`

	PageSize        int           `yaml:"page_size"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	SearchDebounce  time.Duration `yaml:"search_debounce"`
	ReconnectDelay  time.Duration `yaml:"reconnect_delay"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`

	LogLevel string `yaml:"log_level"`
}
