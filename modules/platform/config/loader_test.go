package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), DefaultConfigFileName))

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Settings.PageSize != 25 {
		t.Errorf("expected default page size 25, got %d", cfg.Settings.PageSize)
	}
	if cfg.Settings.SearchDebounce != 300*time.Millisecond {
		t.Errorf("expected default debounce 300ms, got %v", cfg.Settings.SearchDebounce)
	}

	// Plain Load must not create the file
	if _, err := os.Stat(loader.Path()); !os.IsNotExist(err) {
		t.Error("Load() should not create the config file")
	}
}

func TestLoadWithCreateWritesFile(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "nested", DefaultConfigFileName))

	if _, err := loader.LoadWithCreate(true); err != nil {
		t.Fatalf("LoadWithCreate() error: %v", err)
	}
	if _, err := os.Stat(loader.Path()); err != nil {
		t.Errorf("expected config file to exist: %v", err)
	}
}

func TestLoadSparseFileFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	content := "version: \"1.0\"\nsettings:\n  api_base_url: http://example.com/api\n  page_size: 10\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := NewLoader(path).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Settings.APIBaseURL != "http://example.com/api" {
		t.Errorf("explicit value lost: %s", cfg.Settings.APIBaseURL)
	}
	if cfg.Settings.PageSize != 10 {
		t.Errorf("explicit page size lost: %d", cfg.Settings.PageSize)
	}
	if cfg.Settings.ReconnectDelay != 5*time.Second {
		t.Errorf("expected default reconnect delay, got %v", cfg.Settings.ReconnectDelay)
	}
	if cfg.Settings.RealtimeURL != "ws://localhost:8080/ws" {
		t.Errorf("expected default realtime URL, got %s", cfg.Settings.RealtimeURL)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), DefaultConfigFileName))

	cfg := DefaultConfig()
	cfg.Settings.PageSize = 50
	cfg.Settings.LogLevel = "debug"
	if err := loader.Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Settings.PageSize != 50 {
		t.Errorf("expected page size 50, got %d", loaded.Settings.PageSize)
	}
	if loaded.Settings.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %s", loaded.Settings.LogLevel)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	if err := os.WriteFile(path, []byte("{not yaml: ["), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := NewLoader(path).Load(); err == nil {
		t.Error("expected error for malformed config file")
	}
}
