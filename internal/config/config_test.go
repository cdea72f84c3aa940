package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dispatch.PollIntervalSeconds != 1 {
		t.Errorf("PollIntervalSeconds = %d, want 1", cfg.Dispatch.PollIntervalSeconds)
	}
	if cfg.Dashboard.Port != 5800 {
		t.Errorf("Dashboard.Port = %d, want 5800", cfg.Dashboard.Port)
	}
	if !cfg.EventFeed.Enabled {
		t.Error("EventFeed should be enabled by default")
	}
	if cfg.DataDir != "data" {
		t.Errorf("DataDir = %q, want data", cfg.DataDir)
	}
	if cfg.Logger.ConsoleLevel != "INFO" {
		t.Errorf("Logger.ConsoleLevel = %q, want INFO", cfg.Logger.ConsoleLevel)
	}
}

func TestValidateConfigClamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dispatch.PollIntervalSeconds = 0
	cfg.EventFeed.PingIntervalSeconds = 500
	cfg.Dashboard.Port = -1
	cfg.DataDir = ""

	ValidateConfig(&cfg)

	if cfg.Dispatch.PollIntervalSeconds != 1 {
		t.Errorf("PollIntervalSeconds = %d, want clamped to 1", cfg.Dispatch.PollIntervalSeconds)
	}
	if cfg.EventFeed.PingIntervalSeconds != 120 {
		t.Errorf("PingIntervalSeconds = %d, want clamped to 120", cfg.EventFeed.PingIntervalSeconds)
	}
	if cfg.Dashboard.Port != 5800 {
		t.Errorf("Dashboard.Port = %d, want default 5800", cfg.Dashboard.Port)
	}
	if cfg.DataDir != "data" {
		t.Errorf("DataDir = %q, want data", cfg.DataDir)
	}
}

func TestLoadConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := DefaultConfig()
	cfg.Channel = "somechannel"
	cfg.Dispatch.PollIntervalSeconds = 5
	if err := SaveConfig(path, &cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Channel != "somechannel" {
		t.Errorf("Channel = %q", loaded.Channel)
	}
	if loaded.Dispatch.PollIntervalSeconds != 5 {
		t.Errorf("PollIntervalSeconds = %d, want 5", loaded.Dispatch.PollIntervalSeconds)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	if !os.IsNotExist(err) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"channel":"x"}`), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	// Unspecified sections keep their defaults.
	if loaded.Dashboard.Port != 5800 {
		t.Errorf("Dashboard.Port = %d, want default", loaded.Dashboard.Port)
	}
}
