package config

import (
	"encoding/json"
	"os"
)

type Config struct {
	Channel       string            `json:"channel"`
	ActiveProfile string            `json:"activeProfile,omitempty"`
	DataDir       string            `json:"dataDir"`
	Dispatch      DispatchSettings  `json:"dispatch"`
	EventFeed     EventFeedSettings `json:"eventFeed"`
	Dashboard     DashboardSettings `json:"dashboard"`
	Discord       DiscordSettings   `json:"discord"`
	Logger        LoggerSettings    `json:"logger"`
}

type DispatchSettings struct {
	PollIntervalSeconds int `json:"pollIntervalSeconds"`
}

type EventFeedSettings struct {
	Enabled               bool   `json:"enabled"`
	URL                   string `json:"url"`
	PingIntervalSeconds   int    `json:"pingIntervalSeconds"`
	ReconnectDelaySeconds int    `json:"reconnectDelaySeconds"`
}

type DashboardSettings struct {
	Enabled bool   `json:"enabled"`
	Host    string `json:"host"`
	Port    int    `json:"port"`
}

type DiscordSettings struct {
	Enabled   bool   `json:"enabled"`
	BotToken  string `json:"botToken,omitempty"`
	GuildID   string `json:"guildId,omitempty"`
	ChannelID string `json:"channelId,omitempty"`
}

type LoggerSettings struct {
	Save         bool   `json:"save"`
	ConsoleLevel string `json:"consoleLevel"`
	FileLevel    string `json:"fileLevel"`
	AutoClear    bool   `json:"autoClear"`
}

func DefaultConfig() Config {
	return Config{
		DataDir:   "data",
		Dispatch:  DefaultDispatchSettings(),
		EventFeed: DefaultEventFeedSettings(),
		Dashboard: DefaultDashboardSettings(),
		Logger:    DefaultLoggerSettings(),
	}
}

func DefaultDispatchSettings() DispatchSettings {
	return DispatchSettings{
		PollIntervalSeconds: 1,
	}
}

func DefaultEventFeedSettings() EventFeedSettings {
	return EventFeedSettings{
		Enabled:               true,
		URL:                   "ws://127.0.0.1:7474/events",
		PingIntervalSeconds:   27,
		ReconnectDelaySeconds: 10,
	}
}

func DefaultDashboardSettings() DashboardSettings {
	return DashboardSettings{
		Enabled: true,
		Host:    "127.0.0.1",
		Port:    5800,
	}
}

func DefaultLoggerSettings() LoggerSettings {
	return LoggerSettings{
		Save:         true,
		ConsoleLevel: "INFO",
		FileLevel:    "DEBUG",
		AutoClear:    true,
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	ValidateConfig(&config)
	return &config, nil
}

func SaveConfig(path string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ValidateConfig clamps out-of-range values to sane bounds instead of
// rejecting the file.
func ValidateConfig(config *Config) {
	if config.Dispatch.PollIntervalSeconds < 1 {
		config.Dispatch.PollIntervalSeconds = 1
	} else if config.Dispatch.PollIntervalSeconds > 60 {
		config.Dispatch.PollIntervalSeconds = 60
	}

	if config.EventFeed.PingIntervalSeconds < 10 {
		config.EventFeed.PingIntervalSeconds = 10
	} else if config.EventFeed.PingIntervalSeconds > 120 {
		config.EventFeed.PingIntervalSeconds = 120
	}

	if config.EventFeed.ReconnectDelaySeconds < 1 {
		config.EventFeed.ReconnectDelaySeconds = 1
	} else if config.EventFeed.ReconnectDelaySeconds > 300 {
		config.EventFeed.ReconnectDelaySeconds = 300
	}

	if config.Dashboard.Port < 1 || config.Dashboard.Port > 65535 {
		config.Dashboard.Port = DefaultDashboardSettings().Port
	}

	if config.DataDir == "" {
		config.DataDir = "data"
	}
}
