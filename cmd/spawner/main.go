package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mediaspawn/spawner-go/internal/app"
	"github.com/mediaspawn/spawner-go/internal/config"
	"github.com/mediaspawn/spawner-go/internal/logger"
	"github.com/mediaspawn/spawner-go/internal/version"
)

var (
	configFile = flag.String("config", "config.json", "Path to configuration file")
	debug      = flag.Bool("debug", false, "Enable debug logging")
	genConfig  = flag.Bool("generate-config", false, "Generate a sample configuration file")
)

func main() {
	flag.Parse()

	if *genConfig {
		setupBasicLogger(*debug)
		generateSampleConfig()
		return
	}

	cfg, err := loadOrCreateConfig(*configFile)
	if err != nil {
		setupBasicLogger(*debug)
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if cfg.Channel == "" {
		setupBasicLogger(*debug)
		slog.Error("Channel is required in configuration")
		os.Exit(1)
	}

	logSettings := cfg.Logger
	if *debug {
		logSettings.ConsoleLevel = "DEBUG"
		logSettings.FileLevel = "DEBUG"
	}

	log, err := logger.Setup(logSettings)
	if err != nil {
		setupBasicLogger(*debug)
		slog.Error("Failed to setup logger", "error", err)
		os.Exit(1)
	}
	defer log.Close()

	slog.Info("Media Spawner", "version", version.Version)

	a := app.New(cfg, *configFile)
	if err := a.Run(); err != nil {
		slog.Error("Spawner error", "error", err)
		os.Exit(1)
	}
}

func setupBasicLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func loadOrCreateConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file not found: %s. Run with -generate-config to create a sample", path)
		}
		return nil, err
	}
	return cfg, nil
}

func generateSampleConfig() {
	cfg := config.DefaultConfig()
	cfg.Channel = "your_channel_name"

	if err := config.SaveConfig("config.json", &cfg); err != nil {
		slog.Error("Failed to write sample configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("Sample configuration written", "path", "config.json")
}
