package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mediaspawn/spawner-go/internal/config"
	"github.com/mediaspawn/spawner-go/internal/database"
	"github.com/mediaspawn/spawner-go/internal/dispatch"
	"github.com/mediaspawn/spawner-go/internal/eventfeed"
	"github.com/mediaspawn/spawner-go/internal/models"
	"github.com/mediaspawn/spawner-go/internal/notifications"
	"github.com/mediaspawn/spawner-go/internal/profiles"
	"github.com/mediaspawn/spawner-go/internal/web"
)

// App wires the engine's components together: storage, the dispatcher,
// the event feed, notifications, the dashboard, and config reloading.
type App struct {
	config     *config.Config
	configPath string

	db            *database.DB
	repo          *profiles.Repository
	dispatcher    *dispatch.Dispatcher
	feed          *eventfeed.Client
	webServer     *web.Server
	notifications *notifications.Manager
	configWatcher *config.Watcher

	ctx    context.Context
	cancel context.CancelFunc

	mu sync.RWMutex
}

func New(cfg *config.Config, configPath string) *App {
	return &App{
		config:     cfg,
		configPath: configPath,
	}
}

func (a *App) Run() error {
	if err := a.initialize(); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	a.setupComponents()

	if err := a.loadActiveProfile(); err != nil {
		slog.Warn("No active profile loaded", "error", err)
	}

	a.start()

	a.waitForShutdown()

	return nil
}

func (a *App) initialize() error {
	slog.Info("Initializing media spawner")

	if err := os.MkdirAll(a.config.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := database.Open(a.config.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	a.db = db

	repo, err := profiles.NewRepository(db)
	if err != nil {
		return err
	}
	a.repo = repo

	return nil
}

func (a *App) setupComponents() {
	a.notifications = notifications.NewManager(a.config.Discord)

	a.dispatcher = dispatch.NewDispatcher(a.config.Dispatch, a.onSpawnFired)

	if a.config.EventFeed.Enabled {
		a.feed = eventfeed.NewClient(a.config.EventFeed, a.dispatcher.HandleEvent)
		a.feed.SetStatusCallback(a.notifications.FeedStatus)
	}

	if a.config.Dashboard.Enabled {
		a.webServer = web.NewServer(a.config.Dashboard, a.repo, a.dispatcher)
		a.webServer.SetEventFeed(a.feed)
		a.webServer.SetProfileSavedCallback(a.onProfileSaved)
	}

	a.configWatcher = config.NewWatcher(a.configPath, a.onConfigReload)
}

func (a *App) start() {
	a.ctx, a.cancel = context.WithCancel(context.Background())

	a.notifications.Start(a.ctx)
	a.dispatcher.Start(a.ctx)

	if a.feed != nil {
		a.feed.Start(a.ctx)
	}
	if a.webServer != nil {
		a.webServer.Start()
	}
	if err := a.configWatcher.Start(a.ctx); err != nil {
		slog.Warn("Config watcher failed to start", "error", err)
	}

	// The watcher may swap a.config from its goroutine as soon as it is
	// started, so read through the lock from here on.
	a.mu.RLock()
	channel := a.config.Channel
	a.mu.RUnlock()
	slog.Info("Media spawner running", "channel", channel)
}

// loadActiveProfile resolves the configured profile and hands it to the
// dispatcher. When no profile is configured the first stored one is
// used. The config pointer is swapped by the config watcher, so the
// active ID is snapshotted under the lock before use.
func (a *App) loadActiveProfile() error {
	a.mu.RLock()
	activeID := a.config.ActiveProfile
	a.mu.RUnlock()

	var profile *models.Profile

	if activeID != "" {
		p, err := a.repo.Get(activeID)
		if err != nil {
			return fmt.Errorf("active profile %s: %w", activeID, err)
		}
		profile = p
	} else {
		list, err := a.repo.List()
		if err != nil {
			return err
		}
		if len(list) == 0 {
			return fmt.Errorf("no profiles stored")
		}
		profile = list[0]
	}

	a.dispatcher.SetProfile(profile)
	slog.Info("Active profile loaded", "profile", profile.Name, "spawns", len(profile.Spawns))
	return nil
}

func (a *App) onSpawnFired(spawn *models.Spawn, ev *eventfeed.Event) {
	reason := ""
	if ev != nil {
		reason = string(ev.Kind)
		if ev.User != "" {
			reason = fmt.Sprintf("%s by %s", reason, ev.User)
		}
	}
	a.notifications.SpawnFired(spawn, reason)
}

// onProfileSaved refreshes the dispatcher when the active profile was
// edited through the dashboard, and forwards validation warnings.
func (a *App) onProfileSaved(profileID string, warnings []string) {
	a.mu.RLock()
	activeID := a.config.ActiveProfile
	a.mu.RUnlock()

	if activeID == "" || activeID == profileID {
		if err := a.loadActiveProfile(); err != nil {
			slog.Warn("Failed to reload active profile", "error", err)
		}
	}

	if len(warnings) > 0 {
		p, err := a.repo.Get(profileID)
		name := profileID
		if err == nil {
			name = p.Name
		}
		a.notifications.ValidationWarnings(name, warnings)
	}
}

func (a *App) onConfigReload(cfg *config.Config) {
	a.mu.Lock()
	previousProfile := a.config.ActiveProfile
	a.config = cfg
	a.mu.Unlock()

	slog.Info("Configuration reloaded", "path", a.configPath)

	if cfg.ActiveProfile != previousProfile {
		if err := a.loadActiveProfile(); err != nil {
			slog.Warn("Failed to switch active profile", "error", err)
		}
	}
}

func (a *App) waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	slog.Info("Shutting down...")

	a.stop()
}

func (a *App) stop() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.configWatcher != nil {
		a.configWatcher.Stop()
	}
	if a.webServer != nil {
		a.webServer.Stop()
	}
	if a.feed != nil {
		a.feed.Stop()
	}
	if a.dispatcher != nil {
		a.dispatcher.Stop()
	}
	if a.notifications != nil {
		a.notifications.Stop()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			slog.Warn("Database close error", "error", err)
		}
	}
}
