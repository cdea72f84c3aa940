package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mediaspawn/spawner-go/internal/config"
	"github.com/mediaspawn/spawner-go/internal/models"
)

// Manager routes application events to the configured notification
// provider. All Send calls are fire-and-forget; a failed delivery is
// logged and never blocks the caller.
type Manager struct {
	settings config.DiscordSettings
	provider Provider

	connected bool
	mu        sync.RWMutex
}

func NewManager(settings config.DiscordSettings) *Manager {
	return &Manager{
		settings: settings,
		provider: NewDiscordProvider(settings.BotToken, settings.GuildID),
	}
}

// Start connects the provider when notifications are enabled. A
// connection failure is logged, not fatal: the rest of the application
// runs without notifications.
func (m *Manager) Start(ctx context.Context) {
	if !m.settings.Enabled || !m.provider.IsConfigured() {
		slog.Debug("Notifications disabled or not configured")
		return
	}

	if err := m.provider.Connect(ctx); err != nil {
		slog.Warn("Notification provider connection failed", "provider", m.provider.Name(), "error", err)
		return
	}

	m.mu.Lock()
	m.connected = true
	m.mu.Unlock()
}

func (m *Manager) Stop() {
	m.mu.Lock()
	connected := m.connected
	m.connected = false
	m.mu.Unlock()

	if connected {
		if err := m.provider.Disconnect(); err != nil {
			slog.Warn("Notification provider disconnect failed", "error", err)
		}
	}
}

// SpawnFired announces an activated spawn.
func (m *Manager) SpawnFired(spawn *models.Spawn, reason string) {
	message := fmt.Sprintf("Trigger: %s", spawn.Trigger.Type)
	if reason != "" {
		message = fmt.Sprintf("%s (%s)", message, reason)
	}
	m.send(Notification{
		Type:    NotificationTypeSpawnFired,
		Title:   fmt.Sprintf("Spawn fired: %s", spawn.Name),
		Message: message,
	})
}

// ValidationWarnings announces warnings attached to a saved profile,
// e.g. a monthly trigger on day 31.
func (m *Manager) ValidationWarnings(profileName string, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	m.send(Notification{
		Type:    NotificationTypeValidationWarning,
		Title:   fmt.Sprintf("Profile saved with warnings: %s", profileName),
		Message: strings.Join(warnings, "\n"),
	})
}

// FeedStatus announces event feed connectivity changes.
func (m *Manager) FeedStatus(connected bool) {
	status := "disconnected"
	if connected {
		status = "connected"
	}
	m.send(Notification{
		Type:  NotificationTypeFeedStatus,
		Title: "Event feed " + status,
	})
}

func (m *Manager) send(notification Notification) {
	m.mu.RLock()
	connected := m.connected
	m.mu.RUnlock()
	if !connected {
		return
	}

	notification.ChannelID = m.settings.ChannelID

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.provider.Send(ctx, notification); err != nil {
			slog.Debug("Notification delivery failed", "type", notification.Type, "error", err)
		}
	}()
}
