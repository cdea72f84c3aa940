package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Discord notification embed colors
const (
	ColorSpawnFired = 0x9146FF // Twitch purple
	ColorWarning    = 0xFFD700 // Gold
	ColorFeedStatus = 0x00B0F4 // Blue
)

// DiscordProvider implements the Provider interface for Discord notifications.
type DiscordProvider struct {
	botToken string
	guildID  string
	session  *discordgo.Session

	mu sync.RWMutex
}

// NewDiscordProvider creates a new Discord notification provider.
func NewDiscordProvider(botToken, guildID string) *DiscordProvider {
	return &DiscordProvider{
		botToken: botToken,
		guildID:  guildID,
	}
}

// Name returns the provider's identifier.
func (d *DiscordProvider) Name() string {
	return "discord"
}

// IsConfigured returns true if the provider has valid configuration.
func (d *DiscordProvider) IsConfigured() bool {
	return d.botToken != "" && d.guildID != ""
}

// Connect establishes connection to Discord.
func (d *DiscordProvider) Connect(ctx context.Context) error {
	if !d.IsConfigured() {
		return fmt.Errorf("discord not configured: missing bot token or guild ID")
	}

	session, err := discordgo.New("Bot " + d.botToken)
	if err != nil {
		return fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	if err := session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	d.mu.Lock()
	d.session = session
	d.mu.Unlock()

	slog.Info("Discord notification provider connected", "guildID", d.guildID)
	return nil
}

// Disconnect closes the Discord connection.
func (d *DiscordProvider) Disconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.session != nil {
		if err := d.session.Close(); err != nil {
			return err
		}
		d.session = nil
	}
	return nil
}

// Send sends a notification to Discord.
func (d *DiscordProvider) Send(ctx context.Context, notification Notification) error {
	d.mu.RLock()
	session := d.session
	d.mu.RUnlock()

	if session == nil {
		return fmt.Errorf("discord not connected")
	}

	if notification.ChannelID == "" {
		return fmt.Errorf("no channel ID specified for notification")
	}

	color := notification.Color
	if color == 0 {
		switch notification.Type {
		case NotificationTypeValidationWarning:
			color = ColorWarning
		case NotificationTypeFeedStatus:
			color = ColorFeedStatus
		default:
			color = ColorSpawnFired
		}
	}

	embed := &discordgo.MessageEmbed{
		Title:       notification.Title,
		Description: notification.Message,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Media Spawner",
		},
	}

	_, err := session.ChannelMessageSendEmbed(notification.ChannelID, embed)
	if err != nil {
		slog.Error("Failed to send Discord notification",
			"channel", notification.ChannelID,
			"type", notification.Type,
			"error", err,
		)
		return fmt.Errorf("failed to send Discord message: %w", err)
	}

	slog.Debug("Discord notification sent",
		"channel", notification.ChannelID,
		"type", notification.Type,
	)
	return nil
}
