package pager

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Embed sidebar colors, decimal RGB.
var discordColors = map[string]int{
	"info":    0x439fe0,
	"success": 0x36a64f,
	"warning": 0xecb22e,
	"error":   0xe01e5a,
}

// discordSession abstracts the discordgo methods we use, enabling test mocks.
type discordSession interface {
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier posts notifications to a Discord channel. Sends go over
// the REST API; no gateway connection is opened.
type DiscordNotifier struct {
	sess      discordSession
	botToken  string
	channelID string

	mu        sync.Mutex
	connected bool
}

// DiscordOpts holds parameters for creating a DiscordNotifier.
type DiscordOpts struct {
	BotToken  string // Discord bot token
	ChannelID string // channel to post to
	// For testing: inject a mock session instead of the real Discord API.
	Session discordSession
}

// NewDiscord creates a DiscordNotifier.
func NewDiscord(opts DiscordOpts) (*DiscordNotifier, error) {
	if opts.Session == nil && opts.BotToken == "" {
		return nil, fmt.Errorf("pager: discord bot token is required")
	}
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("pager: discord channel is required")
	}
	return &DiscordNotifier{
		sess:      opts.Session,
		botToken:  opts.BotToken,
		channelID: opts.ChannelID,
	}, nil
}

// Connect validates the bot token by fetching the bot's own user.
func (d *DiscordNotifier) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sess == nil {
		sess, err := discordgo.New("Bot " + d.botToken)
		if err != nil {
			return fmt.Errorf("pager: discord session: %w", err)
		}
		d.sess = sess
	}
	if _, err := d.sess.User("@me", discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("pager: discord auth: %w", err)
	}
	d.connected = true
	return nil
}

// Send posts the notification as an embed.
func (d *DiscordNotifier) Send(ctx context.Context, n Notification) error {
	d.mu.Lock()
	if !d.connected {
		d.mu.Unlock()
		return fmt.Errorf("pager: discord notifier not connected")
	}
	sess := d.sess
	d.mu.Unlock()

	fields := make([]*discordgo.MessageEmbedField, 0, len(n.Fields))
	for _, f := range n.Fields {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Short,
		})
	}
	embed := &discordgo.MessageEmbed{
		Title:       n.Title,
		Description: n.Body,
		Color:       discordColors[n.Severity],
		Fields:      fields,
	}

	if _, err := sess.ChannelMessageSendEmbed(d.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("pager: discord send embed: %w", err)
	}
	return nil
}

// Close marks the notifier as disconnected.
func (d *DiscordNotifier) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.connected = false
	return nil
}
