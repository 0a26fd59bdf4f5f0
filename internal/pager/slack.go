package pager

import (
	"context"
	"fmt"
	"sync"

	slackapi "github.com/slack-go/slack"
)

// slackClient abstracts the Slack API methods we use, enabling test mocks.
type slackClient interface {
	AuthTestContext(ctx context.Context) (*slackapi.AuthTestResponse, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// SlackNotifier posts notifications to a Slack channel.
type SlackNotifier struct {
	client    slackClient
	botToken  string
	channelID string

	mu        sync.Mutex
	connected bool
}

// SlackOpts holds parameters for creating a SlackNotifier.
type SlackOpts struct {
	BotToken  string // xoxb-... Slack bot token
	ChannelID string // channel to post to
	// For testing: inject a mock client instead of the real Slack API.
	Client slackClient
}

// NewSlack creates a SlackNotifier.
func NewSlack(opts SlackOpts) (*SlackNotifier, error) {
	if opts.Client == nil && opts.BotToken == "" {
		return nil, fmt.Errorf("pager: slack bot token is required")
	}
	if opts.ChannelID == "" {
		return nil, fmt.Errorf("pager: slack channel is required")
	}
	return &SlackNotifier{
		client:    opts.Client,
		botToken:  opts.BotToken,
		channelID: opts.ChannelID,
	}, nil
}

// Connect validates the bot token against the Slack API.
func (s *SlackNotifier) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		s.client = slackapi.New(s.botToken)
	}
	if _, err := s.client.AuthTestContext(ctx); err != nil {
		return fmt.Errorf("pager: slack auth test: %w", err)
	}
	s.connected = true
	return nil
}

// Send posts the notification as a single attachment.
func (s *SlackNotifier) Send(ctx context.Context, n Notification) error {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return fmt.Errorf("pager: slack notifier not connected")
	}
	client := s.client
	s.mu.Unlock()

	fields := make([]slackapi.AttachmentField, 0, len(n.Fields))
	for _, f := range n.Fields {
		fields = append(fields, slackapi.AttachmentField{
			Title: f.Name,
			Value: f.Value,
			Short: f.Short,
		})
	}
	attachment := slackapi.Attachment{
		Color:  n.Color,
		Title:  n.Title,
		Text:   n.Body,
		Fields: fields,
	}

	_, _, err := client.PostMessageContext(ctx, s.channelID, slackapi.MsgOptionAttachments(attachment))
	if err != nil {
		return fmt.Errorf("pager: slack post message: %w", err)
	}
	return nil
}

// Close marks the notifier as disconnected.
func (s *SlackNotifier) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = false
	return nil
}
