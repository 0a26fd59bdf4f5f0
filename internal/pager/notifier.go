// Package pager bridges live-feed events to desk notification channels
// (Slack, Discord) so dispatchers away from the console still see new
// transport requests.
package pager

import "context"

// Sidebar color hints for notification attachments.
const (
	ColorInfo    = "#439fe0"
	ColorSuccess = "#36a64f"
	ColorWarning = "#ecb22e"
	ColorError   = "#e01e5a"
)

// Notifier is the interface platform-specific implementations satisfy.
type Notifier interface {
	// Connect validates credentials and prepares the notifier for Send.
	Connect(ctx context.Context) error

	// Send delivers one notification to the configured channel.
	Send(ctx context.Context, n Notification) error

	// Close releases the notifier. Send must not be called after Close.
	Close() error
}

// Notification is a formatted event for display in a chat channel.
type Notification struct {
	Title    string  // headline (e.g. "New transport request")
	Body     string  // detail text
	Severity string  // "info", "warning", "error", "success"
	Color    string  // sidebar color hint
	Fields   []Field // key-value metadata pairs
}

// Field is a key-value pair displayed in a notification.
type Field struct {
	Name  string
	Value string
	Short bool // hint: render side-by-side with another field
}
