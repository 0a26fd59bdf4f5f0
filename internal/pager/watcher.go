package pager

import (
	"fmt"
	"sync"
	"time"

	"github.com/ambutrack/console/internal/models"
)

// Watcher tracks which requests have already been alerted on, so a feed
// push that re-delivers the same pending set (after a manual refresh or
// a reconnect) does not page the desk twice.
type Watcher struct {
	mu     sync.Mutex
	known  map[string]bool
	primed bool
}

// NewWatcher creates a Watcher.
func NewWatcher() *Watcher {
	return &Watcher{known: make(map[string]bool)}
}

// Diff returns the requests in snapshot that have not been seen before.
// The first snapshot primes the watcher without producing alerts: the
// initial backlog is already visible on the dashboard, only requests
// arriving after that are news.
func (w *Watcher) Diff(snapshot []models.Request) []models.Request {
	w.mu.Lock()
	defer w.mu.Unlock()

	var fresh []models.Request
	for _, r := range snapshot {
		if !w.known[r.ID] {
			w.known[r.ID] = true
			if w.primed {
				fresh = append(fresh, r)
			}
		}
	}
	w.primed = true
	return fresh
}

// FormatRequestAlert renders a new pending request as a notification.
func FormatRequestAlert(r models.Request) Notification {
	fields := []Field{
		{Name: "Type", Value: string(r.AboutOccurrence.Type), Short: true},
		{Name: "Status", Value: string(r.Status), Short: true},
	}
	if r.Pickup.Address != "" {
		fields = append(fields, Field{Name: "Pickup", Value: r.Pickup.Address})
	}
	if r.Patient != nil && r.Patient.Name != "" {
		fields = append(fields, Field{Name: "Patient", Value: r.Patient.Name, Short: true})
	}
	if r.Scheduling != nil {
		fields = append(fields, Field{
			Name:  "Scheduled",
			Value: r.Scheduling.DateTime.Format(time.RFC1123),
			Short: true,
		})
	}

	severity := "info"
	color := ColorInfo
	switch r.AboutOccurrence.Type {
	case models.OccurrenceUrgent, models.OccurrenceEmergency:
		severity = "warning"
		color = ColorWarning
	}

	return Notification{
		Title:    "New transport request",
		Body:     r.AboutOccurrence.Description,
		Severity: severity,
		Color:    color,
		Fields:   fields,
	}
}

// FormatDigest summarizes the current pending backlog. Returns false
// when there is nothing pending and the digest should be suppressed.
func FormatDigest(snapshot []models.Request) (Notification, bool) {
	if len(snapshot) == 0 {
		return Notification{}, false
	}

	byType := make(map[models.OccurrenceType]int)
	oldest := snapshot[0].CreatedAt
	for _, r := range snapshot {
		byType[r.AboutOccurrence.Type]++
		if r.CreatedAt.Before(oldest) {
			oldest = r.CreatedAt
		}
	}

	fields := make([]Field, 0, len(byType)+1)
	for _, t := range []models.OccurrenceType{
		models.OccurrenceEmergency, models.OccurrenceUrgent,
		models.OccurrenceElective, models.OccurrenceSocial, models.OccurrenceOther,
	} {
		if n := byType[t]; n > 0 {
			fields = append(fields, Field{Name: string(t), Value: fmt.Sprint(n), Short: true})
		}
	}
	fields = append(fields, Field{
		Name:  "Oldest",
		Value: oldest.Format(time.RFC1123),
		Short: true,
	})

	return Notification{
		Title:    fmt.Sprintf("Pending transport requests: %d", len(snapshot)),
		Severity: "info",
		Color:    ColorInfo,
		Fields:   fields,
	}, true
}

// FormatDisconnect renders a live-channel outage.
func FormatDisconnect(lastErr string) Notification {
	return Notification{
		Title:    "Live channel disconnected",
		Body:     lastErr,
		Severity: "error",
		Color:    ColorError,
	}
}

// FormatReconnect renders a live-channel recovery.
func FormatReconnect() Notification {
	return Notification{
		Title:    "Live channel restored",
		Severity: "success",
		Color:    ColorSuccess,
	}
}
