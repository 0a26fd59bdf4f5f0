package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ambutrack/console/internal/feed"
	"github.com/ambutrack/console/internal/models"
)

// snapshotEvent is the SSE payload carrying the feed state.
type snapshotEvent struct {
	Tenant    string           `json:"tenant"`
	Connected bool             `json:"connected"`
	Error     string           `json:"error,omitempty"`
	Requests  []models.Request `json:"requests"`
}

// handleSSE streams feed snapshots to the browser. The feed is polled
// rather than subscribed: the dashboard is a passive observer and must
// not hold callback registrations across page reloads.
func handleSSE(fd *feed.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		// Send connected event.
		writeSSE(c.Writer, "connected", map[string]string{"type": "connected"})
		c.Writer.Flush()

		ctx := c.Request.Context()
		ticker := time.NewTicker(2 * time.Second)
		heartbeat := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		defer heartbeat.Stop()

		var lastFingerprint string

		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				writeSSE(c.Writer, "heartbeat", map[string]string{
					"timestamp": time.Now().UTC().Format(time.RFC3339),
				})
				c.Writer.Flush()
			case <-ticker.C:
				evt := snapshotEvent{
					Tenant:    fd.Tenant(),
					Connected: fd.Connected(),
					Error:     fd.Err(),
					Requests:  fd.Requests(),
				}
				fp := fingerprint(evt)
				if fp == lastFingerprint {
					continue
				}
				lastFingerprint = fp
				writeSSE(c.Writer, "snapshot", evt)
				c.Writer.Flush()
			}
		}
	}
}

// fingerprint summarizes a snapshot so unchanged state is not re-sent.
func fingerprint(evt snapshotEvent) string {
	ids := make([]string, 0, len(evt.Requests)+2)
	ids = append(ids, fmt.Sprintf("%s|%t|%s", evt.Tenant, evt.Connected, evt.Error))
	for _, r := range evt.Requests {
		ids = append(ids, r.ID+":"+r.UpdatedAt.Format(time.RFC3339Nano))
	}
	return strings.Join(ids, ",")
}

// writeSSE writes a single SSE event to the writer.
func writeSSE(w io.Writer, event string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, string(jsonData))
}
