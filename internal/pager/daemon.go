package pager

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/ambutrack/console/internal/config"
	"github.com/ambutrack/console/internal/models"
)

// Daemon turns feed activity into desk notifications. The watch command
// registers HandleUpdate and HandleStatus as feed callbacks and runs the
// daemon alongside the feed for the life of the session.
type Daemon struct {
	notifier Notifier
	events   config.EventsConfig
	digest   config.DigestConfig
	watcher  *Watcher
	out      io.Writer

	mu           sync.Mutex
	snapshot     []models.Request
	wasConnected bool
}

// DaemonOpts holds parameters for creating a Daemon.
type DaemonOpts struct {
	Notifier Notifier
	Events   config.EventsConfig
	Digest   config.DigestConfig
	Out      io.Writer // defaults to os.Stdout
}

// NewDaemon creates a Daemon.
func NewDaemon(opts DaemonOpts) (*Daemon, error) {
	if opts.Notifier == nil {
		return nil, fmt.Errorf("pager: notifier is required")
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	return &Daemon{
		notifier:     opts.Notifier,
		events:       opts.Events,
		digest:       opts.Digest,
		watcher:      NewWatcher(),
		out:          out,
		wasConnected: true,
	}, nil
}

// HandleUpdate receives a feed snapshot and pages the desk for every
// request not seen before.
func (d *Daemon) HandleUpdate(snapshot []models.Request) {
	d.mu.Lock()
	d.snapshot = snapshot
	d.mu.Unlock()

	if !d.events.NewRequests {
		return
	}
	for _, r := range d.watcher.Diff(snapshot) {
		if err := d.notifier.Send(context.Background(), FormatRequestAlert(r)); err != nil {
			log.Printf("pager: send request alert: %v", err)
		}
	}
}

// HandleStatus receives feed connection transitions and pages the desk
// on outages and recoveries.
func (d *Daemon) HandleStatus(connected bool, lastErr string) {
	d.mu.Lock()
	was := d.wasConnected
	d.wasConnected = connected
	d.mu.Unlock()

	if !d.events.Disconnects || connected == was {
		return
	}
	n := FormatReconnect()
	if !connected {
		n = FormatDisconnect(lastErr)
	}
	if err := d.notifier.Send(context.Background(), n); err != nil {
		log.Printf("pager: send status alert: %v", err)
	}
}

// Run connects the notifier and drives the digest scheduler until the
// context is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	fmt.Fprintf(d.out, "Pager connecting...\n")
	if err := d.notifier.Connect(ctx); err != nil {
		return fmt.Errorf("pager: connect: %w", err)
	}
	fmt.Fprintf(d.out, "Pager online\n")

	if err := d.notifier.Send(ctx, Notification{
		Title:    "Dispatch pager online",
		Severity: "info",
		Color:    ColorInfo,
	}); err != nil {
		log.Printf("pager: send online message: %v", err)
	}

	var digestTimer *time.Timer
	var schedule *digestSchedule
	if d.digest.Enabled && d.digest.Cron != "" {
		s, err := parseDigestSchedule(d.digest.Cron)
		if err != nil {
			log.Printf("pager: digest disabled: %v", err)
		} else {
			schedule = s
			digestTimer = time.NewTimer(schedule.untilNext(time.Now()))
			defer digestTimer.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			d.sendShutdown()
			if err := d.notifier.Close(); err != nil {
				log.Printf("pager: close notifier: %v", err)
			}
			return nil

		case <-timerChan(digestTimer):
			d.fireDigest(ctx)
			digestTimer.Reset(schedule.untilNext(time.Now()))
		}
	}
}

// fireDigest sends the pending-backlog summary, suppressing it when the
// backlog is empty.
func (d *Daemon) fireDigest(ctx context.Context) {
	d.mu.Lock()
	snapshot := d.snapshot
	d.mu.Unlock()

	n, ok := FormatDigest(snapshot)
	if !ok {
		return
	}
	if err := d.notifier.Send(ctx, n); err != nil {
		log.Printf("pager: send digest: %v", err)
	}
}

// timerChan returns the timer's channel, or nil if the timer is nil.
// A nil channel blocks forever in select, which is the desired behavior
// when the digest is not enabled.
func timerChan(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

// sendShutdown posts a shutdown message (best-effort).
func (d *Daemon) sendShutdown() {
	if err := d.notifier.Send(context.Background(), Notification{
		Title:    "Dispatch pager shutting down",
		Severity: "info",
		Color:    ColorInfo,
	}); err != nil {
		log.Printf("pager: send shutdown message: %v", err)
	}
}
