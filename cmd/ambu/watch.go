package main

import (
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ambutrack/console/internal/config"
	"github.com/ambutrack/console/internal/dashboard"
	"github.com/ambutrack/console/internal/feed"
	"github.com/ambutrack/console/internal/models"
	"github.com/ambutrack/console/internal/pager"
)

func newWatchCmd() *cobra.Command {
	var configPath string
	var noDashboard bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the live occurrence feed for the active tenant",
		Long: "Watch opens the tenant's live channel and keeps it open until\n" +
			"interrupted. New pending requests are printed as they arrive, the\n" +
			"local dashboard serves a live view, and the configured pager posts\n" +
			"desk notifications.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(configPath)
			if err != nil {
				return err
			}
			tenant, err := a.store.SelectedTenant()
			if err != nil {
				return err
			}
			if tenant == "" {
				return fmt.Errorf("watch: no tenant selected, run `ambu tenants select` first")
			}
			return runWatch(cmd, a, tenant, noDashboard)
		},
	}
	addConfigFlag(cmd, &configPath)
	cmd.Flags().BoolVar(&noDashboard, "no-dashboard", false, "do not serve the local dashboard")
	return cmd
}

func runWatch(cmd *cobra.Command, a *app, tenant string, noDashboard bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()

	daemon, err := newPagerDaemon(a.cfg.Pager, out)
	if err != nil {
		return err
	}

	onUpdate := func(snapshot []models.Request) {
		fmt.Fprintf(out, "%s  %d pending request(s)\n", time.Now().Format("15:04:05"), len(snapshot))
		if daemon != nil {
			daemon.HandleUpdate(snapshot)
		}
	}
	onStatus := func(connected bool, lastErr string) {
		if connected {
			fmt.Fprintf(out, "%s  live channel connected\n", time.Now().Format("15:04:05"))
		} else {
			fmt.Fprintf(out, "%s  live channel disconnected: %s\n", time.Now().Format("15:04:05"), lastErr)
		}
		if daemon != nil {
			daemon.HandleStatus(connected, lastErr)
		}
	}

	feedClient, err := feed.New(feed.Opts{
		HubBaseURL: a.cfg.Hub.BaseURL,
		Token:      sessionToken(a),
		OnUpdate:   onUpdate,
		OnStatus:   onStatus,
	})
	if err != nil {
		return err
	}

	errc := make(chan error, 2)
	if daemon != nil {
		go func() { errc <- daemon.Run(ctx) }()
	}
	if a.cfg.Dashboard.Enabled && !noDashboard {
		fmt.Fprintf(out, "Dashboard on http://127.0.0.1:%d\n", a.cfg.Dashboard.Port)
		go func() {
			errc <- dashboard.Start(ctx, dashboard.StartOpts{
				Feed: feedClient,
				Port: a.cfg.Dashboard.Port,
				Out:  out,
			})
		}()
	}

	fmt.Fprintf(out, "Watching tenant %s, Ctrl-C to stop\n", tenant)
	feedClient.SetTenant(ctx, tenant)
	if msg := feedClient.Err(); msg != "" {
		fmt.Fprintf(out, "Warning: %s\n", msg)
	}

	select {
	case <-ctx.Done():
	case err := <-errc:
		if err != nil {
			feedClient.Disconnect()
			return err
		}
	}

	feedClient.Disconnect()
	fmt.Fprintln(out, "Stopped")
	return nil
}

// sessionToken reads the bearer token from the store on every call, so
// reconnects pick up a token refreshed by a concurrent API call.
func sessionToken(a *app) feed.TokenFunc {
	return func() (string, error) {
		sess, err := a.store.Session()
		if err != nil {
			return "", err
		}
		if sess == nil {
			return "", fmt.Errorf("not logged in")
		}
		return sess.AccessToken, nil
	}
}

func newPagerDaemon(cfg config.PagerConfig, out io.Writer) (*pager.Daemon, error) {
	var notifier pager.Notifier
	switch cfg.Platform {
	case "":
		return nil, nil
	case "slack":
		n, err := pager.NewSlack(pager.SlackOpts{BotToken: cfg.Slack.BotToken, ChannelID: cfg.Channel})
		if err != nil {
			return nil, err
		}
		notifier = n
	case "discord":
		n, err := pager.NewDiscord(pager.DiscordOpts{BotToken: cfg.Discord.BotToken, ChannelID: cfg.Channel})
		if err != nil {
			return nil, err
		}
		notifier = n
	default:
		return nil, fmt.Errorf("watch: unsupported pager platform %q", cfg.Platform)
	}
	return pager.NewDaemon(pager.DaemonOpts{
		Notifier: notifier,
		Events:   cfg.Events,
		Digest:   cfg.Digest,
		Out:      out,
	})
}
