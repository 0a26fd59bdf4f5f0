// Package feed maintains the tenant-scoped live channel that delivers
// pending transport requests to dispatchers. One hub connection exists
// per selected tenant; switching tenants tears the old connection down
// before a new one is built. The cached request list is only ever a
// verbatim replacement of the server's current pending set.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"

	"github.com/ambutrack/console/internal/models"
)

// subscribeMethod is the hub method that (re)subscribes this connection
// to the registered-request feed. Idempotent; the server replies to every
// invocation with a fresh RequestsRegisteredUpdated push.
const subscribeMethod = "SubscribeRegistered"

// updatedEvent is the server-pushed event carrying the full pending list.
const updatedEvent = "RequestsRegisteredUpdated"

// transport is the hub connection surface the feed drives. Implemented
// by the SignalR websocket transport and by fakes in tests.
type transport interface {
	// Start dials the hub and completes the protocol handshake.
	Start(ctx context.Context) error
	// Invoke calls a zero-argument hub method and awaits its completion.
	Invoke(ctx context.Context, target string) error
	// Connected reports whether the transport currently holds a live
	// connection.
	Connected() bool
	// Stop closes the connection and releases any reconnect machinery.
	// Safe to call on a transport that never connected; idempotent.
	Stop() error
}

// transportHandlers are the callbacks a transport raises into the feed.
type transportHandlers struct {
	OnEvent        func(target string, args []json.RawMessage)
	OnReconnecting func(err error)
	OnReconnected  func()
	OnClosed       func(err error)
}

// transportFactory builds a transport for one tenant's hub URL.
type transportFactory func(hubURL string, token TokenFunc, h transportHandlers) transport

// TokenFunc supplies the current access token at connect time. It is
// re-read on every reconnect attempt so a refreshed token is picked up.
type TokenFunc func() (string, error)

// Opts holds parameters for creating a feed Client.
type Opts struct {
	// HubBaseURL is the http(s) origin the platform mounts its hubs on.
	HubBaseURL string
	// Token supplies the bearer token for hub access.
	Token TokenFunc
	// OnUpdate is called with a snapshot after every accepted push. Optional.
	OnUpdate func([]models.Request)
	// OnStatus is called when the connection status changes. Optional.
	OnStatus func(connected bool, lastErr string)

	// newTransport overrides the transport factory. Tests only.
	newTransport transportFactory
}

// Client is the live channel client.
type Client struct {
	hubBase  string
	token    TokenFunc
	factory  transportFactory
	onUpdate func([]models.Request)
	onStatus func(bool, string)

	mu        sync.Mutex
	tenantKey string
	tr        transport
	requests  []models.Request
	connected bool
	lastErr   string
}

// New creates a feed Client. No connection is made until a tenant is
// selected via SetTenant.
func New(opts Opts) (*Client, error) {
	if opts.HubBaseURL == "" {
		return nil, fmt.Errorf("feed: hub base URL is required")
	}
	if opts.Token == nil {
		return nil, fmt.Errorf("feed: token func is required")
	}
	factory := opts.newTransport
	if factory == nil {
		factory = newSignalRTransport
	}
	return &Client{
		hubBase:  strings.TrimRight(opts.HubBaseURL, "/"),
		token:    opts.Token,
		factory:  factory,
		onUpdate: opts.OnUpdate,
		onStatus: opts.OnStatus,
	}, nil
}

// SetTenant switches the feed to a new tenant key. The previous
// connection is fully torn down before the new one is constructed; two
// simultaneous subscriptions never exist. An empty key returns the feed
// to idle. Connection failures are recorded on the client's status
// surface, not returned: callers observe state.
func (c *Client) SetTenant(ctx context.Context, key string) {
	c.mu.Lock()
	// Re-selecting the current tenant is a no-op only while the feed is
	// live and subscribed; a failed earlier attempt is rebuilt.
	if key == c.tenantKey && c.tr != nil && c.connected {
		c.mu.Unlock()
		return
	}
	old := c.tr
	c.tr = nil
	c.tenantKey = key
	c.mu.Unlock()

	// Stop the old transport even when it is mid-reconnect, so its
	// retry goroutines wind down instead of leaking.
	if old != nil {
		if err := old.Stop(); err != nil {
			log.Printf("feed: stop previous connection: %v", err)
		}
	}

	if key == "" {
		c.setStatus(false, "")
		return
	}

	// Each callback carries the transport it came from; events from an
	// abandoned transport are dropped rather than overwriting the state
	// of its successor.
	var tr transport
	tr = c.factory(c.hubURL(key), c.token, transportHandlers{
		OnEvent:        func(target string, args []json.RawMessage) { c.handleEvent(tr, target, args) },
		OnReconnecting: func(err error) { c.handleReconnecting(tr, err) },
		OnReconnected:  func() { c.handleReconnected(tr) },
		OnClosed:       func(err error) { c.handleClosed(tr, err) },
	})
	c.mu.Lock()
	c.tr = tr
	c.mu.Unlock()

	if err := tr.Start(ctx); err != nil {
		c.setStatus(false, "unable to connect to live channel: "+err.Error())
		return
	}
	if err := tr.Invoke(ctx, subscribeMethod); err != nil {
		// Subscription failed but the transport is alive; its own
		// reconnect policy still governs transport-level drops.
		c.setStatus(false, "subscribe failed: "+err.Error())
		return
	}
	c.setStatus(true, "")
}

// Refresh re-issues the feed subscription, forcing the server to push
// the current pending list. Used after a successful assignment so the
// next authoritative push reconciles local state.
func (c *Client) Refresh(ctx context.Context) error {
	c.mu.Lock()
	tr := c.tr
	c.mu.Unlock()
	if tr == nil || !tr.Connected() {
		return fmt.Errorf("feed: not connected")
	}
	if err := tr.Invoke(ctx, subscribeMethod); err != nil {
		return fmt.Errorf("feed: refresh: %w", err)
	}
	return nil
}

// Disconnect stops the current connection, if one is live. The cached
// list is retained as last-known data.
func (c *Client) Disconnect() {
	c.mu.Lock()
	tr := c.tr
	c.tr = nil
	c.tenantKey = ""
	c.mu.Unlock()

	if tr != nil {
		if err := tr.Stop(); err != nil {
			log.Printf("feed: stop connection: %v", err)
		}
	}
	c.setStatus(false, "")
}

// Requests returns a copy of the cached pending-request list. The list
// reflects only the most recently received push and may be stale between
// pushes.
func (c *Client) Requests() []models.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Request, len(c.requests))
	copy(out, c.requests)
	return out
}

// Connected reports whether the feed is live and subscribed.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Err returns the last connection error message, or "" when healthy.
func (c *Client) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Tenant returns the tenant key the feed is currently bound to.
func (c *Client) Tenant() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tenantKey
}

// hubURL builds the per-tenant hub endpoint.
func (c *Client) hubURL(key string) string {
	return c.hubBase + "/hubs/tenants/" + url.PathEscape(key) + "/requests"
}

// current reports whether tr is still the transport the feed owns.
// Callbacks from an abandoned transport fail this check and are ignored.
func (c *Client) current(tr transport) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tr == tr
}

// handleEvent replaces the cached list wholesale on every push. No
// merging: the payload is the server's complete current pending set.
func (c *Client) handleEvent(tr transport, target string, args []json.RawMessage) {
	if !c.current(tr) {
		return
	}
	if target != updatedEvent || len(args) == 0 {
		return
	}
	var updated []models.Request
	if err := json.Unmarshal(args[0], &updated); err != nil {
		log.Printf("feed: decode %s: %v", updatedEvent, err)
		return
	}
	c.mu.Lock()
	c.requests = updated
	onUpdate := c.onUpdate
	c.mu.Unlock()

	if onUpdate != nil {
		snapshot := make([]models.Request, len(updated))
		copy(snapshot, updated)
		onUpdate(snapshot)
	}
}

// handleReconnecting marks the feed stale while the transport retries.
// The cached list is retained to avoid flapping to empty.
func (c *Client) handleReconnecting(tr transport, err error) {
	if !c.current(tr) {
		return
	}
	msg := "reconnecting"
	if err != nil {
		msg = "reconnecting: " + err.Error()
	}
	c.setStatus(false, msg)
}

// handleReconnected re-issues the subscription: hub subscriptions do not
// survive a transport reconnect.
func (c *Client) handleReconnected(tr transport) {
	if !c.current(tr) {
		return
	}
	if err := tr.Invoke(context.Background(), subscribeMethod); err != nil {
		c.setStatus(false, "resubscribe failed: "+err.Error())
		return
	}
	c.setStatus(true, "")
}

// handleClosed records the terminal transport state; the cached list is
// kept as last-known data.
func (c *Client) handleClosed(tr transport, err error) {
	if !c.current(tr) {
		return
	}
	msg := ""
	if err != nil {
		msg = "connection closed: " + err.Error()
	}
	c.setStatus(false, msg)
}

func (c *Client) setStatus(connected bool, lastErr string) {
	c.mu.Lock()
	changed := c.connected != connected || c.lastErr != lastErr
	c.connected = connected
	c.lastErr = lastErr
	onStatus := c.onStatus
	c.mu.Unlock()

	if changed && onStatus != nil {
		onStatus(connected, lastErr)
	}
}
