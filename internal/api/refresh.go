package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/ambutrack/console/internal/models"
)

// recover runs the single-flight refresh protocol. The first caller to
// observe a 401 becomes the refresher; callers arriving while a refresh
// is in flight are queued and released with its outcome, in arrival
// order. Exactly one refresh call is ever in flight per client.
func (c *Client) recover(ctx context.Context) error {
	c.mu.Lock()
	if c.refreshing {
		ch := make(chan error, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()
		select {
		case err := <-ch:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.refreshing = true
	c.mu.Unlock()

	err := c.refreshSession(ctx)

	c.mu.Lock()
	c.refreshing = false
	waiters := c.waiters
	c.waiters = nil
	c.mu.Unlock()

	for _, ch := range waiters {
		ch <- err
	}
	return err
}

// refreshSession exchanges the refresh token for a new session. Any
// failure is terminal: the session is cleared and a new login is
// required. A 401 from the refresh endpoint itself is never retried.
func (c *Client) refreshSession(ctx context.Context) error {
	sess, err := c.store.Session()
	if err != nil {
		return err
	}
	if sess == nil || sess.RefreshToken == "" {
		c.forceLogout()
		return ErrLoggedOut
	}

	status, data, err := c.send(ctx, http.MethodPost, refreshPath, nil, models.RefreshTokenRequest{
		RefreshToken: sess.RefreshToken,
	})
	if err != nil {
		c.forceLogout()
		return err
	}
	if status == http.StatusUnauthorized {
		c.forceLogout()
		return ErrLoggedOut
	}
	if status < 200 || status > 299 {
		c.forceLogout()
		return &HTTPError{Status: status, Body: string(data)}
	}

	var next models.Session
	if err := json.Unmarshal(data, &next); err != nil {
		c.forceLogout()
		return err
	}
	// The refresh response does not carry the admin flag; it is derived
	// at login time and carried forward across refreshes.
	next.IsPlatformAdmin = sess.IsPlatformAdmin
	if err := c.store.SetSession(next); err != nil {
		return err
	}
	return nil
}

// forceLogout clears the stored session and notifies the owner that a
// new login is required. Clearing is best-effort.
func (c *Client) forceLogout() {
	if err := c.store.ClearSession(); err != nil {
		log.Printf("api: clear session: %v", err)
	}
	if c.onLoggedOut != nil {
		c.onLoggedOut()
	}
}
