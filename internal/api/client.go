// Package api is the console's HTTP client for the platform REST API.
// Every outbound call passes through it for bearer-token injection,
// tenant-path substitution, and 401 recovery via a single-flight token
// refresh.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/ambutrack/console/internal/store"
)

const (
	authPath           = "/api/Auth"
	registerPath       = "/api/Auth/register"
	forgotPasswordPath = "/api/Auth/forgot-password"
	refreshPath        = "/api/Auth/refresh-token"

	// tenantPlaceholder is the literal token in tenant-scoped paths,
	// substituted with the selected tenant key before sending.
	tenantPlaceholder = "{tenantKey}"
)

// ErrLoggedOut is returned when the session is unusable and a new login
// is required: no session, no refresh token, or a terminal refresh failure.
var ErrLoggedOut = errors.New("api: session expired, login required")

// HTTPError is a non-2xx response from the backend, surfaced verbatim.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api: http %d", e.Status)
	}
	return fmt.Sprintf("api: http %d: %s", e.Status, e.Body)
}

// Opts holds parameters for creating a Client.
type Opts struct {
	BaseURL    string
	Store      *store.Store
	HTTPClient *http.Client // optional; defaults to http.DefaultClient
	// OnLoggedOut is invoked after the session has been cleared because
	// it could not be recovered. Optional.
	OnLoggedOut func()
}

// Client issues authenticated REST calls against the platform.
type Client struct {
	baseURL     string
	httpc       *http.Client
	store       *store.Store
	onLoggedOut func()

	mu         sync.Mutex
	refreshing bool
	waiters    []chan error
}

// New creates a Client.
func New(opts Opts) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("api: store is required")
	}
	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		httpc:       httpc,
		store:       opts.Store,
		onLoggedOut: opts.OnLoggedOut,
	}, nil
}

// do sends one request and decodes the JSON response into out (when out
// is non-nil). A 401 triggers the single-flight refresh protocol and a
// single retry; a second 401 is surfaced as a plain HTTPError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	resolved, err := c.resolvePath(path)
	if err != nil {
		return err
	}

	status, data, err := c.send(ctx, method, resolved, query, body)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		sess, serr := c.store.Session()
		if serr != nil {
			return serr
		}
		if sess == nil {
			// Nothing to refresh; e.g. a rejected login attempt.
			return &HTTPError{Status: status, Body: string(data)}
		}
		if rerr := c.recover(ctx); rerr != nil {
			return rerr
		}
		status, data, err = c.send(ctx, method, resolved, query, body)
		if err != nil {
			return err
		}
	}

	if status < 200 || status > 299 {
		return &HTTPError{Status: status, Body: string(data)}
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("api: decode %s %s: %w", method, path, err)
		}
	}
	return nil
}

// send performs one HTTP round trip with the current bearer token.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (int, []byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	sess, err := c.store.Session()
	if err != nil {
		return 0, nil, err
	}
	if sess != nil && sess.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("api: read %s %s: %w", method, path, err)
	}
	return resp.StatusCode, data, nil
}

// resolvePath substitutes the tenant placeholder with the selected tenant
// key. When no tenant is selected the placeholder is left as-is and the
// backend rejects the call; the client performs no pre-validation.
func (c *Client) resolvePath(path string) (string, error) {
	if !strings.Contains(path, tenantPlaceholder) {
		return path, nil
	}
	tenant, err := c.store.SelectedTenant()
	if err != nil {
		return "", err
	}
	if tenant == "" {
		return path, nil
	}
	return strings.ReplaceAll(path, tenantPlaceholder, url.PathEscape(tenant)), nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPost, path, query, body, out)
}

func (c *Client) put(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.do(ctx, http.MethodPut, path, query, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// pageQuery builds the backend's standard pagination query.
func pageQuery(page, pageSize int) url.Values {
	return url.Values{
		"Page":     {fmt.Sprint(page)},
		"PageSize": {fmt.Sprint(pageSize)},
	}
}
