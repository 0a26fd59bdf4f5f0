package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// The hub speaks the SignalR JSON protocol: 0x1e-delimited JSON records
// over a websocket, opened with a protocol handshake. Only the record
// types the feed needs are implemented.
const (
	recordSeparator byte = 0x1e

	msgInvocation = 1
	msgCompletion = 3
	msgPing       = 6
	msgClose      = 7
)

const (
	// baseBackoff is the initial delay between reconnection attempts.
	baseBackoff = 1 * time.Second
	// maxBackoff caps the exponential backoff for reconnection.
	maxBackoff = 30 * time.Second
	// maxReconnectAttempts limits reconnection retries before giving up.
	maxReconnectAttempts = 10
	// pingInterval is how often the client sends keepalive pings.
	pingInterval = 15 * time.Second
	// invokeTimeout bounds how long an invocation waits for completion.
	invokeTimeout = 10 * time.Second
)

var handshakeRequest = append([]byte(`{"protocol":"json","version":1}`), recordSeparator)

// hubMessage is the inbound record envelope.
type hubMessage struct {
	Type           int               `json:"type"`
	InvocationID   string            `json:"invocationId,omitempty"`
	Target         string            `json:"target,omitempty"`
	Arguments      []json.RawMessage `json:"arguments,omitempty"`
	Error          string            `json:"error,omitempty"`
	AllowReconnect bool              `json:"allowReconnect,omitempty"`
}

// outboundInvocation is a client-to-server hub method call. Arguments is
// always present, even when empty.
type outboundInvocation struct {
	Type         int    `json:"type"`
	InvocationID string `json:"invocationId"`
	Target       string `json:"target"`
	Arguments    []any  `json:"arguments"`
}

// signalrTransport is the production transport: one websocket connection
// to a tenant's request hub, with automatic reconnection.
type signalrTransport struct {
	hubURL string
	token  TokenFunc
	h      transportHandlers

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	closed    bool
	nextID    int
	pending   map[string]chan string // invocation id -> completion error text
	done      chan struct{}

	writeMu sync.Mutex
}

func newSignalRTransport(hubURL string, token TokenFunc, h transportHandlers) transport {
	return &signalrTransport{
		hubURL:  hubURL,
		token:   token,
		h:       h,
		pending: make(map[string]chan string),
		done:    make(chan struct{}),
	}
}

// Start dials the hub, completes the handshake, and begins the read and
// keepalive pumps.
func (t *signalrTransport) Start(ctx context.Context) error {
	conn, err := t.dial(ctx)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.conn = conn
	t.connected = true
	t.mu.Unlock()

	go t.readPump()
	go t.pingLoop()
	return nil
}

// dial opens a websocket to the hub URL with the current access token
// and performs the SignalR protocol handshake.
func (t *signalrTransport) dial(ctx context.Context) (*websocket.Conn, error) {
	u, err := url.Parse(t.hubURL)
	if err != nil {
		return nil, fmt.Errorf("feed: parse hub url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}

	tok, err := t.token()
	if err != nil {
		return nil, fmt.Errorf("feed: access token: %w", err)
	}
	q := u.Query()
	q.Set("access_token", tok)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("feed: dial hub: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, handshakeRequest); err != nil {
		conn.Close()
		return nil, fmt.Errorf("feed: handshake write: %w", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("feed: handshake read: %w", err)
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(bytes.TrimSuffix(data, []byte{recordSeparator}), &resp); err != nil {
		conn.Close()
		return nil, fmt.Errorf("feed: handshake decode: %w", err)
	}
	if resp.Error != "" {
		conn.Close()
		return nil, fmt.Errorf("feed: handshake rejected: %s", resp.Error)
	}
	return conn, nil
}

// readPump reads records until the transport is stopped or reconnection
// attempts are exhausted.
func (t *signalrTransport) readPump() {
	for {
		t.mu.Lock()
		conn, closed := t.conn, t.closed
		t.mu.Unlock()
		if closed || conn == nil {
			return
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if t.isClosed() {
				return
			}
			t.setConnected(false)
			t.failPending("connection lost")
			if t.h.OnReconnecting != nil {
				t.h.OnReconnecting(err)
			}
			if !t.reconnect() {
				if t.h.OnClosed != nil {
					t.h.OnClosed(err)
				}
				return
			}
			if t.h.OnReconnected != nil {
				t.h.OnReconnected()
			}
			continue
		}

		if stop := t.handleData(data); stop {
			return
		}
	}
}

// handleData dispatches each record in a websocket frame. Returns true
// when the server directed the connection to close.
func (t *signalrTransport) handleData(data []byte) bool {
	for _, record := range bytes.Split(data, []byte{recordSeparator}) {
		if len(record) == 0 {
			continue
		}
		var msg hubMessage
		if err := json.Unmarshal(record, &msg); err != nil {
			log.Printf("feed: decode hub record: %v", err)
			continue
		}
		switch msg.Type {
		case msgInvocation:
			if t.h.OnEvent != nil {
				t.h.OnEvent(msg.Target, msg.Arguments)
			}
		case msgCompletion:
			t.complete(msg.InvocationID, msg.Error)
		case msgPing:
			// Keepalive; nothing to do.
		case msgClose:
			t.failPending("connection closed by server")
			t.mu.Lock()
			t.closed = true
			t.connected = false
			conn := t.conn
			t.mu.Unlock()
			if conn != nil {
				conn.Close()
			}
			if t.h.OnClosed != nil {
				var err error
				if msg.Error != "" {
					err = errors.New(msg.Error)
				}
				t.h.OnClosed(err)
			}
			return true
		}
	}
	return false
}

// reconnect redials with capped exponential backoff. The access token is
// re-read on every attempt, so a token refreshed elsewhere is used here.
func (t *signalrTransport) reconnect() bool {
	for attempt := 0; attempt < maxReconnectAttempts; attempt++ {
		wait := time.Duration(math.Pow(2, float64(attempt))) * baseBackoff
		if wait > maxBackoff {
			wait = maxBackoff
		}
		select {
		case <-t.done:
			return false
		case <-time.After(wait):
		}

		conn, err := t.dial(context.Background())
		if err != nil {
			log.Printf("feed: reconnect attempt %d/%d: %v", attempt+1, maxReconnectAttempts, err)
			continue
		}

		t.mu.Lock()
		if t.closed {
			t.mu.Unlock()
			conn.Close()
			return false
		}
		t.conn = conn
		t.connected = true
		t.mu.Unlock()
		return true
	}
	log.Printf("feed: exhausted %d reconnection attempts, giving up", maxReconnectAttempts)
	return false
}

// Invoke calls a zero-argument hub method and waits for its completion
// record.
func (t *signalrTransport) Invoke(ctx context.Context, target string) error {
	t.mu.Lock()
	if !t.connected || t.conn == nil {
		t.mu.Unlock()
		return fmt.Errorf("feed: transport not connected")
	}
	t.nextID++
	id := strconv.Itoa(t.nextID)
	ch := make(chan string, 1)
	t.pending[id] = ch
	conn := t.conn
	t.mu.Unlock()

	inv := outboundInvocation{
		Type:         msgInvocation,
		InvocationID: id,
		Target:       target,
		Arguments:    []any{},
	}
	if err := t.writeRecord(conn, inv); err != nil {
		t.mu.Lock()
		delete(t.pending, id)
		t.mu.Unlock()
		return fmt.Errorf("feed: invoke %s: %w", target, err)
	}

	select {
	case errText := <-ch:
		if errText != "" {
			return fmt.Errorf("feed: invoke %s: %s", target, errText)
		}
		return nil
	case <-time.After(invokeTimeout):
		t.dropPending(id)
		return fmt.Errorf("feed: invoke %s: timed out", target)
	case <-ctx.Done():
		t.dropPending(id)
		return ctx.Err()
	}
}

// Connected reports whether a live connection is held.
func (t *signalrTransport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

// Stop closes the connection and stops the pumps.
func (t *signalrTransport) Stop() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.connected = false
	conn := t.conn
	close(t.done)
	t.mu.Unlock()

	t.failPending("transport stopped")
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// pingLoop sends keepalive pings until the transport stops.
func (t *signalrTransport) pingLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			t.mu.Lock()
			conn, connected := t.conn, t.connected
			t.mu.Unlock()
			if !connected || conn == nil {
				continue
			}
			if err := t.writeRecord(conn, hubMessage{Type: msgPing}); err != nil {
				log.Printf("feed: ping: %v", err)
			}
		}
	}
}

// writeRecord marshals v and writes it as one 0x1e-terminated record.
// Writes are serialized: invocations and pings share the connection.
func (t *signalrTransport) writeRecord(conn *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, append(data, recordSeparator))
}

// dropPending forgets an invocation that will no longer be waited on.
func (t *signalrTransport) dropPending(id string) {
	t.mu.Lock()
	delete(t.pending, id)
	t.mu.Unlock()
}

// complete delivers a completion record to its waiting invocation.
func (t *signalrTransport) complete(id, errText string) {
	t.mu.Lock()
	ch, ok := t.pending[id]
	delete(t.pending, id)
	t.mu.Unlock()
	if ok {
		ch <- errText
	}
}

// failPending rejects every in-flight invocation with the given reason.
func (t *signalrTransport) failPending(reason string) {
	t.mu.Lock()
	pending := t.pending
	t.pending = make(map[string]chan string)
	t.mu.Unlock()
	for _, ch := range pending {
		ch <- reason
	}
}

func (t *signalrTransport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *signalrTransport) setConnected(v bool) {
	t.mu.Lock()
	t.connected = v
	t.mu.Unlock()
}
