package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// fakeHub is a minimal SignalR endpoint: it accepts the websocket
// upgrade, verifies the protocol handshake, then hands the connection to
// the test script.
type fakeHub struct {
	t      *testing.T
	script func(conn *websocket.Conn)

	gotToken chan string
}

func newFakeHub(t *testing.T, script func(conn *websocket.Conn)) *fakeHub {
	return &fakeHub{t: t, script: script, gotToken: make(chan string, 1)}
}

func (h *fakeHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	select {
	case h.gotToken <- r.URL.Query().Get("access_token"):
	default:
	}

	upgrader := websocket.Upgrader{}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.t.Errorf("upgrade: %v", err)
		return
	}
	defer conn.Close()

	_, data, err := conn.ReadMessage()
	if err != nil {
		h.t.Errorf("read handshake: %v", err)
		return
	}
	var hs struct {
		Protocol string `json:"protocol"`
		Version  int    `json:"version"`
	}
	if err := json.Unmarshal(bytes.TrimSuffix(data, []byte{recordSeparator}), &hs); err != nil {
		h.t.Errorf("decode handshake: %v", err)
		return
	}
	if hs.Protocol != "json" || hs.Version != 1 {
		h.t.Errorf("handshake = %+v, want json v1", hs)
	}
	// Empty object means handshake accepted.
	conn.WriteMessage(websocket.TextMessage, append([]byte(`{}`), recordSeparator))

	if h.script != nil {
		h.script(conn)
	}
	// Hold the connection open until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeHubRecord(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, append(data, recordSeparator)); err != nil {
		t.Errorf("write record: %v", err)
	}
}

func startTransport(t *testing.T, hub *fakeHub, h transportHandlers) *signalrTransport {
	t.Helper()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	tr := newSignalRTransport(srv.URL, staticToken("tok-feed"), h).(*signalrTransport)
	if err := tr.Start(context.Background()); err != nil {
		t.Fatalf("start transport: %v", err)
	}
	t.Cleanup(func() { tr.Stop() })
	return tr
}

func TestSignalR_StartHandshake(t *testing.T) {
	hub := newFakeHub(t, nil)
	tr := startTransport(t, hub, transportHandlers{})

	if !tr.Connected() {
		t.Error("transport not connected after handshake")
	}
	select {
	case tok := <-hub.gotToken:
		if tok != "tok-feed" {
			t.Errorf("access_token = %q, want %q", tok, "tok-feed")
		}
	case <-time.After(time.Second):
		t.Fatal("hub never saw the dial")
	}
}

func TestSignalR_InvokeCompletion(t *testing.T) {
	hub := newFakeHub(t, func(conn *websocket.Conn) {
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Errorf("read invocation: %v", err)
			return
		}
		var inv outboundInvocation
		if err := json.Unmarshal(bytes.TrimSuffix(data, []byte{recordSeparator}), &inv); err != nil {
			t.Errorf("decode invocation: %v", err)
			return
		}
		if inv.Type != msgInvocation || inv.Target != subscribeMethod {
			t.Errorf("invocation = %+v, want a %s call", inv, subscribeMethod)
		}
		if inv.Arguments == nil {
			t.Error("invocation arguments are nil, want an empty array")
		}
		writeHubRecord(t, conn, hubMessage{Type: msgCompletion, InvocationID: inv.InvocationID})
	})
	tr := startTransport(t, hub, transportHandlers{})

	if err := tr.Invoke(context.Background(), subscribeMethod); err != nil {
		t.Fatalf("invoke: %v", err)
	}
}

func TestSignalR_InvokeErrorCompletion(t *testing.T) {
	hub := newFakeHub(t, func(conn *websocket.Conn) {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var inv outboundInvocation
		json.Unmarshal(bytes.TrimSuffix(data, []byte{recordSeparator}), &inv)
		writeHubRecord(t, conn, hubMessage{
			Type:         msgCompletion,
			InvocationID: inv.InvocationID,
			Error:        "method rejected",
		})
	})
	tr := startTransport(t, hub, transportHandlers{})

	err := tr.Invoke(context.Background(), subscribeMethod)
	if err == nil || !strings.Contains(err.Error(), "method rejected") {
		t.Errorf("invoke error = %v, want the hub's rejection", err)
	}
}

func TestSignalR_InvokeCancelDropsPending(t *testing.T) {
	// The hub swallows the invocation and never completes it.
	hub := newFakeHub(t, nil)
	tr := startTransport(t, hub, transportHandlers{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := tr.Invoke(ctx, subscribeMethod); err != context.Canceled {
		t.Fatalf("invoke error = %v, want context.Canceled", err)
	}

	tr.mu.Lock()
	remaining := len(tr.pending)
	tr.mu.Unlock()
	if remaining != 0 {
		t.Errorf("pending invocations = %d, want the abandoned call forgotten", remaining)
	}
}

func TestSignalR_ServerPushEvent(t *testing.T) {
	events := make(chan string, 1)
	hub := newFakeHub(t, func(conn *websocket.Conn) {
		writeHubRecord(t, conn, hubMessage{
			Type:      msgInvocation,
			Target:    updatedEvent,
			Arguments: []json.RawMessage{json.RawMessage(`[{"id":"r1"}]`)},
		})
	})
	startTransport(t, hub, transportHandlers{
		OnEvent: func(target string, args []json.RawMessage) {
			if len(args) == 1 {
				events <- target
			}
		},
	})

	select {
	case target := <-events:
		if target != updatedEvent {
			t.Errorf("event target = %q, want %q", target, updatedEvent)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("push event never arrived")
	}
}

func TestSignalR_ServerClose(t *testing.T) {
	closed := make(chan error, 1)
	hub := newFakeHub(t, func(conn *websocket.Conn) {
		writeHubRecord(t, conn, hubMessage{Type: msgClose, Error: "server going away"})
	})
	tr := startTransport(t, hub, transportHandlers{
		OnClosed: func(err error) { closed <- err },
	})

	select {
	case err := <-closed:
		if err == nil || !strings.Contains(err.Error(), "server going away") {
			t.Errorf("close error = %v, want the server's reason", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("OnClosed never fired")
	}
	if tr.Connected() {
		t.Error("transport still connected after a server close")
	}
}

func TestSignalR_StopIdempotent(t *testing.T) {
	hub := newFakeHub(t, nil)
	tr := startTransport(t, hub, transportHandlers{})

	if err := tr.Stop(); err != nil {
		t.Fatalf("first stop: %v", err)
	}
	if err := tr.Stop(); err != nil {
		t.Fatalf("second stop: %v", err)
	}
	if tr.Connected() {
		t.Error("transport connected after Stop")
	}
}
