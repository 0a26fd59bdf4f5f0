package dashboard

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ambutrack/console/internal/feed"
)

func newTestRouter(t *testing.T) (*gin.Engine, *feed.Client) {
	t.Helper()
	fd, err := feed.New(feed.Opts{
		HubBaseURL: "https://hub.example",
		Token:      func() (string, error) { return "tok", nil },
	})
	if err != nil {
		t.Fatalf("new feed: %v", err)
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	tmpl, err := parseTemplates()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	router.SetHTMLTemplate(tmpl)
	registerRoutes(router, fd)
	return router, fd
}

func TestIndex_RendersPage(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Ambutrack Console") {
		t.Error("index page is missing the title")
	}
	if !strings.Contains(body, "/api/events") {
		t.Error("index page does not wire up the event stream")
	}
}

func TestStatus_IdleFeed(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got struct {
		Tenant    string `json:"tenant"`
		Connected bool   `json:"connected"`
		Error     string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Connected {
		t.Error("connected = true for an idle feed")
	}
	if got.Tenant != "" {
		t.Errorf("tenant = %q, want empty", got.Tenant)
	}
}

func TestRequests_EmptyList(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/requests", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got struct {
		Requests []any `json:"requests"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Requests) != 0 {
		t.Errorf("requests = %v, want empty", got.Requests)
	}
}

func TestSSE_SendsConnectedEvent(t *testing.T) {
	router, _ := newTestRouter(t)
	srv := httptest.NewServer(router)
	defer srv.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(srv.URL + "/api/events")
	if err != nil {
		t.Fatalf("get events: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}

	scanner := bufio.NewScanner(resp.Body)
	found := false
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), "event: connected") {
			found = true
			break
		}
	}
	if !found {
		t.Error("never received the connected event")
	}
}
