package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ambutrack/console/internal/api"
	"github.com/ambutrack/console/internal/config"
	"github.com/ambutrack/console/internal/models"
	"github.com/ambutrack/console/internal/store"
)

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(ctx context.Context) error {
	f.calls++
	return f.err
}

func newTestWorkflow(t *testing.T, handler http.Handler, feed Refresher) *Workflow {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	st, err := store.Open(config.StorageConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "state.db"),
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.SetSession(models.Session{AccessToken: "tok"}); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	if err := st.SetSelectedTenant("acme"); err != nil {
		t.Fatalf("select tenant: %v", err)
	}

	client, err := api.New(api.Opts{BaseURL: srv.URL, Store: st})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	wf, err := New(client, feed)
	if err != nil {
		t.Fatalf("new workflow: %v", err)
	}
	return wf
}

func TestAssign_ValidatesInput(t *testing.T) {
	wf := newTestWorkflow(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the backend")
	}), nil)

	cases := []struct {
		name          string
		requestID     string
		driverShiftID string
		priority      models.Priority
	}{
		{"empty request id", "", "shift42", models.PriorityHigh},
		{"empty shift id", "r1", "", models.PriorityHigh},
		{"invalid priority", "r1", "shift42", models.Priority("Extreme")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := wf.Assign(context.Background(), tc.requestID, tc.driverShiftID, tc.priority); err == nil {
				t.Error("expected a validation error, got nil")
			}
		})
	}
}

func TestAssign_SubmitsAndRefreshes(t *testing.T) {
	var gotPath string
	var gotBody models.StartOccurrenceRequest
	feed := &fakeRefresher{}
	wf := newTestWorkflow(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusOK)
	}), feed)

	err := wf.Assign(context.Background(), "r1", "shift42", models.PriorityHigh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/tenants/acme/dispatch/requests/r1/occurrence" {
		t.Errorf("path = %q, want the occurrence endpoint", gotPath)
	}
	if gotBody.DriverShiftID != "shift42" {
		t.Errorf("driverShiftId = %q, want %q", gotBody.DriverShiftID, "shift42")
	}
	if gotBody.Priority != models.PriorityHigh {
		t.Errorf("priority = %q, want %q", gotBody.Priority, models.PriorityHigh)
	}
	if feed.calls != 1 {
		t.Errorf("feed refreshes = %d, want 1", feed.calls)
	}
}

func TestAssign_BackendRejectionVerbatim(t *testing.T) {
	feed := &fakeRefresher{}
	wf := newTestWorkflow(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte("driver shift already assigned"))
	}), feed)

	err := wf.Assign(context.Background(), "r1", "shift42", models.PriorityHigh)
	var httpErr *api.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error = %v, want the backend's HTTPError", err)
	}
	if httpErr.Status != http.StatusConflict {
		t.Errorf("status = %d, want 409", httpErr.Status)
	}
	if !strings.Contains(httpErr.Body, "driver shift already assigned") {
		t.Errorf("body = %q, want the backend message verbatim", httpErr.Body)
	}
	if feed.calls != 0 {
		t.Errorf("feed refreshes = %d, want 0 on rejection", feed.calls)
	}
}

func TestAssign_RefreshFailureIsSwallowed(t *testing.T) {
	feed := &fakeRefresher{err: errors.New("not connected")}
	wf := newTestWorkflow(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), feed)

	if err := wf.Assign(context.Background(), "r1", "shift42", models.PriorityLow); err != nil {
		t.Errorf("unexpected error: %v, want refresh failures swallowed", err)
	}
	if feed.calls != 1 {
		t.Errorf("feed refreshes = %d, want 1", feed.calls)
	}
}

func TestAssign_NilFeedSkipsRefresh(t *testing.T) {
	wf := newTestWorkflow(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), nil)

	if err := wf.Assign(context.Background(), "r1", "shift42", models.PriorityMedium); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAvailableDrivers(t *testing.T) {
	wf := newTestWorkflow(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tenants/acme/drivers/available" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]models.DriverStatus{
			{TenantUserID: "u1", Name: "Ana", IsOnline: true,
				ActiveShift: &models.ActiveShiftSummary{DriverShiftID: "shift42"}},
			{TenantUserID: "u2", Name: "Bruno", IsOnline: false},
		})
	}), nil)

	drivers, err := wf.AvailableDrivers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drivers) != 2 {
		t.Fatalf("len(drivers) = %d, want 2", len(drivers))
	}
	if drivers[0].ActiveShift == nil || drivers[0].ActiveShift.DriverShiftID != "shift42" {
		t.Errorf("drivers[0].ActiveShift = %+v, want shift42", drivers[0].ActiveShift)
	}
	if drivers[1].ActiveShift != nil {
		t.Errorf("drivers[1].ActiveShift = %+v, want nil for an off-shift driver", drivers[1].ActiveShift)
	}
}
