package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ambutrack/console/internal/config"
	"github.com/ambutrack/console/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(config.StorageConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "state.db"),
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return s
}

func testSession() models.Session {
	return models.Session{
		AccessToken:     "access-1",
		RefreshToken:    "refresh-1",
		IDToken:         "id-1",
		ExpiresAt:       time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		EmailVerified:   true,
		UserID:          "user-1",
		IsPlatformAdmin: true,
	}
}

func TestOpen_RejectsBadConfig(t *testing.T) {
	if _, err := Open(config.StorageConfig{Driver: "postgres"}); err == nil {
		t.Error("Open with an unsupported driver = nil, want an error")
	}
	if _, err := Open(config.StorageConfig{Driver: "mysql", DSN: "not a dsn"}); err == nil {
		t.Error("Open with a malformed mysql DSN = nil, want an error")
	}
}

func TestSession_EmptyStore(t *testing.T) {
	s := openTestStore(t)

	sess, err := s.Session()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess != nil {
		t.Errorf("Session() = %+v, want nil when no one is logged in", sess)
	}
}

func TestSetSession_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	want := testSession()

	if err := s.SetSession(want); err != nil {
		t.Fatalf("set session: %v", err)
	}
	got, err := s.Session()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("Session() = nil after SetSession")
	}
	if got.AccessToken != want.AccessToken {
		t.Errorf("AccessToken = %q, want %q", got.AccessToken, want.AccessToken)
	}
	if got.RefreshToken != want.RefreshToken {
		t.Errorf("RefreshToken = %q, want %q", got.RefreshToken, want.RefreshToken)
	}
	if !got.ExpiresAt.Equal(want.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, want.ExpiresAt)
	}
	if !got.IsPlatformAdmin {
		t.Error("IsPlatformAdmin = false, want true")
	}
}

func TestSetSession_ReplacesInPlace(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetSession(testSession()); err != nil {
		t.Fatalf("set first session: %v", err)
	}
	next := testSession()
	next.AccessToken = "access-2"
	if err := s.SetSession(next); err != nil {
		t.Fatalf("set second session: %v", err)
	}

	got, err := s.Session()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AccessToken != "access-2" {
		t.Errorf("AccessToken = %q, want the replacement", got.AccessToken)
	}

	var count int64
	if err := s.db.Model(&models.SessionRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	if count != 1 {
		t.Errorf("session rows = %d, want 1", count)
	}
}

func TestClearSession_RemovesSessionAndTenant(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetSession(testSession()); err != nil {
		t.Fatalf("set session: %v", err)
	}
	if err := s.SetSelectedTenant("acme"); err != nil {
		t.Fatalf("set tenant: %v", err)
	}

	if err := s.ClearSession(); err != nil {
		t.Fatalf("clear session: %v", err)
	}

	sess, err := s.Session()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess != nil {
		t.Errorf("Session() = %+v after clear, want nil", sess)
	}
	tenant, err := s.SelectedTenant()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tenant != "" {
		t.Errorf("SelectedTenant() = %q after clear, want empty", tenant)
	}
}

func TestSelectedTenant_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	tenant, err := s.SelectedTenant()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tenant != "" {
		t.Errorf("SelectedTenant() = %q on empty store, want empty", tenant)
	}

	if err := s.SetSelectedTenant("acme"); err != nil {
		t.Fatalf("set tenant: %v", err)
	}
	tenant, err = s.SelectedTenant()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tenant != "acme" {
		t.Errorf("SelectedTenant() = %q, want %q", tenant, "acme")
	}

	if err := s.SetSelectedTenant("beta"); err != nil {
		t.Fatalf("replace tenant: %v", err)
	}
	tenant, err = s.SelectedTenant()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tenant != "beta" {
		t.Errorf("SelectedTenant() = %q, want %q", tenant, "beta")
	}
}

func TestSelectedTenant_SurvivesSessionReplacement(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetSession(testSession()); err != nil {
		t.Fatalf("set session: %v", err)
	}
	if err := s.SetSelectedTenant("acme"); err != nil {
		t.Fatalf("set tenant: %v", err)
	}
	refreshed := testSession()
	refreshed.AccessToken = "access-2"
	if err := s.SetSession(refreshed); err != nil {
		t.Fatalf("replace session: %v", err)
	}

	tenant, err := s.SelectedTenant()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tenant != "acme" {
		t.Errorf("SelectedTenant() = %q after refresh, want %q", tenant, "acme")
	}
}

func TestSetSelectedTenant_EmptyClears(t *testing.T) {
	s := openTestStore(t)

	if err := s.SetSelectedTenant("acme"); err != nil {
		t.Fatalf("set tenant: %v", err)
	}
	if err := s.SetSelectedTenant(""); err != nil {
		t.Fatalf("clear tenant: %v", err)
	}
	tenant, err := s.SelectedTenant()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tenant != "" {
		t.Errorf("SelectedTenant() = %q, want empty", tenant)
	}
}
