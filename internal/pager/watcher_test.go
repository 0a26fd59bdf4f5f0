package pager

import (
	"strings"
	"testing"
	"time"

	"github.com/ambutrack/console/internal/models"
)

func req(id string, typ models.OccurrenceType) models.Request {
	return models.Request{
		ID:     id,
		Status: models.StatusAwaitingReview,
		AboutOccurrence: models.AboutOccurrence{
			Type:        typ,
			Description: "transfer to central hospital",
		},
		Pickup:    models.Pickup{Address: "Rua das Flores 100"},
		CreatedAt: time.Now(),
	}
}

func TestDiff_FirstSnapshotPrimes(t *testing.T) {
	w := NewWatcher()

	fresh := w.Diff([]models.Request{req("r1", models.OccurrenceUrgent), req("r2", models.OccurrenceElective)})
	if len(fresh) != 0 {
		t.Errorf("first Diff = %d requests, want 0 (backlog primes silently)", len(fresh))
	}

	fresh = w.Diff([]models.Request{req("r1", models.OccurrenceUrgent), req("r2", models.OccurrenceElective), req("r3", models.OccurrenceOther)})
	if len(fresh) != 1 || fresh[0].ID != "r3" {
		t.Errorf("second Diff = %+v, want only r3", fresh)
	}
}

func TestDiff_RedeliveryDoesNotRepage(t *testing.T) {
	w := NewWatcher()
	snapshot := []models.Request{req("r1", models.OccurrenceUrgent)}

	w.Diff(snapshot)
	w.Diff([]models.Request{req("r1", models.OccurrenceUrgent), req("r2", models.OccurrenceSocial)})
	// Reconnect re-delivers the same set.
	fresh := w.Diff([]models.Request{req("r1", models.OccurrenceUrgent), req("r2", models.OccurrenceSocial)})
	if len(fresh) != 0 {
		t.Errorf("re-delivered Diff = %+v, want no repeat alerts", fresh)
	}
}

func TestFormatRequestAlert_Severity(t *testing.T) {
	cases := []struct {
		typ          models.OccurrenceType
		wantSeverity string
		wantColor    string
	}{
		{models.OccurrenceEmergency, "warning", ColorWarning},
		{models.OccurrenceUrgent, "warning", ColorWarning},
		{models.OccurrenceElective, "info", ColorInfo},
		{models.OccurrenceSocial, "info", ColorInfo},
	}
	for _, tc := range cases {
		n := FormatRequestAlert(req("r1", tc.typ))
		if n.Severity != tc.wantSeverity {
			t.Errorf("%s: severity = %q, want %q", tc.typ, n.Severity, tc.wantSeverity)
		}
		if n.Color != tc.wantColor {
			t.Errorf("%s: color = %q, want %q", tc.typ, n.Color, tc.wantColor)
		}
	}
}

func TestFormatRequestAlert_Fields(t *testing.T) {
	r := req("r1", models.OccurrenceUrgent)
	r.Patient = &models.Patient{Name: "Maria Souza"}
	when := time.Date(2026, 9, 1, 14, 30, 0, 0, time.UTC)
	r.Scheduling = &models.Scheduling{DateTime: when}

	n := FormatRequestAlert(r)
	byName := map[string]string{}
	for _, f := range n.Fields {
		byName[f.Name] = f.Value
	}
	if byName["Type"] != string(models.OccurrenceUrgent) {
		t.Errorf("Type field = %q", byName["Type"])
	}
	if byName["Pickup"] != "Rua das Flores 100" {
		t.Errorf("Pickup field = %q", byName["Pickup"])
	}
	if byName["Patient"] != "Maria Souza" {
		t.Errorf("Patient field = %q", byName["Patient"])
	}
	if !strings.Contains(byName["Scheduled"], "2026") {
		t.Errorf("Scheduled field = %q, want the scheduled time", byName["Scheduled"])
	}
}

func TestFormatDigest_EmptySuppressed(t *testing.T) {
	if _, ok := FormatDigest(nil); ok {
		t.Error("FormatDigest(nil) ok = true, want suppressed")
	}
}

func TestFormatDigest_CountsByType(t *testing.T) {
	old := req("r1", models.OccurrenceEmergency)
	old.CreatedAt = time.Now().Add(-3 * time.Hour)
	snapshot := []models.Request{
		old,
		req("r2", models.OccurrenceUrgent),
		req("r3", models.OccurrenceUrgent),
	}

	n, ok := FormatDigest(snapshot)
	if !ok {
		t.Fatal("FormatDigest ok = false, want a digest for a non-empty backlog")
	}
	if !strings.Contains(n.Title, "3") {
		t.Errorf("title = %q, want the backlog size", n.Title)
	}
	byName := map[string]string{}
	for _, f := range n.Fields {
		byName[f.Name] = f.Value
	}
	if byName[string(models.OccurrenceEmergency)] != "1" {
		t.Errorf("Emergency count = %q, want 1", byName[string(models.OccurrenceEmergency)])
	}
	if byName[string(models.OccurrenceUrgent)] != "2" {
		t.Errorf("Urgent count = %q, want 2", byName[string(models.OccurrenceUrgent)])
	}
	if byName["Oldest"] == "" {
		t.Error("digest has no Oldest field")
	}
}

func TestFormatDisconnectReconnect(t *testing.T) {
	n := FormatDisconnect("reconnecting: read reset")
	if n.Severity != "error" || n.Color != ColorError {
		t.Errorf("disconnect = %+v, want error severity", n)
	}
	if !strings.Contains(n.Body, "read reset") {
		t.Errorf("disconnect body = %q, want the last error", n.Body)
	}

	r := FormatReconnect()
	if r.Severity != "success" || r.Color != ColorSuccess {
		t.Errorf("reconnect = %+v, want success severity", r)
	}
}

func TestDigestSchedule(t *testing.T) {
	s, err := parseDigestSchedule("*/5 * * * *")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	now := time.Date(2026, 3, 1, 9, 2, 30, 0, time.UTC)
	if d := s.untilNext(now); d != 2*time.Minute+30*time.Second {
		t.Errorf("untilNext(09:02:30) = %v, want 2m30s to the next 5-minute mark", d)
	}

	if _, err := parseDigestSchedule("not a cron"); err == nil {
		t.Error("parse of a garbage expression = nil error, want failure")
	}
}
