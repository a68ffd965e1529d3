package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSignAndVerify(t *testing.T) {
	payload := []byte(`{"card_id":"c1","to":"done"}`)
	sig := SignPayload(payload, "topsecret")
	if sig == "" {
		t.Fatal("expected non-empty signature")
	}
	if !VerifySignature(payload, "topsecret", sig) {
		t.Error("expected signature to verify")
	}
	if VerifySignature(payload, "wrong", sig) {
		t.Error("expected verification to fail with wrong secret")
	}
	if VerifySignature([]byte("tampered"), "topsecret", sig) {
		t.Error("expected verification to fail for tampered payload")
	}
}

func TestEventMatches(t *testing.T) {
	cases := []struct {
		pattern string
		event   string
		want    bool
	}{
		{"card.moved", "card.moved", true},
		{"card.moved", "card.created", false},
		{"card.*", "card.moved", true},
		{"card.*", "invoice.paid", false},
		{"*.paid", "invoice.paid", true},
		{"*.paid", "invoice.created", false},
	}
	for _, tc := range cases {
		if got := eventMatches(tc.pattern, tc.event); got != tc.want {
			t.Errorf("eventMatches(%q, %q) = %v, want %v", tc.pattern, tc.event, got, tc.want)
		}
	}
}

func TestRegisterEndpoint_GeneratesSecret(t *testing.T) {
	m := NewManager(NewMemoryStore())
	ep, err := m.RegisterEndpoint(context.Background(), "https://hooks.example.com/x", "", "default", []string{"card.*"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ep.Secret == "" {
		t.Error("expected generated secret")
	}
	if ep.Status != "active" {
		t.Errorf("expected status active, got %q", ep.Status)
	}
}

func TestRegisterEndpoint_RejectsBadURL(t *testing.T) {
	m := NewManager(NewMemoryStore())
	if _, err := m.RegisterEndpoint(context.Background(), "ftp://example.com", "", "default", nil); err == nil {
		t.Error("expected error for non-http scheme")
	}
	if _, err := m.RegisterEndpoint(context.Background(), "", "", "default", nil); err == nil {
		t.Error("expected error for empty url")
	}
}

func TestDeliver_SignsAndPosts(t *testing.T) {
	var gotSig, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Webhook-Signature")
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewMemoryStore()
	m := NewManager(store)
	ep, err := m.RegisterEndpoint(context.Background(), srv.URL, "s3cret", "default", []string{"card.moved"})
	if err != nil {
		t.Fatal(err)
	}

	event := Event{
		ID:           "evt-1",
		Type:         "card.moved",
		ResourceType: "Card",
		ResourceID:   "c1",
		TenantID:     "default",
		Payload:      json.RawMessage(`{"to":"done"}`),
		Timestamp:    time.Now(),
	}

	results := m.Deliver(context.Background(), event)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !results[0].Success {
		t.Errorf("expected success, got %+v", results[0])
	}
	if gotSig != "sha256="+SignPayload([]byte(gotBody), "s3cret") {
		t.Error("signature header does not match payload")
	}

	deliveries, total, err := m.DeliveryLogs(context.Background(), ep.ID, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || deliveries[0].Status != "success" {
		t.Errorf("expected one successful delivery, got total=%d", total)
	}
}

func TestDeliver_SkipsPausedAndNonMatching(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("paused endpoint should not receive deliveries")
	}))
	defer srv.Close()

	m := NewManager(NewMemoryStore())
	ep, _ := m.RegisterEndpoint(context.Background(), srv.URL, "s", "default", []string{"card.moved"})
	if err := m.PauseEndpoint(context.Background(), ep.ID); err != nil {
		t.Fatal(err)
	}

	results := m.Deliver(context.Background(), Event{Type: "card.moved", TenantID: "default"})
	if len(results) != 0 {
		t.Errorf("expected no deliveries to paused endpoint, got %d", len(results))
	}

	if err := m.ResumeEndpoint(context.Background(), ep.ID); err != nil {
		t.Fatal(err)
	}
	results = m.Deliver(context.Background(), Event{Type: "invoice.paid", TenantID: "default"})
	if len(results) != 0 {
		t.Errorf("expected no deliveries for non-matching event, got %d", len(results))
	}
}

func TestDeliver_RecordsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := NewManager(NewMemoryStore())
	ep, _ := m.RegisterEndpoint(context.Background(), srv.URL, "s", "default", []string{"card.moved"})

	results := m.Deliver(context.Background(), Event{ID: "e1", Type: "card.moved", TenantID: "default"})
	if len(results) != 1 || results[0].Success {
		t.Fatalf("expected one failed result, got %+v", results)
	}

	deliveries, _, _ := m.DeliveryLogs(context.Background(), ep.ID, 10, 0)
	if len(deliveries) != 1 || deliveries[0].Status != "failed" {
		t.Errorf("expected failed delivery recorded")
	}
}
