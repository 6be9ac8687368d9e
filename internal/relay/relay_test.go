package relay

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"CandlePulse/internal/metrics"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) skillResponse {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var resp skillResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if resp.Version != "2.0" {
		t.Errorf("expected envelope version 2.0, got %q", resp.Version)
	}
	if len(resp.Template.Outputs) != 1 {
		t.Fatalf("expected one output, got %d", len(resp.Template.Outputs))
	}
	return resp
}

func TestHandleWebhook_ForwardsUtterance(t *testing.T) {
	var gotBody map[string]string
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	rl := NewRelay(target.URL, 2*time.Second, metrics.New())
	req := httptest.NewRequest("POST", "/webhook",
		strings.NewReader(`{"userRequest":{"utterance":"BTC status"}}`))
	rec := httptest.NewRecorder()
	rl.HandleWebhook(rec, req)

	resp := decodeEnvelope(t, rec)
	if !strings.Contains(resp.Template.Outputs[0].SimpleText.Text, "BTC status") {
		t.Errorf("expected ack naming the utterance, got %q", resp.Template.Outputs[0].SimpleText.Text)
	}
	if gotBody["user_msg"] != "BTC status" {
		t.Errorf("expected forwarded user_msg, got %v", gotBody)
	}
}

func TestHandleWebhook_UnreachableTargetStillSucceeds(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target.Close() // forward will fail with connection refused

	rl := NewRelay(target.URL, 500*time.Millisecond, metrics.New())
	req := httptest.NewRequest("POST", "/webhook",
		strings.NewReader(`{"userRequest":{"utterance":"BTC status"}}`))
	rec := httptest.NewRecorder()
	rl.HandleWebhook(rec, req)

	// The chat caller must never see the forward failure.
	resp := decodeEnvelope(t, rec)
	if !strings.Contains(resp.Template.Outputs[0].SimpleText.Text, "BTC status") {
		t.Errorf("expected ack naming the utterance, got %q", resp.Template.Outputs[0].SimpleText.Text)
	}
}

func TestHandleWebhook_EmptyUtterance(t *testing.T) {
	var forwarded bool
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forwarded = true
	}))
	defer target.Close()

	rl := NewRelay(target.URL, 2*time.Second, metrics.New())
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(`{"userRequest":{"utterance":""}}`))
	rec := httptest.NewRecorder()
	rl.HandleWebhook(rec, req)

	decodeEnvelope(t, rec)
	if !forwarded {
		t.Error("empty utterance should still be forwarded")
	}
}

func TestHandleWebhook_MalformedBody(t *testing.T) {
	rl := NewRelay("http://localhost:0", 500*time.Millisecond, metrics.New())
	req := httptest.NewRequest("POST", "/webhook", strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()
	rl.HandleWebhook(rec, req)

	// Still a 200-style success envelope, just a generic failure text.
	resp := decodeEnvelope(t, rec)
	if resp.Template.Outputs[0].SimpleText.Text == "" {
		t.Error("expected a non-empty failure message")
	}
}
