package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"CandlePulse/internal/collector"
	"CandlePulse/internal/config"
	"CandlePulse/internal/metrics"
	"CandlePulse/internal/model"
)

func newTestServer(t *testing.T, fetcher collector.Fetcher) *Server {
	t.Helper()
	cfg, err := config.Load("nonexistent.yaml") // defaults only
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	m := metrics.New()
	col := collector.NewCollector(fetcher, cfg.Indicator.RSIPeriod, cfg.Indicator.SMAPeriod)
	return NewServer(cfg, col, NewHub(m), m)
}

func TestHandleSnapshot(t *testing.T) {
	series := collector.GenerateMockSeries(50000000, 40)
	srv := newTestServer(t, &collector.MockFetcher{Data: series})

	req := httptest.NewRequest("GET", "/api/snapshot?market=KRW-BTC&interval=minute1&count=40", nil)
	rec := httptest.NewRecorder()
	srv.handleSnapshot(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp SnapshotResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Candles) != 40 || len(resp.RSI) != 40 {
		t.Fatalf("expected 40 candles and aligned RSI, got %d/%d", len(resp.Candles), len(resp.RSI))
	}
	for i := 0; i < 14; i++ {
		if resp.RSI[i] != nil {
			t.Errorf("position %d: expected null RSI before seed window", i)
		}
	}
	if resp.LatestRSI == nil {
		t.Error("expected a latest RSI value")
	}
	if resp.Thresholds.Overbought != 70 || resp.Thresholds.Oversold != 30 {
		t.Errorf("expected thresholds 70/30, got %+v", resp.Thresholds)
	}
	if len(resp.Tail) != 10 {
		t.Errorf("expected 10 tail rows, got %d", len(resp.Tail))
	}
	if resp.Status == "" {
		t.Error("expected a status line")
	}
}

func TestHandleSnapshot_InsufficientHistory(t *testing.T) {
	// Fewer than period+1 candles: valid response, all-absent indicator.
	series := collector.GenerateMockSeries(50000000, 14)
	srv := newTestServer(t, &collector.MockFetcher{Data: series})

	req := httptest.NewRequest("GET", "/api/snapshot", nil)
	rec := httptest.NewRecorder()
	srv.handleSnapshot(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for degenerate series, got %d", rec.Code)
	}
	var resp SnapshotResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.LatestRSI != nil {
		t.Error("expected null latest RSI when history is insufficient")
	}
	for i, v := range resp.RSI {
		if v != nil {
			t.Errorf("position %d: expected null, got %f", i, *v)
		}
	}
	if !strings.Contains(resp.Status, "insufficient data") {
		t.Errorf("expected status to flag insufficient data, got %q", resp.Status)
	}
}

func TestHandleSnapshot_UpstreamError(t *testing.T) {
	srv := newTestServer(t, &collector.MockFetcher{
		Err: &model.UpstreamError{StatusCode: 500, Body: "exchange down"},
	})

	req := httptest.NewRequest("GET", "/api/snapshot", nil)
	rec := httptest.NewRecorder()
	srv.handleSnapshot(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] == "" {
		t.Error("expected a human-readable error message")
	}
}

func TestHandleSnapshot_MalformedDataError(t *testing.T) {
	srv := newTestServer(t, &collector.MockFetcher{
		Err: &model.MalformedDataError{Field: "trade_price", Reason: "missing"},
	})

	req := httptest.NewRequest("GET", "/api/snapshot", nil)
	rec := httptest.NewRecorder()
	srv.handleSnapshot(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestHandleSnapshot_CountClamped(t *testing.T) {
	// Mock with no fixed data generates exactly `count` candles, so the
	// response length shows what the fetcher was asked for.
	srv := newTestServer(t, &collector.MockFetcher{})

	req := httptest.NewRequest("GET", "/api/snapshot?count=500", nil)
	rec := httptest.NewRecorder()
	srv.handleSnapshot(rec, req)

	var resp SnapshotResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Candles) != 200 {
		t.Errorf("expected count clamped to 200, got %d", len(resp.Candles))
	}
}

func TestHandleSnapshot_UnknownInterval(t *testing.T) {
	srv := newTestServer(t, &collector.MockFetcher{})

	req := httptest.NewRequest("GET", "/api/snapshot?interval=fortnight", nil)
	rec := httptest.NewRecorder()
	srv.handleSnapshot(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleCommand(t *testing.T) {
	srv := newTestServer(t, &collector.MockFetcher{})

	req := httptest.NewRequest("POST", "/api/command", strings.NewReader(`{"user_msg":"BTC status"}`))
	rec := httptest.NewRecorder()
	srv.handleCommand(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	last := srv.LastCommand()
	if last == nil || last.UserMsg != "BTC status" {
		t.Errorf("expected last command recorded, got %+v", last)
	}
}

func TestHandleCommand_RejectsGet(t *testing.T) {
	srv := newTestServer(t, &collector.MockFetcher{})

	req := httptest.NewRequest("GET", "/api/command", nil)
	rec := httptest.NewRecorder()
	srv.handleCommand(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestHandleIntervals(t *testing.T) {
	srv := newTestServer(t, &collector.MockFetcher{})

	req := httptest.NewRequest("GET", "/api/intervals", nil)
	rec := httptest.NewRecorder()
	srv.handleIntervals(rec, req)

	var ivs []string
	if err := json.NewDecoder(rec.Body).Decode(&ivs); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	found := false
	for _, iv := range ivs {
		if iv == "minute1" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected minute1 in interval list, got %v", ivs)
	}
}
