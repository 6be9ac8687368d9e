package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Market.Symbol != "KRW-BTC" {
		t.Errorf("expected default symbol KRW-BTC, got %s", cfg.Market.Symbol)
	}
	if cfg.Indicator.RSIPeriod != 14 {
		t.Errorf("expected default RSI period 14, got %d", cfg.Indicator.RSIPeriod)
	}
	if cfg.Market.CountMin != 30 || cfg.Market.CountMax != 200 {
		t.Errorf("expected count bounds [30, 200], got [%d, %d]", cfg.Market.CountMin, cfg.Market.CountMax)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("market:\n  symbol: KRW-ETH\n  interval: minute15\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	t.Setenv("MARKET_SYMBOL", "KRW-XRP")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Market.Symbol != "KRW-XRP" {
		t.Errorf("env override should win, got %s", cfg.Market.Symbol)
	}
	if cfg.Market.Interval != "minute15" {
		t.Errorf("expected file value minute15, got %s", cfg.Market.Interval)
	}
}

func TestValidate_BadInterval(t *testing.T) {
	cfg, _ := Load("nonexistent.yaml")
	cfg.Market.Interval = "fortnight"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown interval")
	}
}

func TestClampCount(t *testing.T) {
	cfg, _ := Load("nonexistent.yaml")
	tests := []struct{ in, want int }{
		{10, 30},
		{30, 30},
		{100, 100},
		{200, 200},
		{500, 200},
	}
	for _, tt := range tests {
		if got := cfg.ClampCount(tt.in); got != tt.want {
			t.Errorf("ClampCount(%d): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}
