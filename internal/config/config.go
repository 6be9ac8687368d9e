package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"CandlePulse/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Exchange struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"exchange"`
	Market struct {
		Symbol   string `yaml:"symbol"`
		Interval string `yaml:"interval"`
		Count    int    `yaml:"count"`
		CountMin int    `yaml:"count_min"`
		CountMax int    `yaml:"count_max"`
	} `yaml:"market"`
	Indicator struct {
		RSIPeriod int `yaml:"rsi_period"`
		SMAPeriod int `yaml:"sma_period"`
	} `yaml:"indicator"`
	Dashboard struct {
		ListenAddr string `yaml:"listen_addr"`
		TailRows   int    `yaml:"tail_rows"`
	} `yaml:"dashboard"`
	Relay struct {
		ListenAddr     string `yaml:"listen_addr"`
		ForwardURL     string `yaml:"forward_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"relay"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"`
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is fine; defaults cover everything.
func Load(path string) (*Config, error) {
	// .env support for local development; absence is not an error.
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("UPBIT_BASE_URL"); v != "" {
		cfg.Exchange.BaseURL = v
	}
	if v := os.Getenv("MARKET_SYMBOL"); v != "" {
		cfg.Market.Symbol = v
	}
	if v := os.Getenv("CANDLE_INTERVAL"); v != "" {
		cfg.Market.Interval = v
	}
	if v := os.Getenv("CANDLE_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Market.Count = n
		}
	}
	if v := os.Getenv("RSI_PERIOD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Indicator.RSIPeriod = n
		}
	}
	if v := os.Getenv("DASHBOARD_ADDR"); v != "" {
		cfg.Dashboard.ListenAddr = v
	}
	if v := os.Getenv("RELAY_ADDR"); v != "" {
		cfg.Relay.ListenAddr = v
	}
	if v := os.Getenv("RELAY_FORWARD_URL"); v != "" {
		cfg.Relay.ForwardURL = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Exchange.BaseURL == "" {
		cfg.Exchange.BaseURL = "https://api.upbit.com"
	}
	if cfg.Exchange.TimeoutSeconds == 0 {
		cfg.Exchange.TimeoutSeconds = 10
	}
	if cfg.Market.Symbol == "" {
		cfg.Market.Symbol = "KRW-BTC"
	}
	if cfg.Market.Interval == "" {
		cfg.Market.Interval = string(model.IntervalMinute1)
	}
	if cfg.Market.Count == 0 {
		cfg.Market.Count = 100
	}
	if cfg.Market.CountMin == 0 {
		cfg.Market.CountMin = 30
	}
	if cfg.Market.CountMax == 0 {
		cfg.Market.CountMax = 200
	}
	if cfg.Indicator.RSIPeriod == 0 {
		cfg.Indicator.RSIPeriod = 14
	}
	if cfg.Indicator.SMAPeriod == 0 {
		cfg.Indicator.SMAPeriod = 20
	}
	if cfg.Dashboard.ListenAddr == "" {
		cfg.Dashboard.ListenAddr = ":8080"
	}
	if cfg.Dashboard.TailRows == 0 {
		cfg.Dashboard.TailRows = 10
	}
	if cfg.Relay.ListenAddr == "" {
		cfg.Relay.ListenAddr = ":8081"
	}
	if cfg.Relay.ForwardURL == "" {
		cfg.Relay.ForwardURL = "http://localhost:8080/api/command"
	}
	if cfg.Relay.TimeoutSeconds == 0 {
		cfg.Relay.TimeoutSeconds = 2
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if _, err := model.ParseInterval(c.Market.Interval); err != nil {
		return fmt.Errorf("market.interval: %w", err)
	}
	if c.Market.CountMin <= 0 || c.Market.CountMax < c.Market.CountMin {
		return fmt.Errorf("market count bounds invalid: [%d, %d]", c.Market.CountMin, c.Market.CountMax)
	}
	if c.Indicator.RSIPeriod <= 0 {
		return fmt.Errorf("indicator.rsi_period must be positive")
	}
	if c.Indicator.SMAPeriod <= 0 {
		return fmt.Errorf("indicator.sma_period must be positive")
	}
	return nil
}

// ClampCount bounds a requested candle count to the configured range.
func (c *Config) ClampCount(n int) int {
	if n < c.Market.CountMin {
		return c.Market.CountMin
	}
	if n > c.Market.CountMax {
		return c.Market.CountMax
	}
	return n
}

// ExchangeTimeout returns the fetcher's request timeout.
func (c *Config) ExchangeTimeout() time.Duration {
	return time.Duration(c.Exchange.TimeoutSeconds) * time.Second
}

// RelayTimeout returns the relay's forward timeout.
func (c *Config) RelayTimeout() time.Duration {
	return time.Duration(c.Relay.TimeoutSeconds) * time.Second
}
