package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"CandlePulse/internal/model"
)

// UpbitFetcher implements Fetcher using the Upbit public market-data API.
type UpbitFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewUpbitFetcher creates a fetcher with a bounded request timeout and
// optional proxy support.
func NewUpbitFetcher(baseURL string, timeout time.Duration, proxyURL string) *UpbitFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &UpbitFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *UpbitFetcher) Name() string { return "upbit" }

// FetchCandles performs a single GET against the candle endpoint for the
// interval and normalizes the response. No retries; the caller owns retry
// policy if it wants one.
func (f *UpbitFetcher) FetchCandles(ctx context.Context, market string, iv model.Interval, count int) (model.Series, error) {
	endpoint := fmt.Sprintf("%s/v1/candles/%s?market=%s&count=%d",
		f.BaseURL, iv.Path(), url.QueryEscape(market), count)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &model.UpstreamError{Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.UpstreamError{StatusCode: resp.StatusCode, Body: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &model.UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &model.MalformedDataError{Field: "(root)", Reason: fmt.Sprintf("not a JSON array: %v", err)}
	}
	return Normalize(raw)
}
