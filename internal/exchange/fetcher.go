package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RateFetcher returns the current USD price of one unit of the store's base
// currency (e.g. 1 INR ≈ 0.012 USD).
type RateFetcher interface {
	Fetch(ctx context.Context) (float64, error)
}

// FetcherFunc adapts a plain function to RateFetcher.
type FetcherFunc func(ctx context.Context) (float64, error)

func (f FetcherFunc) Fetch(ctx context.Context) (float64, error) { return f(ctx) }

type erAPIResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// ERAPIFetcher pulls rates from open.er-api.com. The endpoint quotes
// base-per-USD, so the reciprocal is taken.
type ERAPIFetcher struct {
	url          string
	baseCurrency string
	client       *http.Client
}

func NewERAPIFetcher(url, baseCurrency string, timeout time.Duration) *ERAPIFetcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ERAPIFetcher{
		url:          url,
		baseCurrency: baseCurrency,
		client:       &http.Client{Timeout: timeout},
	}
}

func (f *ERAPIFetcher) Fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate provider status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, err
	}
	var data erAPIResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return 0, err
	}
	perUSD, ok := data.Rates[f.baseCurrency]
	if !ok || perUSD <= 0 {
		return 0, fmt.Errorf("rate for %s missing in provider response", f.baseCurrency)
	}
	// 1 USD = perUSD base → 1 base = 1/perUSD USD
	return 1.0 / perUSD, nil
}
