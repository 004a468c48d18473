package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Jxnis/sui-portfolio-analysis-agent/core"
)

const (
	defaultBaseURL = "https://api.coingecko.com/api/v3"
	defaultTimeout = 10 * time.Second

	// topCoinCount is the size of the market snapshot; one page, no
	// pagination beyond it.
	topCoinCount = 30
)

// Client fetches market data from CoinGecko.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a CoinGecko client. An empty baseURL falls back to the
// public API.
func NewClient(baseURL string) *Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type marketCoin struct {
	ID                       string  `json:"id"`
	Symbol                   string  `json:"symbol"`
	CurrentPrice             float64 `json:"current_price"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	MarketCap                float64 `json:"market_cap"`
}

// TopCoins returns the top assets by market cap with USD price and 24h
// change, in the API's market-cap-descending order. The snapshot is fetched
// fresh on every call; there is no caching.
func (c *Client) TopCoins(ctx context.Context) (core.MarketData, error) {
	query := url.Values{}
	query.Set("vs_currency", "usd")
	query.Set("order", "market_cap_desc")
	query.Set("per_page", fmt.Sprintf("%d", topCoinCount))
	query.Set("page", "1")
	query.Set("sparkline", "false")
	query.Set("price_change_percentage", "24h")

	endpoint := c.baseURL + "/coins/markets?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build markets request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("markets request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("markets returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var coins []marketCoin
	if err := json.NewDecoder(resp.Body).Decode(&coins); err != nil {
		return nil, fmt.Errorf("decode markets response: %w", err)
	}

	data := make(core.MarketData, 0, len(coins))
	for _, coin := range coins {
		data = append(data, core.CoinData{
			ID:        coin.ID,
			Symbol:    strings.ToUpper(coin.Symbol),
			Price:     coin.CurrentPrice,
			Change24h: coin.PriceChangePercentage24h,
			MarketCap: coin.MarketCap,
		})
	}
	return data, nil
}
