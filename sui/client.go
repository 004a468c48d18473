package sui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Jxnis/sui-portfolio-analysis-agent/core"
)

const (
	defaultRPCURL  = "https://fullnode.mainnet.sui.io"
	defaultTimeout = 15 * time.Second

	// mistPerSui converts the fullnode's MIST amounts to whole SUI.
	mistPerSui = 1e9
)

// Client talks JSON-RPC to a Sui fullnode.
type Client struct {
	rpcURL     string
	httpClient *http.Client
}

// NewClient creates a fullnode client. An empty rpcURL falls back to the
// mainnet fullnode.
func NewClient(rpcURL string) *Client {
	rpcURL = strings.TrimSpace(rpcURL)
	if rpcURL == "" {
		rpcURL = defaultRPCURL
	}
	return &Client{
		rpcURL:     strings.TrimRight(rpcURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// WalletData fetches a wallet snapshot: native balance, owned objects with
// display metadata, and all coin balances. The three calls run concurrently
// and the snapshot is all-or-nothing: if any call fails, the whole fetch
// fails and the caller is expected to proceed without wallet context.
func (c *Client) WalletData(ctx context.Context, address string) (*core.WalletData, error) {
	var (
		balance float64
		objects []core.OwnedObject
		coins   []core.Coin
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		balance, err = c.getBalance(ctx, address)
		return err
	})
	g.Go(func() error {
		var err error
		objects, err = c.getOwnedObjects(ctx, address)
		return err
	})
	g.Go(func() error {
		var err error
		coins, err = c.getAllCoins(ctx, address)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &core.WalletData{
		SuiBalance:   balance,
		Objects:      objects,
		Coins:        coins,
		TotalObjects: len(objects),
		TotalCoins:   len(coins),
	}, nil
}

func (c *Client) getBalance(ctx context.Context, owner string) (float64, error) {
	var result struct {
		TotalBalance string `json:"totalBalance"`
	}
	if err := c.call(ctx, "suix_getBalance", []any{owner, core.SuiCoinType}, &result); err != nil {
		return 0, err
	}
	mist, err := strconv.ParseFloat(result.TotalBalance, 64)
	if err != nil {
		return 0, fmt.Errorf("parse totalBalance %q: %w", result.TotalBalance, err)
	}
	return mist / mistPerSui, nil
}

func (c *Client) getOwnedObjects(ctx context.Context, owner string) ([]core.OwnedObject, error) {
	var result struct {
		Data []struct {
			Data struct {
				ObjectID string `json:"objectId"`
				Display  struct {
					Data struct {
						Name string `json:"name"`
					} `json:"data"`
				} `json:"display"`
			} `json:"data"`
		} `json:"data"`
	}
	params := []any{owner, map[string]any{
		"options": map[string]any{"showContent": true, "showDisplay": true},
	}}
	if err := c.call(ctx, "suix_getOwnedObjects", params, &result); err != nil {
		return nil, err
	}

	objects := make([]core.OwnedObject, 0, len(result.Data))
	for _, entry := range result.Data {
		objects = append(objects, core.OwnedObject{
			ObjectID: entry.Data.ObjectID,
			Name:     entry.Data.Display.Data.Name,
		})
	}
	return objects, nil
}

func (c *Client) getAllCoins(ctx context.Context, owner string) ([]core.Coin, error) {
	var result struct {
		Data []core.Coin `json:"data"`
	}
	if err := c.call(ctx, "suix_getAllCoins", []any{owner}, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// call performs one JSON-RPC request and decodes the result into out.
func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	payload, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%s returned status %d: %s", method, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcError       `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if decoded.Error != nil {
		return fmt.Errorf("%s rpc error %d: %s", method, decoded.Error.Code, decoded.Error.Message)
	}
	if out != nil {
		if err := json.Unmarshal(decoded.Result, out); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}
