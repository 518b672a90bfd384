package tenero

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// HoldingsResponse is the envelope of /wallets/{wallet}/holdings_value.
type HoldingsResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       struct {
		TotalValueUSD float64 `json:"total_value_usd"`
	} `json:"data"`
}

// APIError is a response whose envelope reports a non-200 status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tenero api error (%d): %s", e.StatusCode, e.Message)
}

// HoldingsValue returns the USD value of the positions held by wallet.
func (c *Client) HoldingsValue(ctx context.Context, wallet string) (float64, error) {
	body, err := c.Get(ctx, "/wallets/"+url.PathEscape(wallet)+"/holdings_value")
	if err != nil {
		return 0, fmt.Errorf("holdings value for %s: %w", wallet, err)
	}

	var resp HoldingsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("failed to unmarshal holdings response: %w", err)
	}
	if resp.StatusCode != 200 {
		return 0, &APIError{StatusCode: resp.StatusCode, Message: resp.Message}
	}
	return resp.Data.TotalValueUSD, nil
}

// HoldingsSource exposes HoldingsValue as a balance source.
type HoldingsSource struct {
	Client *Client
}

func (HoldingsSource) Name() string { return "holdings" }

func (s HoldingsSource) Balance(ctx context.Context, wallet string) (float64, error) {
	return s.Client.HoldingsValue(ctx, wallet)
}
