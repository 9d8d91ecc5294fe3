package api

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// GetPrice fetches the USD price of a CoinGecko coin id such as "celo"
func (c *Client) GetPrice(ctx context.Context, coinID string) (*PriceData, error) {
	var result map[string]map[string]float64

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ids":           coinID,
			"vs_currencies": "usd",
		}).
		SetResult(&result).
		Get(c.priceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("price request failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	if priceData, exists := result[coinID]; exists {
		if usdPrice, exists := priceData["usd"]; exists {
			return &PriceData{
				Symbol: coinID,
				USD:    decimal.NewFromFloat(usdPrice),
			}, nil
		}
	}

	return nil, fmt.Errorf("price not found for symbol: %s", coinID)
}
