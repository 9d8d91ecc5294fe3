package api

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/go-resty/resty/v2"
)

// DefaultPriceURL is the CoinGecko simple price endpoint
const DefaultPriceURL = "https://api.coingecko.com/api/v3/simple/price"

// Client handles calls to the network node and external services
type Client struct {
	rpc      *rpc.Client
	eth      *ethclient.Client
	http     *resty.Client
	priceURL string
}

// Dial connects to the node at rpcURL
func Dial(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}
	log.Debug("Connected to node", "url", rpcURL)
	return NewClient(rpcClient), nil
}

// NewClient wraps an existing RPC connection
func NewClient(rpcClient *rpc.Client) *Client {
	return &Client{
		rpc:      rpcClient,
		eth:      ethclient.NewClient(rpcClient),
		http:     resty.New().SetTimeout(30 * time.Second),
		priceURL: DefaultPriceURL,
	}
}

// SetPriceURL points price lookups at a different endpoint
func (c *Client) SetPriceURL(url string) {
	c.priceURL = url
}

// Close closes the underlying connection
func (c *Client) Close() {
	c.rpc.Close()
}

// ChainID returns the chain id reported by the node
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	chainID, err := c.eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chain id: %w", err)
	}
	return chainID, nil
}

// Nonce returns the pending nonce of address
func (c *Client) Nonce(ctx context.Context, address common.Address) (uint64, error) {
	nonce, err := c.eth.PendingNonceAt(ctx, address)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch nonce: %w", err)
	}
	return nonce, nil
}

// NativeBalance returns the native asset balance of address in wei
func (c *Client) NativeBalance(ctx context.Context, address common.Address) (*big.Int, error) {
	balance, err := c.eth.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch balance: %w", err)
	}
	return balance, nil
}
