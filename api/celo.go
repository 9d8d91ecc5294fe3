package api

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"
)

// GasPrice calls eth_gasPrice. With a fee currency the node quotes the
// price in that token; the result includes the priority fee.
func (c *Client) GasPrice(ctx context.Context, feeCurrency *common.Address) (*big.Int, error) {
	return c.feeCurrencyQuote(ctx, "eth_gasPrice", feeCurrency)
}

// MaxPriorityFeePerGas calls eth_maxPriorityFeePerGas, optionally quoted in
// a fee currency.
func (c *Client) MaxPriorityFeePerGas(ctx context.Context, feeCurrency *common.Address) (*big.Int, error) {
	return c.feeCurrencyQuote(ctx, "eth_maxPriorityFeePerGas", feeCurrency)
}

func (c *Client) feeCurrencyQuote(ctx context.Context, method string, feeCurrency *common.Address) (*big.Int, error) {
	var args []interface{}
	if feeCurrency != nil {
		args = append(args, *feeCurrency)
	}

	var result hexutil.Big
	if err := c.rpc.CallContext(ctx, &result, method, args...); err != nil {
		return nil, fmt.Errorf("%s failed: %w", method, err)
	}
	log.Debug("Fee market quote", "method", method, "feeCurrency", feeCurrency, "value", (*big.Int)(&result))
	return (*big.Int)(&result), nil
}
