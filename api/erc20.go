package api

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
)

const erc20ABIJSON = `[
	{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]},
	{"type":"function","name":"decimals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint8"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

// ERC20ABI is the subset of the ERC-20 interface this client uses
var ERC20ABI = mustParseABI(erc20ABIJSON)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(fmt.Sprintf("invalid ABI: %v", err))
	}
	return parsed
}

// EncodeTransfer returns calldata for transfer(to, value)
func EncodeTransfer(to common.Address, value *big.Int) ([]byte, error) {
	data, err := ERC20ABI.Pack("transfer", to, value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transfer: %w", err)
	}
	return data, nil
}

// TokenInfo reads symbol, decimals and the balance of owner concurrently
func (c *Client) TokenInfo(ctx context.Context, token, owner common.Address) (*TokenInfo, error) {
	info := &TokenInfo{Address: token}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := c.callToken(gctx, token, "symbol")
		if err != nil {
			return err
		}
		symbol, ok := out[0].(string)
		if !ok {
			return fmt.Errorf("unexpected symbol type %T", out[0])
		}
		info.Symbol = symbol
		return nil
	})
	g.Go(func() error {
		out, err := c.callToken(gctx, token, "decimals")
		if err != nil {
			return err
		}
		decimals, ok := out[0].(uint8)
		if !ok {
			return fmt.Errorf("unexpected decimals type %T", out[0])
		}
		info.Decimals = decimals
		return nil
	})
	g.Go(func() error {
		out, err := c.callToken(gctx, token, "balanceOf", owner)
		if err != nil {
			return err
		}
		balance, ok := out[0].(*big.Int)
		if !ok {
			return fmt.Errorf("unexpected balance type %T", out[0])
		}
		info.Balance = balance
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return info, nil
}

func (c *Client) callToken(ctx context.Context, token common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := ERC20ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", method, err)
	}

	output, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s on %s: %w", method, token.Hex(), err)
	}

	out, err := ERC20ABI.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty %s result", method)
	}
	return out, nil
}
