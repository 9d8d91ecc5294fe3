package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
)

// EstimateGas calls eth_estimateGas with the fee currency and fee caps of
// req. Estimation errors are returned as-is; an underpriced fee cap is
// reported here by the node.
func (c *Client) EstimateGas(ctx context.Context, req CallRequest) (uint64, error) {
	var gas hexutil.Uint64
	if err := c.rpc.CallContext(ctx, &gas, "eth_estimateGas", req.toArg()); err != nil {
		return 0, fmt.Errorf("eth_estimateGas failed: %w", err)
	}
	log.Debug("Estimated gas", "from", req.From, "to", req.To, "feeCurrency", req.FeeCurrency, "gas", uint64(gas))
	return uint64(gas), nil
}

// SendRawTransaction broadcasts a signed transaction
func (c *Client) SendRawTransaction(ctx context.Context, raw []byte) (common.Hash, error) {
	var hash common.Hash
	if err := c.rpc.CallContext(ctx, &hash, "eth_sendRawTransaction", hexutil.Bytes(raw)); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	log.Info("Submitted transaction", "hash", hash)
	return hash, nil
}

// WaitForReceipt polls for the receipt of hash every interval until it is
// available or ctx is done. tick, if set, is called before every poll. A
// reverted transaction returns its receipt together with
// ErrTransactionReverted.
func (c *Client) WaitForReceipt(ctx context.Context, hash common.Hash, interval time.Duration, tick func()) (*types.Receipt, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if tick != nil {
			tick()
		}

		receipt, err := c.eth.TransactionReceipt(ctx, hash)
		switch {
		case err == nil:
			log.Debug("Transaction mined", "hash", hash, "block", receipt.BlockNumber, "status", receipt.Status)
			if receipt.Status == types.ReceiptStatusFailed {
				return receipt, fmt.Errorf("%w: %s", ErrTransactionReverted, hash.Hex())
			}
			return receipt, nil
		case !errors.Is(err, ethereum.NotFound):
			return nil, fmt.Errorf("failed to fetch receipt: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for receipt of %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}
