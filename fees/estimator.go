// Package fees derives EIP-1559 fee caps from the fee-market quotes of a
// network whose gas price query already includes the priority fee.
package fees

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"golang.org/x/sync/errgroup"
)

// FeeQuote holds the raw fee-market signals for one transaction attempt.
type FeeQuote struct {
	// GasPrice is the network's current gas price, base fee plus tip.
	GasPrice *big.Int
	// MaxPriorityFeePerGas is the suggested tip.
	MaxPriorityFeePerGas *big.Int
}

// BaseFee returns GasPrice - MaxPriorityFeePerGas.
func (q FeeQuote) BaseFee() (*big.Int, error) {
	if err := checkUint256("gas price", q.GasPrice); err != nil {
		return nil, err
	}
	if err := checkUint256("max priority fee per gas", q.MaxPriorityFeePerGas); err != nil {
		return nil, err
	}
	if q.MaxPriorityFeePerGas.Cmp(q.GasPrice) > 0 {
		return nil, fmt.Errorf("%w: max priority fee per gas %s exceeds gas price %s",
			ErrInvalidArgument, q.MaxPriorityFeePerGas, q.GasPrice)
	}
	return new(big.Int).Sub(q.GasPrice, q.MaxPriorityFeePerGas), nil
}

// FeeParameters are the fee caps attached to a dynamic-fee transaction.
type FeeParameters struct {
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// Validate checks that the parameters can be submitted: both caps are set
// and the fee cap is not below the tip cap.
func (p FeeParameters) Validate() error {
	if err := checkUint256("max fee per gas", p.MaxFeePerGas); err != nil {
		return err
	}
	if err := checkUint256("max priority fee per gas", p.MaxPriorityFeePerGas); err != nil {
		return err
	}
	if p.MaxFeePerGas.Cmp(p.MaxPriorityFeePerGas) < 0 {
		return fmt.Errorf("%w: max fee per gas %s is below max priority fee per gas %s",
			ErrInvalidArgument, p.MaxFeePerGas, p.MaxPriorityFeePerGas)
	}
	return nil
}

// ComputeFeeParameters scales the base-fee part of the quote by
// baseFeeMultiplier and adds the priority fee back:
//
//	maxFeePerGas = floor((gasPrice - tip) * multiplier) + tip
//
// The quote's gas price must include the tip. A multiplier of one returns
// the gas price unchanged as the fee cap.
func ComputeFeeParameters(quote FeeQuote, baseFeeMultiplier Multiplier) (FeeParameters, error) {
	baseFee, err := quote.BaseFee()
	if err != nil {
		return FeeParameters{}, err
	}
	scaledBaseFee, err := baseFeeMultiplier.Scale(baseFee)
	if err != nil {
		return FeeParameters{}, err
	}
	maxFeePerGas := scaledBaseFee.Add(scaledBaseFee, quote.MaxPriorityFeePerGas)
	if err := checkUint256("max fee per gas", maxFeePerGas); err != nil {
		return FeeParameters{}, err
	}
	return FeeParameters{
		MaxFeePerGas:         maxFeePerGas,
		MaxPriorityFeePerGas: new(big.Int).Set(quote.MaxPriorityFeePerGas),
	}, nil
}

func checkUint256(name string, v *big.Int) error {
	if v == nil {
		return fmt.Errorf("%w: %s is nil", ErrInvalidArgument, name)
	}
	if v.Sign() < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %s", ErrInvalidArgument, name, v)
	}
	if _, overflow := uint256.FromBig(v); overflow {
		return fmt.Errorf("%w: %s exceeds 256 bits", ErrInvalidArgument, name)
	}
	return nil
}

// FeeMarket is the subset of an RPC client that quotes fees. A nil fee
// currency asks for the quote in the native asset.
type FeeMarket interface {
	GasPrice(ctx context.Context, feeCurrency *common.Address) (*big.Int, error)
	MaxPriorityFeePerGas(ctx context.Context, feeCurrency *common.Address) (*big.Int, error)
}

// FetchQuote issues both fee-market reads concurrently and waits for both.
func FetchQuote(ctx context.Context, market FeeMarket, feeCurrency *common.Address) (FeeQuote, error) {
	var quote FeeQuote
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		gasPrice, err := market.GasPrice(gctx, feeCurrency)
		if err != nil {
			return fmt.Errorf("failed to fetch gas price: %w", err)
		}
		quote.GasPrice = gasPrice
		return nil
	})
	g.Go(func() error {
		tip, err := market.MaxPriorityFeePerGas(gctx, feeCurrency)
		if err != nil {
			return fmt.Errorf("failed to fetch max priority fee per gas: %w", err)
		}
		quote.MaxPriorityFeePerGas = tip
		return nil
	})
	if err := g.Wait(); err != nil {
		return FeeQuote{}, err
	}
	return quote, nil
}

// Estimator fetches a quote and derives fee parameters from it.
type Estimator struct {
	BaseFeeMultiplier Multiplier
}

// NewEstimator returns an Estimator applying m to the base fee.
func NewEstimator(m Multiplier) *Estimator {
	return &Estimator{BaseFeeMultiplier: m}
}

// Estimate returns the quote it used alongside the computed parameters.
func (e *Estimator) Estimate(ctx context.Context, market FeeMarket, feeCurrency *common.Address) (FeeQuote, FeeParameters, error) {
	quote, err := FetchQuote(ctx, market, feeCurrency)
	if err != nil {
		return FeeQuote{}, FeeParameters{}, err
	}
	log.Debug("Fetched fee quote", "feeCurrency", feeCurrency, "gasPrice", quote.GasPrice, "maxPriorityFeePerGas", quote.MaxPriorityFeePerGas)

	params, err := ComputeFeeParameters(quote, e.BaseFeeMultiplier)
	if err != nil {
		return quote, FeeParameters{}, err
	}
	log.Debug("Computed fee parameters", "multiplier", e.BaseFeeMultiplier, "maxFeePerGas", params.MaxFeePerGas, "maxPriorityFeePerGas", params.MaxPriorityFeePerGas)
	return quote, params, nil
}
