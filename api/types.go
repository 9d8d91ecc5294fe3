package api

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
)

// TokenInfo holds the ERC-20 metadata and balance of one holder
type TokenInfo struct {
	Address  common.Address
	Symbol   string
	Decimals uint8
	Balance  *big.Int
}

// PriceData represents cryptocurrency price information
type PriceData struct {
	Symbol string          `json:"symbol"`
	USD    decimal.Decimal `json:"usd"`
}

// CallRequest describes a transaction for gas estimation
type CallRequest struct {
	From                 common.Address
	To                   common.Address
	Value                *big.Int
	Data                 []byte
	FeeCurrency          *common.Address
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

func (r CallRequest) toArg() map[string]interface{} {
	arg := map[string]interface{}{
		"from": r.From,
		"to":   r.To,
	}
	if len(r.Data) > 0 {
		arg["data"] = hexutil.Bytes(r.Data)
	}
	if r.Value != nil && r.Value.Sign() > 0 {
		arg["value"] = (*hexutil.Big)(r.Value)
	}
	if r.MaxFeePerGas != nil {
		arg["maxFeePerGas"] = (*hexutil.Big)(r.MaxFeePerGas)
	}
	if r.MaxPriorityFeePerGas != nil {
		arg["maxPriorityFeePerGas"] = (*hexutil.Big)(r.MaxPriorityFeePerGas)
	}
	if r.FeeCurrency != nil {
		arg["feeCurrency"] = *r.FeeCurrency
	}
	return arg
}
