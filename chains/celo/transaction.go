package celo

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// FeeCurrencyTxType is the CIP-64 envelope type for dynamic-fee
// transactions that pay gas in an ERC-20 fee currency.
const FeeCurrencyTxType = 0x7b

// FeeCurrencyTx represents a CIP-64 transaction
type FeeCurrencyTx struct {
	ChainID     *big.Int
	Nonce       uint64
	GasTipCap   *big.Int // a.k.a. maxPriorityFeePerGas
	GasFeeCap   *big.Int // a.k.a. maxFeePerGas
	Gas         uint64
	To          *common.Address
	Value       *big.Int
	Data        []byte
	AccessList  types.AccessList
	FeeCurrency *common.Address

	// Signature values
	V *big.Int
	R *big.Int
	S *big.Int
}

// NewFeeCurrencyTx creates an unsigned CIP-64 transaction
func NewFeeCurrencyTx(chainID *big.Int, nonce uint64, to common.Address, value *big.Int, gas uint64, gasTipCap, gasFeeCap *big.Int, data []byte, feeCurrency common.Address) *FeeCurrencyTx {
	if value == nil {
		value = new(big.Int)
	}
	return &FeeCurrencyTx{
		ChainID:     new(big.Int).Set(chainID),
		Nonce:       nonce,
		GasTipCap:   new(big.Int).Set(gasTipCap),
		GasFeeCap:   new(big.Int).Set(gasFeeCap),
		Gas:         gas,
		To:          &to,
		Value:       new(big.Int).Set(value),
		Data:        common.CopyBytes(data),
		AccessList:  types.AccessList{},
		FeeCurrency: &feeCurrency,
	}
}

func (tx *FeeCurrencyTx) unsignedFields() []interface{} {
	return []interface{}{
		tx.ChainID,
		tx.Nonce,
		tx.GasTipCap,
		tx.GasFeeCap,
		tx.Gas,
		tx.To,
		tx.Value,
		tx.Data,
		tx.AccessList,
		tx.FeeCurrency,
	}
}

func prefixedRLPHash(prefix byte, x interface{}) (common.Hash, error) {
	enc, err := rlp.EncodeToBytes(x)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash([]byte{prefix}, enc), nil
}

// SigningHash returns the hash the sender signs
func (tx *FeeCurrencyTx) SigningHash() (common.Hash, error) {
	return prefixedRLPHash(FeeCurrencyTxType, tx.unsignedFields())
}

// Sign signs the transaction in place
func (tx *FeeCurrencyTx) Sign(key *ecdsa.PrivateKey) error {
	hash, err := tx.SigningHash()
	if err != nil {
		return fmt.Errorf("failed to hash transaction: %w", err)
	}

	sig, err := crypto.Sign(hash.Bytes(), key)
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}

	tx.R = new(big.Int).SetBytes(sig[:32])
	tx.S = new(big.Int).SetBytes(sig[32:64])
	tx.V = new(big.Int).SetUint64(uint64(sig[64]))
	return nil
}

// IsSigned reports whether signature values are present
func (tx *FeeCurrencyTx) IsSigned() bool {
	return tx.V != nil && tx.R != nil && tx.S != nil
}

// MarshalBinary returns the typed envelope 0x7b || rlp(fields)
func (tx *FeeCurrencyTx) MarshalBinary() ([]byte, error) {
	if !tx.IsSigned() {
		return nil, fmt.Errorf("transaction is not signed")
	}
	enc, err := rlp.EncodeToBytes(append(tx.unsignedFields(), tx.V, tx.R, tx.S))
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}
	return append([]byte{FeeCurrencyTxType}, enc...), nil
}

// Hash returns the transaction hash as the network reports it
func (tx *FeeCurrencyTx) Hash() (common.Hash, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(raw), nil
}

// Sender recovers the signing address
func (tx *FeeCurrencyTx) Sender() (common.Address, error) {
	if !tx.IsSigned() {
		return common.Address{}, fmt.Errorf("transaction is not signed")
	}
	if tx.V.BitLen() > 8 || tx.V.Uint64() > 1 {
		return common.Address{}, fmt.Errorf("invalid signature recovery id: %s", tx.V)
	}

	hash, err := tx.SigningHash()
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to hash transaction: %w", err)
	}

	sig := make([]byte, crypto.SignatureLength)
	tx.R.FillBytes(sig[:32])
	tx.S.FillBytes(sig[32:64])
	sig[64] = byte(tx.V.Uint64())

	pub, err := crypto.SigToPub(hash.Bytes(), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover sender: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// NewDynamicFeeTx creates an EIP-1559 transaction paying fees in the native asset
func NewDynamicFeeTx(chainID *big.Int, nonce uint64, to common.Address, value *big.Int, gas uint64, gasTipCap, gasFeeCap *big.Int, data []byte) *types.Transaction {
	if value == nil {
		value = new(big.Int)
	}
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: gasTipCap,
		GasFeeCap: gasFeeCap,
		Gas:       gas,
		To:        &to,
		Value:     value,
		Data:      data,
	})
}

// SignDynamicFeeTx signs an EIP-1559 transaction and returns its raw encoding and hash
func SignDynamicFeeTx(tx *types.Transaction, key *ecdsa.PrivateKey) ([]byte, common.Hash, error) {
	signer := types.LatestSignerForChainID(tx.ChainId())
	signed, err := types.SignTx(tx, signer, key)
	if err != nil {
		return nil, common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}
	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, common.Hash{}, fmt.Errorf("failed to encode transaction: %w", err)
	}
	return raw, signed.Hash(), nil
}
