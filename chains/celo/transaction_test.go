package celo

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFeeCurrency = common.HexToAddress("0x8a567e2ae79ca692bd748ab832081c45de4041ea")

func newTestTx() *FeeCurrencyTx {
	return NewFeeCurrencyTx(
		big.NewInt(42220),
		7,
		testFeeCurrency,
		nil,
		65_000,
		big.NewInt(100_000_000),
		big.NewInt(1_000_000_000),
		[]byte{0xa9, 0x05, 0x9c, 0xbb},
		testFeeCurrency,
	)
}

func TestFeeCurrencyTxSignAndRecover(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	tx := newTestTx()
	require.False(t, tx.IsSigned())
	_, err = tx.MarshalBinary()
	require.Error(t, err)

	require.NoError(t, tx.Sign(key))
	require.True(t, tx.IsSigned())

	sender, err := tx.Sender()
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), sender)
}

func TestFeeCurrencyTxEncoding(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	tx := newTestTx()
	require.NoError(t, tx.Sign(key))

	raw, err := tx.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, byte(FeeCurrencyTxType), raw[0])

	var fields []rlp.RawValue
	require.NoError(t, rlp.DecodeBytes(raw[1:], &fields))
	require.Len(t, fields, 13)

	var feeCurrency common.Address
	require.NoError(t, rlp.DecodeBytes(fields[9], &feeCurrency))
	assert.Equal(t, testFeeCurrency, feeCurrency)

	var gasFeeCap big.Int
	require.NoError(t, rlp.DecodeBytes(fields[3], &gasFeeCap))
	assert.Equal(t, int64(1_000_000_000), gasFeeCap.Int64())

	hash, err := tx.Hash()
	require.NoError(t, err)
	assert.Equal(t, crypto.Keccak256Hash(raw), hash)
}

func TestFeeCurrencyTxSigningHashCoversFeeCurrency(t *testing.T) {
	a := newTestTx()
	b := newTestTx()
	other := common.HexToAddress("0x765DE816845861e75A25fCA122bb6898B8B1282a")
	b.FeeCurrency = &other

	ha, err := a.SigningHash()
	require.NoError(t, err)
	hb, err := b.SigningHash()
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)
}

func TestNewFeeCurrencyTxCopiesInputs(t *testing.T) {
	tip := big.NewInt(1)
	data := []byte{1, 2, 3}
	tx := NewFeeCurrencyTx(big.NewInt(1), 0, testFeeCurrency, nil, 21_000, tip, big.NewInt(2), data, testFeeCurrency)

	tip.SetInt64(99)
	data[0] = 9
	assert.Equal(t, int64(1), tx.GasTipCap.Int64())
	assert.Equal(t, byte(1), tx.Data[0])
	assert.Equal(t, 0, tx.Value.Sign())
}

func TestSignDynamicFeeTx(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	to := common.HexToAddress("0x000000000000000000000000000000000000dEaD")
	tx := NewDynamicFeeTx(big.NewInt(42220), 1, to, big.NewInt(5), 21_000, big.NewInt(1), big.NewInt(2), nil)

	raw, hash, err := SignDynamicFeeTx(tx, key)
	require.NoError(t, err)

	var decoded types.Transaction
	require.NoError(t, decoded.UnmarshalBinary(raw))
	assert.Equal(t, hash, decoded.Hash())
	assert.Equal(t, uint8(types.DynamicFeeTxType), decoded.Type())

	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(42220)), &decoded)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), sender)
}
