package wallet

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts"
)

// deriveKey derives a secp256k1 private key from seed along path (BIP-32).
// The network params only select the serialization version bytes, which are
// never exported here.
func deriveKey(seed []byte, path accounts.DerivationPath) (*ecdsa.PrivateKey, error) {
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create master key: %w", err)
	}

	for _, childNum := range path {
		key, err = key.Derive(childNum)
		if err != nil {
			return nil, fmt.Errorf("failed to derive child %d: %w", childNum, err)
		}
	}

	privateKey, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get private key: %w", err)
	}
	return privateKey.ToECDSA(), nil
}
