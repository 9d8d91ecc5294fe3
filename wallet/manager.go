package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/chinmay1088/celofee/crypto"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
)

// DefaultDerivationPath is the BIP-44 path of the first Ethereum account,
// the same path mnemonic-based EVM tooling uses.
const DefaultDerivationPath = "m/44'/60'/0'/0/0"

var (
	// ErrNoCredentials is returned when no credential source is configured
	ErrNoCredentials = errors.New("no account credentials configured: set MNEMONIC, PRIVATE_KEY or import a vault")
	// ErrPasswordRequired is returned when a vault is used without a password
	ErrPasswordRequired = errors.New("vault password required")
)

// CredentialSource names where the signing key comes from. The first
// non-empty of PrivateKey, Mnemonic and VaultPath is used.
type CredentialSource struct {
	PrivateKey     string
	Mnemonic       string
	VaultPath      string
	DerivationPath string
}

// Kind describes the source that will be used
func (s CredentialSource) Kind() string {
	switch {
	case s.PrivateKey != "":
		return "private key"
	case s.Mnemonic != "":
		return "mnemonic"
	case s.VaultPath != "":
		return "vault"
	default:
		return "none"
	}
}

// NeedsPassword reports whether Account must be given a vault password
func (s CredentialSource) NeedsPassword() bool {
	return s.Kind() == "vault"
}

// Account is a signing account
type Account struct {
	Address    common.Address
	PrivateKey *ecdsa.PrivateKey
}

// Manager resolves the configured credential source into an account
type Manager struct {
	source  CredentialSource
	mu      sync.Mutex
	account *Account
}

// NewManager creates a new wallet manager
func NewManager(source CredentialSource) *Manager {
	return &Manager{source: source}
}

// Source returns the configured credential source
func (m *Manager) Source() CredentialSource {
	return m.source
}

// Account returns the signing account, deriving it on first use. password is
// only consulted for vault sources.
func (m *Manager) Account(password string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.account != nil {
		return m.account, nil
	}

	var (
		key *ecdsa.PrivateKey
		err error
	)
	switch m.source.Kind() {
	case "private key":
		key, err = ethcrypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(m.source.PrivateKey), "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid private key: %w", err)
		}
	case "mnemonic":
		key, err = KeyFromMnemonic(m.source.Mnemonic, m.derivationPath(""))
		if err != nil {
			return nil, err
		}
	case "vault":
		if password == "" {
			return nil, ErrPasswordRequired
		}
		vault, err := crypto.LoadVault(m.source.VaultPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load vault: %w", err)
		}
		secret, err := vault.Decrypt(password)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt vault: %w", err)
		}
		key, err = KeyFromMnemonic(secret.Mnemonic, m.derivationPath(secret.DerivationPath))
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrNoCredentials
	}

	m.account = &Account{
		Address:    ethcrypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: key,
	}
	return m.account, nil
}

func (m *Manager) derivationPath(stored string) string {
	if m.source.DerivationPath != "" {
		return m.source.DerivationPath
	}
	if stored != "" {
		return stored
	}
	return DefaultDerivationPath
}

// ImportMnemonic validates mnemonic and stores it encrypted at the source's
// vault path.
func (m *Manager) ImportMnemonic(mnemonic, password string) error {
	if m.source.VaultPath == "" {
		return fmt.Errorf("no vault path configured")
	}
	if _, err := os.Stat(m.source.VaultPath); err == nil {
		return fmt.Errorf("vault already exists at %s", m.source.VaultPath)
	}

	mnemonic = normalizeMnemonic(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return fmt.Errorf("invalid mnemonic")
	}

	vault, err := crypto.NewVault(crypto.Secret{
		Mnemonic:       mnemonic,
		DerivationPath: m.source.DerivationPath,
	}, password)
	if err != nil {
		return fmt.Errorf("failed to create vault: %w", err)
	}

	if err := vault.Save(m.source.VaultPath); err != nil {
		return fmt.Errorf("failed to save vault: %w", err)
	}
	return nil
}

// KeyFromMnemonic derives the private key at path from a BIP-39 mnemonic
func KeyFromMnemonic(mnemonic, path string) (*ecdsa.PrivateKey, error) {
	mnemonic = normalizeMnemonic(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("invalid mnemonic")
	}

	derivationPath, err := accounts.ParseDerivationPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse derivation path: %w", err)
	}

	seed := bip39.NewSeed(mnemonic, "")
	key, err := deriveKey(seed, derivationPath)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

func normalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(mnemonic), " ")
}
