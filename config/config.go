package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chinmay1088/celofee/chains/celo"
	"github.com/chinmay1088/celofee/fees"
	"github.com/chinmay1088/celofee/wallet"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
)

// Environment variables read by FromEnv
const (
	EnvMnemonic          = "MNEMONIC"
	EnvPrivateKey        = "PRIVATE_KEY"
	EnvVaultPath         = "VAULT_PATH"
	EnvVaultPassword     = "VAULT_PASSWORD"
	EnvDerivationPath    = "DERIVATION_PATH"
	EnvFeeCurrency       = "FEE_CURRENCY_ADDRESS"
	EnvBaseFeeMultiplier = "BASE_FEE_MULTIPLIER"
	EnvRPCURL            = "RPC_URL"
	EnvNetwork           = "CELOFEE_NETWORK"
)

const (
	DefaultReceiptTimeout = 2 * time.Minute
	DefaultPollInterval   = 2 * time.Second
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is everything a command needs to talk to the network and sign.
type Config struct {
	Network string
	RPCURL  string
	// FeeCurrency is nil when fees are paid in the native asset.
	FeeCurrency       *common.Address
	BaseFeeMultiplier fees.Multiplier
	Credentials       wallet.CredentialSource
	VaultPassword     string
	ReceiptTimeout    time.Duration
	PollInterval      time.Duration
}

// LoadEnvFile loads variables from a .env file into the process
// environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// FromEnv builds a Config from lookup, normally os.LookupEnv. network is
// the persisted selection and is overridden by CELOFEE_NETWORK.
func FromEnv(lookup func(string) (string, bool), network, homeDir string) (*Config, error) {
	get := func(key string) string {
		if v, ok := lookup(key); ok {
			return strings.TrimSpace(v)
		}
		return ""
	}

	if v := get(EnvNetwork); v != "" {
		network = strings.ToLower(v)
	}
	if network == "" {
		network = NetworkMainnet
	}
	params, ok := Networks[network]
	if !ok {
		return nil, fmt.Errorf("%w: unknown network %q", ErrInvalidConfig, network)
	}

	cfg := &Config{
		Network:           network,
		RPCURL:            params.RPCURL,
		BaseFeeMultiplier: fees.One,
		Credentials: wallet.CredentialSource{
			PrivateKey:     get(EnvPrivateKey),
			Mnemonic:       get(EnvMnemonic),
			VaultPath:      get(EnvVaultPath),
			DerivationPath: get(EnvDerivationPath),
		},
		VaultPassword:  get(EnvVaultPassword),
		ReceiptTimeout: DefaultReceiptTimeout,
		PollInterval:   DefaultPollInterval,
	}
	if cfg.Credentials.VaultPath == "" && homeDir != "" {
		vaultPath := DefaultVaultPath(homeDir)
		if _, err := os.Stat(vaultPath); err == nil {
			cfg.Credentials.VaultPath = vaultPath
		}
	}

	if v := get(EnvRPCURL); v != "" {
		cfg.RPCURL = v
	}

	if err := cfg.SetFeeCurrency(params.DefaultFeeCurrency); err != nil {
		return nil, err
	}
	if v, ok := lookup(EnvFeeCurrency); ok {
		if err := cfg.SetFeeCurrency(v); err != nil {
			return nil, err
		}
	}

	if v := get(EnvBaseFeeMultiplier); v != "" {
		if err := cfg.SetMultiplier(v); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// SetFeeCurrency sets the fee currency from a hex address. An empty string
// or "native" selects the native asset.
func (c *Config) SetFeeCurrency(address string) error {
	address = strings.TrimSpace(address)
	if address == "" || strings.EqualFold(address, "native") {
		c.FeeCurrency = nil
		return nil
	}
	addr, err := celo.ParseAddress(address)
	if err != nil {
		return fmt.Errorf("%w: fee currency: %v", ErrInvalidConfig, err)
	}
	c.FeeCurrency = &addr
	return nil
}

// SetMultiplier parses and sets the base fee multiplier
func (c *Config) SetMultiplier(s string) error {
	m, err := fees.ParseMultiplier(s)
	if err != nil {
		return fmt.Errorf("%w: base fee multiplier: %v", ErrInvalidConfig, err)
	}
	c.BaseFeeMultiplier = m
	return nil
}

// Validate checks the fields every command relies on. Credentials are
// checked separately by the commands that sign.
func (c *Config) Validate() error {
	if _, ok := Networks[c.Network]; !ok {
		return fmt.Errorf("%w: unknown network %q", ErrInvalidConfig, c.Network)
	}
	if c.RPCURL == "" {
		return fmt.Errorf("%w: rpc url is empty", ErrInvalidConfig)
	}
	if c.ReceiptTimeout < 0 {
		return fmt.Errorf("%w: receipt timeout must not be negative", ErrInvalidConfig)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive", ErrInvalidConfig)
	}
	return nil
}

// FeeCurrencyLabel is a display name for the configured fee currency
func (c *Config) FeeCurrencyLabel() string {
	if c.FeeCurrency == nil {
		return Networks[c.Network].NativeSymbol
	}
	return c.FeeCurrency.Hex()
}

// VaultTarget is the credential source a mnemonic import writes to: the
// configured VAULT_PATH, else the default vault under homeDir.
func (c *Config) VaultTarget(homeDir string) wallet.CredentialSource {
	vaultPath := c.Credentials.VaultPath
	if vaultPath == "" {
		vaultPath = DefaultVaultPath(homeDir)
	}
	return wallet.CredentialSource{
		VaultPath:      vaultPath,
		DerivationPath: c.Credentials.DerivationPath,
	}
}

// DefaultVaultPath returns ~/.celofee/wallet.vault
func DefaultVaultPath(homeDir string) string {
	return filepath.Join(Dir(homeDir), "wallet.vault")
}

// Dir returns the per-user configuration directory
func Dir(homeDir string) string {
	return filepath.Join(homeDir, ".celofee")
}
