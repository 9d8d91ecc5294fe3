package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// network type constants
const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
)

// NetworkParams are the defaults for one network
type NetworkParams struct {
	Name    string
	ChainID int64
	RPCURL  string
	// DefaultFeeCurrency is empty when fees default to the native asset.
	DefaultFeeCurrency string
	NativeSymbol       string
	ExplorerTxURL      string
}

// Networks lists the supported networks
var Networks = map[string]NetworkParams{
	NetworkMainnet: {
		Name:    "Celo Mainnet",
		ChainID: 42220,
		RPCURL:  "https://forno.celo.org",
		// cCOP
		DefaultFeeCurrency: "0x8a567e2ae79ca692bd748ab832081c45de4041ea",
		NativeSymbol:       "CELO",
		ExplorerTxURL:      "https://celoscan.io/tx/%s",
	},
	NetworkTestnet: {
		Name:          "Celo Sepolia",
		ChainID:       11142220,
		RPCURL:        "https://forno.celo-sepolia.celo-testnet.org",
		NativeSymbol:  "CELO",
		ExplorerTxURL: "https://celo-sepolia.blockscout.com/tx/%s",
	},
}

func networkFile(homeDir string) string {
	return filepath.Join(Dir(homeDir), "network.txt")
}

// CurrentNetwork returns the persisted network, defaulting to mainnet when
// nothing valid is stored.
func CurrentNetwork(homeDir string) string {
	data, err := os.ReadFile(networkFile(homeDir))
	if err != nil {
		return NetworkMainnet
	}

	network := strings.TrimSpace(string(data))
	if _, ok := Networks[network]; !ok {
		return NetworkMainnet
	}
	return network
}

// SetNetwork persists the network selection
func SetNetwork(homeDir, network string) error {
	network = strings.ToLower(strings.TrimSpace(network))
	if _, ok := Networks[network]; !ok {
		return fmt.Errorf("%w: unknown network %q. Use 'mainnet' or 'testnet'", ErrInvalidConfig, network)
	}

	if err := os.MkdirAll(Dir(homeDir), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(networkFile(homeDir), []byte(network), 0600); err != nil {
		return fmt.Errorf("failed to write network file: %w", err)
	}
	return nil
}
