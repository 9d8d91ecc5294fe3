package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/chinmay1088/celofee/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var networkCmd = &cobra.Command{
	Use:   "network [mainnet|testnet]",
	Short: "Show or change network",
	Long: `Show the current network or switch between Celo mainnet and the
Celo Sepolia testnet. The selection is stored in ~/.celofee/network.txt and
can be overridden per invocation with CELOFEE_NETWORK.

Examples:
  celofee network            # Show current network
  celofee network mainnet    # Switch to mainnet
  celofee network testnet    # Switch to testnet`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNetwork,
}

func runNetwork(cmd *cobra.Command, args []string) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	if len(args) == 0 {
		showNetwork(config.CurrentNetwork(homeDir))
		return nil
	}

	network := strings.ToLower(args[0])
	if err := config.SetNetwork(homeDir, network); err != nil {
		return err
	}

	fmt.Printf("🌐 Switched to %s network\n", strings.ToUpper(network))
	fmt.Println()
	showNetwork(network)
	return nil
}

func showNetwork(network string) {
	params := config.Networks[network]

	if network == config.NetworkMainnet {
		fmt.Printf("🌐 Current network: %s\n", color.GreenString(params.Name))
	} else {
		fmt.Printf("🌐 Current network: %s\n", color.YellowString(params.Name))
	}
	fmt.Println()
	fmt.Println("Network details:")
	fmt.Printf("   - Chain ID: %d\n", params.ChainID)
	fmt.Printf("   - RPC: %s\n", params.RPCURL)
	if params.DefaultFeeCurrency != "" {
		fmt.Printf("   - Default fee currency: %s\n", params.DefaultFeeCurrency)
	} else {
		fmt.Printf("   - Default fee currency: %s (set FEE_CURRENCY_ADDRESS to pay in a token)\n", params.NativeSymbol)
	}

	if network == config.NetworkTestnet {
		fmt.Println()
		fmt.Println("⚠️  You are on TESTNET mode, no real funds are moved")
	}
}
