package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/chinmay1088/celofee/config"
	"github.com/chinmay1088/celofee/wallet"
	"github.com/ethereum/go-ethereum/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	version = "0.3.0"

	envFile string
	rpcURL  string
	verbose bool
	quiet   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "celofee",
	Short: "Pay Celo transaction fees in an ERC-20 fee currency",
	Long: `celofee is a command-line client for Celo that pays transaction fees in
an ERC-20 fee currency such as cCOP instead of the native CELO.

It reads the fee market in the fee currency, derives EIP-1559 fee caps by
scaling the base fee with a configurable multiplier, estimates gas, sends a
token transfer as a fee currency (CIP-64) transaction and waits for the
receipt.

Configuration is read from a .env file, the environment and flags:
  MNEMONIC / PRIVATE_KEY     signing account (or an imported vault)
  FEE_CURRENCY_ADDRESS       fee currency token, "native" for CELO
  BASE_FEE_MULTIPLIER        base fee multiplier, default 1
  RPC_URL                    node endpoint override

Examples:
  celofee wallet import              # Store a mnemonic in an encrypted vault
  celofee balance --usd              # Native and fee currency balances
  celofee fees --multiplier 1.5      # Show the fee parameters that would be used
  celofee send --amount 1            # Send 1 token to yourself, fees in the token
  celofee network testnet            # Switch to Celo Sepolia`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to a .env file")
	rootCmd.PersistentFlags().StringVar(&rpcURL, "rpc", "", "node RPC URL (overrides RPC_URL and the network default)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress log output")

	// Add subcommands
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(feesCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(versionCmd)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("celofee v%s\n", version)
	},
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level := log.LevelInfo
	switch {
	case verbose:
		level = log.LevelDebug
	case quiet:
		level = log.LevelError
	}
	useColor := term.IsTerminal(int(os.Stderr.Fd()))
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, level, useColor)))
	return nil
}

// loadConfig assembles the configuration from the .env file, the
// environment and the global flags. apply runs before validation so
// commands can layer their own flags on top.
func loadConfig(apply func(*config.Config) error) (*config.Config, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	cfg, err := config.FromEnv(os.LookupEnv, config.CurrentNetwork(homeDir), homeDir)
	if err != nil {
		return nil, err
	}
	if rpcURL != "" {
		cfg.RPCURL = rpcURL
	}
	if apply != nil {
		if err := apply(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug("Loaded configuration", "network", cfg.Network, "rpc", cfg.RPCURL,
		"feeCurrency", cfg.FeeCurrencyLabel(), "multiplier", cfg.BaseFeeMultiplier,
		"credentials", cfg.Credentials.Kind())
	return cfg, nil
}

// unlockAccount resolves the signing account, prompting for the vault
// password when one is needed and not configured.
func unlockAccount(cfg *config.Config) (*wallet.Account, error) {
	manager := wallet.NewManager(cfg.Credentials)

	password := cfg.VaultPassword
	if cfg.Credentials.NeedsPassword() && password == "" {
		p, err := readPassword("Enter your wallet password: ")
		if err != nil {
			return nil, err
		}
		password = p
	}

	account, err := manager.Account(password)
	if err != nil {
		return nil, fmt.Errorf("failed to unlock account: %w", err)
	}
	return account, nil
}

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
