package cmd

import (
	"fmt"
	"math/big"

	"github.com/chinmay1088/celofee/api"
	"github.com/chinmay1088/celofee/chains/celo"
	"github.com/chinmay1088/celofee/config"
	"github.com/chinmay1088/celofee/fees"
	"github.com/spf13/cobra"
)

var feesCmd = &cobra.Command{
	Use:   "fees",
	Short: "Show the fee parameters for the configured fee currency",
	Long: `Query the fee market in the configured fee currency and show the
EIP-1559 fee caps that a transfer would use.

The base fee is derived as gas price minus priority fee, scaled by the base
fee multiplier, and the priority fee is added back on top.

Examples:
  celofee fees                         # Use BASE_FEE_MULTIPLIER (default 1)
  celofee fees --multiplier 1.5        # Add 50% headroom over the base fee
  celofee fees --fee-currency native   # Quote in CELO`,
	Args: cobra.NoArgs,
	RunE: runFees,
}

func runFees(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(feeFlagOverrides(cmd))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := api.Dial(ctx, cfg.RPCURL)
	if err != nil {
		return err
	}
	defer client.Close()

	quote, params, err := fees.NewEstimator(cfg.BaseFeeMultiplier).Estimate(ctx, client, cfg.FeeCurrency)
	if err != nil {
		return fmt.Errorf("failed to estimate fees: %w", err)
	}
	printFeeQuote(cfg, quote, params)

	if err := params.Validate(); err != nil {
		return err
	}
	return nil
}

// feeFlagOverrides applies --multiplier and --fee-currency when they were set
func feeFlagOverrides(cmd *cobra.Command) func(*config.Config) error {
	return func(cfg *config.Config) error {
		if cmd.Flags().Changed("multiplier") {
			m, _ := cmd.Flags().GetString("multiplier")
			if err := cfg.SetMultiplier(m); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("fee-currency") {
			fc, _ := cmd.Flags().GetString("fee-currency")
			if err := cfg.SetFeeCurrency(fc); err != nil {
				return err
			}
		}
		return nil
	}
}

func printFeeQuote(cfg *config.Config, quote fees.FeeQuote, params fees.FeeParameters) {
	baseFee, _ := quote.BaseFee()

	fmt.Println("⛽ Fee Parameters")
	fmt.Printf("   Fee currency:    %s\n", cfg.FeeCurrencyLabel())
	fmt.Printf("   Gas price:       %s\n", formatGasPrice(quote.GasPrice))
	fmt.Printf("   Priority fee:    %s\n", formatGasPrice(quote.MaxPriorityFeePerGas))
	fmt.Printf("   Base fee:        %s\n", formatGasPrice(baseFee))
	fmt.Printf("   Multiplier:      %s\n", cfg.BaseFeeMultiplier)
	fmt.Printf("   Max fee per gas: %s\n", formatGasPrice(params.MaxFeePerGas))
	fmt.Printf("   Max priority:    %s\n", formatGasPrice(params.MaxPriorityFeePerGas))
	fmt.Println()

	if cfg.BaseFeeMultiplier.IsOne() {
		fmt.Println("⚠️  With a multiplier of 1 the fee cap equals the gas price and leaves no")
		fmt.Println("   headroom over the base fee; gas estimation may reject it as underpriced")
		fmt.Println()
	}
}

func formatGasPrice(v *big.Int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s gwei)", v, celo.FormatUnits(v, 9))
}

func init() {
	feesCmd.Flags().String("multiplier", "1", "base fee multiplier (overrides BASE_FEE_MULTIPLIER)")
	feesCmd.Flags().String("fee-currency", "", `fee currency address or "native" (overrides FEE_CURRENCY_ADDRESS)`)
}
