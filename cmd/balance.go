package cmd

import (
	"fmt"

	"github.com/chinmay1088/celofee/api"
	"github.com/chinmay1088/celofee/chains/celo"
	"github.com/chinmay1088/celofee/config"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Check native and fee currency balances",
	Long: `Check the CELO balance of your account and, when a fee currency is
configured, your balance of that token.

Examples:
  celofee balance          # Check balances
  celofee balance --usd    # Include the USD value of the CELO balance`,
	Args: cobra.NoArgs,
	RunE: runBalance,
}

func runBalance(cmd *cobra.Command, args []string) error {
	usdFlag, _ := cmd.Flags().GetBool("usd")

	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	account, err := unlockAccount(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	client, err := api.Dial(ctx, cfg.RPCURL)
	if err != nil {
		return err
	}
	defer client.Close()

	params := config.Networks[cfg.Network]
	fmt.Println("💰 Wallet Balances")
	fmt.Printf("🌐 Network: %s\n", params.Name)
	fmt.Printf("📍 Address: %s\n", account.Address.Hex())
	fmt.Println()

	native, err := client.NativeBalance(ctx, account.Address)
	if err != nil {
		return err
	}
	fmt.Printf("🟡 %s: %s\n", params.NativeSymbol, celo.FormatEther(native))

	if usdFlag && cfg.Network == config.NetworkMainnet {
		price, err := client.GetPrice(ctx, "celo")
		if err != nil {
			fmt.Printf("   💵 USD: Error fetching price - %v\n", err)
		} else {
			value := decimal.NewFromBigInt(native, -celo.NativeDecimals).Mul(price.USD)
			fmt.Printf("   💵 USD: $%s\n", value.StringFixed(2))
		}
	}

	if cfg.FeeCurrency == nil {
		fmt.Println()
		fmt.Println("💡 Fees are paid in the native asset. Set FEE_CURRENCY_ADDRESS to pay in a token")
		return nil
	}

	token, err := client.TokenInfo(ctx, *cfg.FeeCurrency, account.Address)
	if err != nil {
		return err
	}
	fmt.Printf("🟢 %s: %s\n", token.Symbol, celo.FormatUnits(token.Balance, token.Decimals))
	fmt.Printf("   📜 Fee currency: %s\n", token.Address.Hex())
	return nil
}

func init() {
	balanceCmd.Flags().Bool("usd", false, "Show the CELO balance in USD")
}
