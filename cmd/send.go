package cmd

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/chinmay1088/celofee/api"
	"github.com/chinmay1088/celofee/chains/celo"
	"github.com/chinmay1088/celofee/config"
	"github.com/chinmay1088/celofee/fees"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a transfer paying fees in the fee currency",
	Long: `Send a transfer and pay the transaction fee in the configured fee
currency.

With a fee currency the command transfers that token (by default 1 token to
your own address) as a CIP-64 transaction. With --fee-currency native it
sends CELO as an EIP-1559 transaction.

Steps:
  1. Show balances, abort when the fee currency balance is zero
  2. Derive fee caps from the fee market and the base fee multiplier
  3. Estimate gas with the fee currency and fee caps
  4. Sign, broadcast and wait for the receipt

Examples:
  celofee send                                # 1 token to yourself
  celofee send --amount 0.5 --to 0x742d...    # 0.5 token to another address
  celofee send --multiplier 1.2               # 20% headroom over the base fee
  celofee send --dry-run                      # Stop before broadcasting`,
	Args: cobra.NoArgs,
	RunE: runSend,
}

// transfer is a value movement ready to be priced and signed
type transfer struct {
	Recipient common.Address
	Amount    *big.Int
	Symbol    string
	Decimals  uint8

	// To, Value and Data are the transaction fields
	To    common.Address
	Value *big.Int
	Data  []byte

	FeeCurrency *common.Address
}

func runSend(cmd *cobra.Command, args []string) error {
	amountStr, _ := cmd.Flags().GetString("amount")
	toStr, _ := cmd.Flags().GetString("to")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	skipConfirm, _ := cmd.Flags().GetBool("yes")

	cfg, err := loadConfig(func(cfg *config.Config) error {
		if err := feeFlagOverrides(cmd)(cfg); err != nil {
			return err
		}
		if cmd.Flags().Changed("timeout") {
			cfg.ReceiptTimeout, _ = cmd.Flags().GetDuration("timeout")
		}
		return nil
	})
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
	fmt.Println("💸 Sending Fee Currency Transfer")
	fmt.Printf("🌐 Network: %s\n", params.Name)
	fmt.Printf("📍 Account: %s\n", account.Address.Hex())
	fmt.Println()

	native, err := client.NativeBalance(ctx, account.Address)
	if err != nil {
		return err
	}
	fmt.Printf("🟡 %s balance: %s\n", params.NativeSymbol, celo.FormatEther(native))

	var token *api.TokenInfo
	if cfg.FeeCurrency != nil {
		token, err = client.TokenInfo(ctx, *cfg.FeeCurrency, account.Address)
		if err != nil {
			return err
		}
		fmt.Printf("🟢 %s balance: %s\n", token.Symbol, celo.FormatUnits(token.Balance, token.Decimals))
		if token.Balance.Sign() == 0 {
			return fmt.Errorf("no %s balance to pay fees with. Fund %s first", token.Symbol, account.Address.Hex())
		}
	}
	fmt.Println()

	recipient := account.Address
	if toStr != "" {
		recipient, err = celo.ParseAddress(toStr)
		if err != nil {
			return err
		}
	}

	t, err := planTransfer(token, params.NativeSymbol, amountStr, recipient)
	if err != nil {
		return err
	}

	quote, feeParams, err := fees.NewEstimator(cfg.BaseFeeMultiplier).Estimate(ctx, client, cfg.FeeCurrency)
	if err != nil {
		return fmt.Errorf("failed to estimate fees: %w", err)
	}
	printFeeQuote(cfg, quote, feeParams)
	if err := feeParams.Validate(); err != nil {
		return err
	}

	gas, err := client.EstimateGas(ctx, api.CallRequest{
		From:                 account.Address,
		To:                   t.To,
		Value:                t.Value,
		Data:                 t.Data,
		FeeCurrency:          t.FeeCurrency,
		MaxFeePerGas:         feeParams.MaxFeePerGas,
		MaxPriorityFeePerGas: feeParams.MaxPriorityFeePerGas,
	})
	if err != nil {
		if cfg.BaseFeeMultiplier.IsOne() {
			fmt.Println("💡 Gas estimation failed with a multiplier of 1. Retry with --multiplier 1.2")
		}
		return err
	}

	nonce, err := client.Nonce(ctx, account.Address)
	if err != nil {
		return err
	}
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return err
	}
	if chainID.Int64() != params.ChainID {
		log.Warn("Node chain id differs from the selected network", "network", cfg.Network, "expected", params.ChainID, "node", chainID)
	}

	raw, hash, err := signTransfer(t, chainID, nonce, gas, feeParams, account.PrivateKey)
	if err != nil {
		return err
	}

	maxCost := new(big.Int).Mul(feeParams.MaxFeePerGas, new(big.Int).SetUint64(gas))
	fmt.Printf("📊 Transaction Details:\n")
	fmt.Printf("   From:     %s\n", account.Address.Hex())
	fmt.Printf("   To:       %s\n", t.Recipient.Hex())
	fmt.Printf("   Amount:   %s %s\n", celo.FormatUnits(t.Amount, t.Decimals), t.Symbol)
	fmt.Printf("   Gas:      %d units\n", gas)
	fmt.Printf("   Max Fee:  ~%s %s\n", formatFeeCost(maxCost, token), feeSymbol(token, params.NativeSymbol))
	fmt.Printf("   Nonce:    %d\n", nonce)
	fmt.Printf("   Hash:     %s\n", hash.Hex())
	fmt.Println()

	if dryRun {
		fmt.Println("🧪 Dry run, transaction not broadcast")
		fmt.Printf("📦 Raw: %s\n", hexutil.Encode(raw))
		return nil
	}

	if !skipConfirm && !getTransactionConfirmation(cfg.Network) {
		fmt.Println("❌ Transaction cancelled by user")
		return nil
	}

	sent, err := client.SendRawTransaction(ctx, raw)
	if err != nil {
		return err
	}
	if sent != hash {
		log.Warn("Node returned a different transaction hash", "local", hash, "node", sent)
	}
	fmt.Printf("✅ Transaction sent successfully!\n")
	fmt.Printf("📝 Transaction Hash: %s\n", sent.Hex())
	fmt.Printf("🔗 Explorer: %s\n", fmt.Sprintf(params.ExplorerTxURL, sent.Hex()))
	fmt.Println()

	receipt, err := waitWithSpinner(ctx, client, sent, cfg.ReceiptTimeout, cfg.PollInterval)
	if receipt != nil {
		printReceipt(receipt)
	}
	return err
}

// planTransfer builds the transaction fields for sending amountStr to
// recipient. A nil token means a native transfer.
func planTransfer(token *api.TokenInfo, nativeSymbol, amountStr string, recipient common.Address) (*transfer, error) {
	if token == nil {
		amount, err := celo.ParseUnits(amountStr, celo.NativeDecimals)
		if err != nil {
			return nil, err
		}
		return &transfer{
			Recipient: recipient,
			Amount:    amount,
			Symbol:    nativeSymbol,
			Decimals:  celo.NativeDecimals,
			To:        recipient,
			Value:     amount,
		}, nil
	}

	amount, err := celo.ParseUnits(amountStr, token.Decimals)
	if err != nil {
		return nil, err
	}
	data, err := api.EncodeTransfer(recipient, amount)
	if err != nil {
		return nil, err
	}
	feeCurrency := token.Address
	return &transfer{
		Recipient:   recipient,
		Amount:      amount,
		Symbol:      token.Symbol,
		Decimals:    token.Decimals,
		To:          token.Address,
		Value:       new(big.Int),
		Data:        data,
		FeeCurrency: &feeCurrency,
	}, nil
}

// signTransfer signs t as a CIP-64 transaction when it pays fees in a token
// and as an EIP-1559 transaction otherwise.
func signTransfer(t *transfer, chainID *big.Int, nonce, gas uint64, params fees.FeeParameters, key *ecdsa.PrivateKey) ([]byte, common.Hash, error) {
	if t.FeeCurrency == nil {
		tx := celo.NewDynamicFeeTx(chainID, nonce, t.To, t.Value, gas, params.MaxPriorityFeePerGas, params.MaxFeePerGas, t.Data)
		return celo.SignDynamicFeeTx(tx, key)
	}

	tx := celo.NewFeeCurrencyTx(chainID, nonce, t.To, t.Value, gas, params.MaxPriorityFeePerGas, params.MaxFeePerGas, t.Data, *t.FeeCurrency)
	if err := tx.Sign(key); err != nil {
		return nil, common.Hash{}, err
	}
	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, common.Hash{}, err
	}
	hash, err := tx.Hash()
	if err != nil {
		return nil, common.Hash{}, err
	}
	return raw, hash, nil
}

func waitWithSpinner(ctx context.Context, client *api.Client, hash common.Hash, timeout, interval time.Duration) (*types.Receipt, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	spinner := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("⏳ Waiting for receipt..."),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	receipt, err := client.WaitForReceipt(ctx, hash, interval, func() { _ = spinner.Add(1) })
	_ = spinner.Finish()

	if errors.Is(err, context.DeadlineExceeded) {
		return nil, fmt.Errorf("no receipt after %s, the transaction may still be pending: %w", timeout, err)
	}
	return receipt, err
}

func printReceipt(receipt *types.Receipt) {
	status := color.GreenString("success")
	if receipt.Status == types.ReceiptStatusFailed {
		status = color.RedString("reverted")
	}

	fmt.Println("🧾 Receipt:")
	fmt.Printf("   Status:    %s\n", status)
	fmt.Printf("   Block:     %s\n", receipt.BlockNumber)
	fmt.Printf("   Gas used:  %d\n", receipt.GasUsed)
	if receipt.EffectiveGasPrice != nil {
		fmt.Printf("   Gas price: %s\n", formatGasPrice(receipt.EffectiveGasPrice))
	}
}

func formatFeeCost(cost *big.Int, token *api.TokenInfo) string {
	if token == nil {
		return celo.FormatEther(cost)
	}
	return celo.FormatUnits(cost, token.Decimals)
}

func feeSymbol(token *api.TokenInfo, nativeSymbol string) string {
	if token == nil {
		return nativeSymbol
	}
	return token.Symbol
}

func getTransactionConfirmation(network string) bool {
	if network == config.NetworkTestnet {
		fmt.Printf("⚠️ You are on testnet. By confirming this transaction no real funds will be sent.\n")
	} else {
		fmt.Printf("🚨 You are on main network. By confirming this transaction real funds will be sent.\n")
	}

	fmt.Printf("Press y to confirm or n to stop (y/n): ")

	var response string
	fmt.Scanln(&response)

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

func init() {
	sendCmd.Flags().String("amount", "1", "amount to send in token units")
	sendCmd.Flags().String("to", "", "recipient address (defaults to your own address)")
	sendCmd.Flags().Bool("dry-run", false, "sign but do not broadcast")
	sendCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	sendCmd.Flags().String("multiplier", "1", "base fee multiplier (overrides BASE_FEE_MULTIPLIER)")
	sendCmd.Flags().String("fee-currency", "", `fee currency address or "native" (overrides FEE_CURRENCY_ADDRESS)`)
	sendCmd.Flags().Duration("timeout", config.DefaultReceiptTimeout, "how long to wait for the receipt, 0 waits forever")
}
