package cmd

import (
	"fmt"
	"os"

	"github.com/chinmay1088/celofee/config"
	"github.com/chinmay1088/celofee/wallet"
	"github.com/spf13/cobra"
)

const minPasswordLength = 8

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Manage the signing account",
	Long: `Manage the account used to sign transactions.

The account comes from PRIVATE_KEY, MNEMONIC or an encrypted vault, in that
order. 'wallet import' stores a mnemonic in a vault at ~/.celofee/wallet.vault
(or VAULT_PATH) so it no longer has to live in a .env file.`,
}

var walletImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a recovery phrase into an encrypted vault",
	Long: `Import a BIP-39 recovery phrase and store it in an encrypted vault.

Example:
  celofee wallet import`,
	Args: cobra.NoArgs,
	RunE: runWalletImport,
}

var walletAddressCmd = &cobra.Command{
	Use:   "address",
	Short: "Show the account address",
	Args:  cobra.NoArgs,
	RunE:  runWalletAddress,
}

func runWalletImport(cmd *cobra.Command, args []string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	cfg, err := config.FromEnv(os.LookupEnv, config.CurrentNetwork(homeDir), homeDir)
	if err != nil {
		return err
	}
	target := cfg.VaultTarget(homeDir)
	vaultPath := target.VaultPath
	if err := os.MkdirAll(config.Dir(homeDir), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	manager := wallet.NewManager(target)

	fmt.Println("📝 Import Wallet from Recovery Phrase")
	fmt.Println()

	mnemonic, err := readPassword("Enter recovery phrase: ")
	if err != nil {
		return fmt.Errorf("failed to read mnemonic: %w", err)
	}

	password, err := readPassword("Enter password for the vault: ")
	if err != nil {
		return err
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	confirmPassword, err := readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirmPassword {
		return fmt.Errorf("passwords do not match")
	}

	if err := manager.ImportMnemonic(mnemonic, password); err != nil {
		return fmt.Errorf("failed to import wallet: %w", err)
	}

	account, err := manager.Account(password)
	if err != nil {
		return err
	}

	fmt.Println("✅ Wallet imported successfully!")
	fmt.Printf("🔐 Vault: %s\n", vaultPath)
	fmt.Printf("📍 Address: %s\n", account.Address.Hex())
	fmt.Println()
	fmt.Println("🔑 Next steps:")
	fmt.Println("   - Remove MNEMONIC from your .env file")
	fmt.Println("   - Run 'celofee balance' to check your balances")
	return nil
}

func runWalletAddress(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}
	account, err := unlockAccount(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("🌐 Network: %s\n", config.Networks[cfg.Network].Name)
	fmt.Printf("🔑 Source: %s\n", cfg.Credentials.Kind())
	fmt.Printf("📍 Address: %s\n", account.Address.Hex())
	return nil
}

func init() {
	walletCmd.AddCommand(walletImportCmd)
	walletCmd.AddCommand(walletAddressCmd)
}
