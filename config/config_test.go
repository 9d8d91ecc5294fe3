package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{EnvMnemonic: "word word"}), "", "")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, NetworkMainnet, cfg.Network)
	assert.Equal(t, "https://forno.celo.org", cfg.RPCURL)
	require.NotNil(t, cfg.FeeCurrency)
	assert.Equal(t, common.HexToAddress("0x8a567e2ae79ca692bd748ab832081c45de4041ea"), *cfg.FeeCurrency)
	assert.True(t, cfg.BaseFeeMultiplier.IsOne())
	assert.Equal(t, "word word", cfg.Credentials.Mnemonic)
	assert.Equal(t, DefaultReceiptTimeout, cfg.ReceiptTimeout)
	assert.Equal(t, DefaultPollInterval, cfg.PollInterval)
}

func TestFromEnvOverrides(t *testing.T) {
	env := map[string]string{
		EnvNetwork:           "TESTNET",
		EnvRPCURL:            "http://localhost:8545",
		EnvFeeCurrency:       "0x765DE816845861e75A25fCA122bb6898B8B1282a",
		EnvBaseFeeMultiplier: "1.5",
		EnvPrivateKey:        "0xabc",
		EnvVaultPassword:     "pw",
	}
	cfg, err := FromEnv(lookupFrom(env), NetworkMainnet, "")
	require.NoError(t, err)

	assert.Equal(t, NetworkTestnet, cfg.Network)
	assert.Equal(t, "http://localhost:8545", cfg.RPCURL)
	assert.Equal(t, common.HexToAddress("0x765DE816845861e75A25fCA122bb6898B8B1282a"), *cfg.FeeCurrency)
	assert.Equal(t, "1.5", cfg.BaseFeeMultiplier.String())
	assert.Equal(t, "private key", cfg.Credentials.Kind())
	assert.Equal(t, "pw", cfg.VaultPassword)
}

func TestFromEnvNativeFeeCurrency(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{EnvFeeCurrency: ""}), NetworkMainnet, "")
	require.NoError(t, err)
	assert.Nil(t, cfg.FeeCurrency)
	assert.Equal(t, "CELO", cfg.FeeCurrencyLabel())

	cfg, err = FromEnv(lookupFrom(nil), NetworkTestnet, "")
	require.NoError(t, err)
	assert.Nil(t, cfg.FeeCurrency)
}

func TestFromEnvInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"network":     {EnvNetwork: "devnet"},
		"fee":         {EnvFeeCurrency: "0x1234"},
		"multiplier":  {EnvBaseFeeMultiplier: "-1"},
		"unparseable": {EnvBaseFeeMultiplier: "fast"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(lookupFrom(env), "", "")
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(nil), "", "")
	require.NoError(t, err)

	cfg.RPCURL = ""
	require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg.RPCURL = "http://localhost:8545"
	cfg.PollInterval = 0
	require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestFromEnvPicksUpDefaultVault(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(Dir(home), 0700))
	require.NoError(t, os.WriteFile(DefaultVaultPath(home), []byte("{}"), 0600))

	cfg, err := FromEnv(lookupFrom(nil), "", home)
	require.NoError(t, err)
	assert.Equal(t, DefaultVaultPath(home), cfg.Credentials.VaultPath)
	assert.True(t, cfg.Credentials.NeedsPassword())
}

func TestVaultTarget(t *testing.T) {
	home := t.TempDir()

	cfg, err := FromEnv(lookupFrom(map[string]string{EnvMnemonic: "word word"}), "", home)
	require.NoError(t, err)
	target := cfg.VaultTarget(home)
	assert.Equal(t, DefaultVaultPath(home), target.VaultPath)
	assert.Empty(t, target.Mnemonic)
	assert.Equal(t, "vault", target.Kind())

	env := map[string]string{
		EnvVaultPath:      filepath.Join(home, "custom.vault"),
		EnvDerivationPath: "m/44'/60'/0'/0/3",
	}
	cfg, err = FromEnv(lookupFrom(env), "", home)
	require.NoError(t, err)
	target = cfg.VaultTarget(home)
	assert.Equal(t, env[EnvVaultPath], target.VaultPath)
	assert.Equal(t, "m/44'/60'/0'/0/3", target.DerivationPath)
}

func TestNetworkPersistence(t *testing.T) {
	home := t.TempDir()
	assert.Equal(t, NetworkMainnet, CurrentNetwork(home))

	require.NoError(t, SetNetwork(home, "Testnet"))
	assert.Equal(t, NetworkTestnet, CurrentNetwork(home))

	require.ErrorIs(t, SetNetwork(home, "devnet"), ErrInvalidConfig)
	assert.Equal(t, NetworkTestnet, CurrentNetwork(home))

	require.NoError(t, os.WriteFile(filepath.Join(Dir(home), "network.txt"), []byte("bogus"), 0600))
	assert.Equal(t, NetworkMainnet, CurrentNetwork(home))
}

func TestLoadEnvFile(t *testing.T) {
	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CELOFEE_TEST_VALUE=from-dotenv\n"), 0600))
	t.Setenv("CELOFEE_TEST_VALUE", "")
	require.NoError(t, os.Unsetenv("CELOFEE_TEST_VALUE"))

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-dotenv", os.Getenv("CELOFEE_TEST_VALUE"))
}
