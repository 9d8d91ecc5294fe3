package wallet

import (
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known development mnemonic and its first accounts.
const testMnemonic = "test test test test test test test test test test test junk"

var (
	testAccount0 = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	testAccount1 = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

func TestKeyFromMnemonic(t *testing.T) {
	m := NewManager(CredentialSource{Mnemonic: "  " + testMnemonic + "\n"})
	account, err := m.Account("")
	require.NoError(t, err)
	assert.Equal(t, testAccount0, account.Address)

	m = NewManager(CredentialSource{Mnemonic: testMnemonic, DerivationPath: "m/44'/60'/0'/0/1"})
	account, err = m.Account("")
	require.NoError(t, err)
	assert.Equal(t, testAccount1, account.Address)

	_, err = KeyFromMnemonic("not a mnemonic", DefaultDerivationPath)
	require.Error(t, err)
}

func TestPrivateKeySource(t *testing.T) {
	m := NewManager(CredentialSource{
		PrivateKey: "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
		Mnemonic:   "ignored because private key wins",
	})
	assert.Equal(t, "private key", m.Source().Kind())

	account, err := m.Account("")
	require.NoError(t, err)
	assert.Equal(t, testAccount0, account.Address)

	_, err = NewManager(CredentialSource{PrivateKey: "zz"}).Account("")
	require.Error(t, err)
}

func TestNoCredentials(t *testing.T) {
	_, err := NewManager(CredentialSource{}).Account("")
	require.ErrorIs(t, err, ErrNoCredentials)
}

func TestVaultSource(t *testing.T) {
	source := CredentialSource{VaultPath: filepath.Join(t.TempDir(), "wallet.vault")}
	require.True(t, source.NeedsPassword())

	require.NoError(t, NewManager(source).ImportMnemonic(testMnemonic, "hunter22"))
	require.Error(t, NewManager(source).ImportMnemonic(testMnemonic, "hunter22"), "second import must not overwrite")

	_, err := NewManager(source).Account("")
	require.ErrorIs(t, err, ErrPasswordRequired)

	_, err = NewManager(source).Account("wrong")
	require.Error(t, err)

	m := NewManager(source)
	account, err := m.Account("hunter22")
	require.NoError(t, err)
	assert.Equal(t, testAccount0, account.Address)

	// cached after the first unlock
	again, err := m.Account("")
	require.NoError(t, err)
	assert.Same(t, account, again)
}

func TestImportRejectsInvalidMnemonic(t *testing.T) {
	source := CredentialSource{VaultPath: filepath.Join(t.TempDir(), "wallet.vault")}
	require.Error(t, NewManager(source).ImportMnemonic("one two three", "pw"))
	require.Error(t, NewManager(CredentialSource{}).ImportMnemonic(testMnemonic, "pw"))
}
