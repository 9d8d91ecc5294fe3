package crypto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "test test test test test test test test test test test junk"

func TestVaultRoundTrip(t *testing.T) {
	secret := Secret{Mnemonic: testMnemonic, DerivationPath: "m/44'/60'/0'/0/1"}
	vault, err := NewVault(secret, "correct horse")
	require.NoError(t, err)
	assert.NotContains(t, string(vault.Data), "junk")

	path := filepath.Join(t.TempDir(), "nested", "wallet.vault")
	require.NoError(t, vault.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadVault(path)
	require.NoError(t, err)

	got, err := loaded.Decrypt("correct horse")
	require.NoError(t, err)
	assert.Equal(t, secret, got)
}

func TestVaultWrongPassword(t *testing.T) {
	vault, err := NewVault(Secret{Mnemonic: testMnemonic}, "correct horse")
	require.NoError(t, err)

	_, err = vault.Decrypt("battery staple")
	require.ErrorIs(t, err, ErrWrongPassword)
}

func TestLoadVaultMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.vault")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":2}`), 0600))

	_, err := LoadVault(path)
	require.Error(t, err)

	_, err = LoadVault(filepath.Join(t.TempDir(), "missing.vault"))
	require.Error(t, err)
}
