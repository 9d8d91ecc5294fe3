package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/scrypt"
)

const (
	ScryptN = 32768 // 2^15
	ScryptR = 8
	ScryptP = 1
	KeyLen  = 32 // AES-256 key length

	vaultVersion = 2
)

// ErrWrongPassword is returned when the vault cannot be opened with the given password
var ErrWrongPassword = errors.New("invalid vault password")

// Vault is an encrypted account secret as stored on disk
type Vault struct {
	Version int    `json:"version"`
	Salt    []byte `json:"salt"`
	Nonce   []byte `json:"nonce"`
	Data    []byte `json:"data"`
}

// Secret is the plaintext held by a vault
type Secret struct {
	Mnemonic       string `json:"mnemonic"`
	DerivationPath string `json:"derivation_path,omitempty"`
}

// NewVault encrypts secret with a key derived from password
func NewVault(secret Secret, password string) (*Vault, error) {
	salt := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := deriveKey(password, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clearBytes(key)

	data, err := json.Marshal(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize vault data: %w", err)
	}
	defer clearBytes(data)

	nonce := make([]byte, 12)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	aesGCM, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	return &Vault{
		Version: vaultVersion,
		Salt:    salt,
		Nonce:   nonce,
		Data:    aesGCM.Seal(nil, nonce, data, nil),
	}, nil
}

// Decrypt opens the vault
func (v *Vault) Decrypt(password string) (Secret, error) {
	key, err := deriveKey(password, v.Salt)
	if err != nil {
		return Secret{}, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clearBytes(key)

	aesGCM, err := newGCM(key)
	if err != nil {
		return Secret{}, err
	}

	plaintext, err := aesGCM.Open(nil, v.Nonce, v.Data, nil)
	if err != nil {
		return Secret{}, ErrWrongPassword
	}
	defer clearBytes(plaintext)

	var secret Secret
	if err := json.Unmarshal(plaintext, &secret); err != nil {
		return Secret{}, fmt.Errorf("failed to deserialize vault data: %w", err)
	}
	return secret, nil
}

// Save writes the vault to path, creating parent directories
func (v *Vault) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal vault: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write vault file: %w", err)
	}
	return nil
}

// LoadVault reads a vault from path
func LoadVault(path string) (*Vault, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vault file: %w", err)
	}

	var vault Vault
	if err := json.Unmarshal(data, &vault); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vault: %w", err)
	}
	if len(vault.Nonce) != 12 || len(vault.Salt) == 0 {
		return nil, fmt.Errorf("malformed vault file: %s", path)
	}
	return &vault, nil
}

func deriveKey(password string, salt []byte) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), salt, ScryptN, ScryptR, ScryptP, KeyLen)
	if err != nil {
		return nil, fmt.Errorf("scrypt key derivation failed: %w", err)
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aesGCM, nil
}

func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
