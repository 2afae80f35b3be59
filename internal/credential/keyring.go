package credential

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/99designs/keyring"
)

const (
	serviceName = "mailpilot"

	// tokenKey is the keyring entry holding the backend bearer token.
	tokenKey = "auth-token"
)

// Keyring persists the bearer token in the operating system keyring, with
// an encrypted file fallback for headless machines.
type Keyring struct {
	ring keyring.Keyring
}

// OpenKeyring returns a Keyring store. fileDir is used by the file backend
// when no system keyring is available.
func OpenKeyring(fileDir string) (*Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  filepath.Join(fileDir, "credentials"),
		FilePasswordFunc:         keyring.FixedStringPrompt("mailpilot-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Keyring{ring: ring}, nil
}

// Get retrieves the persisted token.
func (k *Keyring) Get() (string, error) {
	item, err := k.ring.Get(tokenKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", tokenKey, err)
	}
	if len(item.Data) == 0 {
		return "", ErrNotFound
	}
	return string(item.Data), nil
}

// Set persists the token, replacing any previous value.
func (k *Keyring) Set(token string) error {
	err := k.ring.Set(keyring.Item{
		Key:   tokenKey,
		Data:  []byte(token),
		Label: "mailpilot session token",
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", tokenKey, err)
	}
	return nil
}

// Clear removes the persisted token. Clearing an absent token is not an
// error.
func (k *Keyring) Clear() error {
	err := k.ring.Remove(tokenKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting credential %q: %w", tokenKey, err)
	}
	return nil
}
