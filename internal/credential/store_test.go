package credential

import (
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	m := NewMemory("")

	_, err := m.Get()
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Set("abc"))
	got, err := m.Get()
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	require.NoError(t, m.Clear())
	require.NoError(t, m.Clear())
	_, err = m.Get()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKeyring_FileBackend(t *testing.T) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      serviceName,
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          filepath.Join(t.TempDir(), "credentials"),
		FilePasswordFunc: keyring.FixedStringPrompt("test"),
	})
	require.NoError(t, err)
	k := &Keyring{ring: ring}

	_, err = k.Get()
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, k.Set("tok"))
	got, err := k.Get()
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	require.NoError(t, k.Clear())
	require.NoError(t, k.Clear())
	_, err = k.Get()
	assert.ErrorIs(t, err, ErrNotFound)
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*Keyring)(nil)
)
