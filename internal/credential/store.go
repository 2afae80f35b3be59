package credential

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by Get when no credential has been persisted.
var ErrNotFound = errors.New("credential not found")

// Store is the persisted-credential capability injected into the dashboard
// controller.
type Store interface {
	Get() (string, error)
	Set(token string) error
	Clear() error
}

// Memory is an in-process Store. It is used for --ephemeral sessions and
// in tests.
type Memory struct {
	mu    sync.Mutex
	token string
}

// NewMemory returns a Memory store seeded with token (which may be empty).
func NewMemory(token string) *Memory {
	return &Memory{token: token}
}

func (m *Memory) Get() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", ErrNotFound
	}
	return m.token, nil
}

func (m *Memory) Set(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
