package prefs

import (
	"context"

	"github.com/stagehand-games/stagehand/pkg/save"
)

// Memory is an in-memory save.PrefStore for tests and sessions that do not
// want persistence.
type Memory struct {
	values    map[string]string
	pingError error
	setError  error
}

var _ save.PrefStore = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		values: make(map[string]string),
	}
}

// SetPingError configures Ping to fail with err. Pass nil to restore.
func (m *Memory) SetPingError(err error) {
	m.pingError = err
}

// SetSetError configures Set to fail with err. Pass nil to restore.
func (m *Memory) SetSetError(err error) {
	m.setError = err
}

// Len reports how many blobs are stored.
func (m *Memory) Len() int {
	return len(m.values)
}

func (m *Memory) Ping(ctx context.Context) error {
	return m.pingError
}

func (m *Memory) Get(ctx context.Context, name string) (string, error) {
	return m.values[name], nil
}

func (m *Memory) Set(ctx context.Context, name, value string) error {
	if m.setError != nil {
		return m.setError
	}
	m.values[name] = value
	return nil
}

func (m *Memory) Close() error {
	return nil
}
