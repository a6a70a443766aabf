package readstate

import (
	"context"
	gosync "sync"
)

// Memory is a Persister that keeps the encoded value in memory.
type Memory struct {
	mu   gosync.Mutex
	data []byte
	err  error
}

// NewMemory returns an empty in-memory persister.
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryWithData returns a persister preloaded with a raw stored value.
func NewMemoryWithData(raw []byte) *Memory {
	return &Memory{data: append([]byte(nil), raw...)}
}

// Load decodes the stored value.
func (m *Memory) Load(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return decodeIDs(m.data)
}

// Save encodes ids, or returns the error set by FailSaves.
func (m *Memory) Save(_ context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	data, err := encodeIDs(ids)
	if err != nil {
		return err
	}
	m.data = data
	return nil
}

// Raw returns the stored value.
func (m *Memory) Raw() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// FailSaves makes subsequent saves return err. A nil err clears it.
func (m *Memory) FailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
