package storage

import (
	"context"
	"sync"
)

// Memory keeps values in process memory.
type Memory struct {
	values sync.Map // map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, ok := m.values.Load(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), val.([]byte)...), true, nil
}

func (m *Memory) Put(_ context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	m.values.Store(key, append([]byte(nil), data...))
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.values.Delete(key)
	return nil
}

func (m *Memory) Close() error { return nil }
