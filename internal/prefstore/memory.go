package prefstore

import (
	"context"
	"sync"
)

// MemoryKV is an in-process KV for tests and local development. Reads and
// writes can be gated to simulate slow asynchronous storage.
type MemoryKV struct {
	mu        sync.RWMutex
	data      map[string]string
	readGate  chan struct{}
	writeGate chan struct{}

	failReads  error
	failWrites error
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

// GateReads blocks all Get calls until the returned release function runs.
func (m *MemoryKV) GateReads() func() {
	gate := make(chan struct{})
	m.mu.Lock()
	m.readGate = gate
	m.mu.Unlock()
	return func() { close(gate) }
}

// GateWrites blocks all Set calls until the returned release function runs.
func (m *MemoryKV) GateWrites() func() {
	gate := make(chan struct{})
	m.mu.Lock()
	m.writeGate = gate
	m.mu.Unlock()
	return func() { close(gate) }
}

// FailReads makes every Get return err (nil restores normal behavior).
func (m *MemoryKV) FailReads(err error) {
	m.mu.Lock()
	m.failReads = err
	m.mu.Unlock()
}

// FailWrites makes every Set return err (nil restores normal behavior).
func (m *MemoryKV) FailWrites(err error) {
	m.mu.Lock()
	m.failWrites = err
	m.mu.Unlock()
}

func (m *MemoryKV) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	gate := m.readGate
	m.mu.RUnlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failReads != nil {
		return "", m.failReads
	}
	val, ok := m.data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return val, nil
}

func (m *MemoryKV) Set(ctx context.Context, key, value string) error {
	m.mu.RLock()
	gate := m.writeGate
	m.mu.RUnlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites != nil {
		return m.failWrites
	}
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

// Stored returns the raw stored payload, for assertions in tests.
func (m *MemoryKV) Stored(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	return val, ok
}

// Seed stores a raw payload directly, bypassing any gate.
func (m *MemoryKV) Seed(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

var _ KV = (*MemoryKV)(nil)
