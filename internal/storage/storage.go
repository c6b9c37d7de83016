// Package storage is the durable key/value boundary. Values are opaque JSON
// documents; callers own their shape.
package storage

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var ErrClosed = errors.New("storage is closed")

type Store interface {
	// Get reports ok=false when the key has never been set.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
	// Keys lists keys starting with prefix in ascending order.
	Keys(prefix string) ([]string, error)
}

// Batcher is implemented by stores that can write several keys at once,
// either all of them or none.
type Batcher interface {
	SetMany(values map[string][]byte) error
}

// SetMany writes values through store's Batcher when it has one and one key
// at a time otherwise.
func SetMany(store Store, values map[string][]byte) error {
	if b, ok := store.(Batcher); ok {
		return b.SetMany(values)
	}
	for _, k := range sortedKeys(values) {
		if err := store.Set(k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(values map[string][]byte) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (m *MemoryStore) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, false, ErrClosed
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) SetMany(values map[string][]byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	for k, v := range values {
		m.data[k] = append([]byte(nil), v...)
	}
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.data, key)
	return nil
}

func (m *MemoryStore) Keys(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	keys := make([]string, 0)
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
