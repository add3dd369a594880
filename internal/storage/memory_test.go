package storage

import (
	"bytes"
	"sort"
	"sync"
)

// memoryDB is a map-backed DB that the backend suite runs against
// alongside Badger. Stored and returned values are copies.
type memoryDB struct {
	mu sync.RWMutex
	kv map[string][]byte
}

func newMemory() *memoryDB {
	return &memoryDB{kv: map[string][]byte{}}
}

func clone(b []byte) []byte { return append([]byte{}, b...) }

func (m *memoryDB) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.kv[string(key)]; ok {
		return clone(v), nil
	}
	return nil, ErrNotFound
}

func (m *memoryDB) Put(key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[string(key)] = clone(value)
	return nil
}

func (m *memoryDB) PutNew(key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := string(key)
	if _, taken := m.kv[k]; taken {
		return ErrExists
	}
	m.kv[k] = clone(value)
	return nil
}

func (m *memoryDB) Delete(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := string(key)
	if _, ok := m.kv[k]; !ok {
		return ErrNotFound
	}
	delete(m.kv, k)
	return nil
}

func (m *memoryDB) Has(key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.kv[string(key)]
	return ok, nil
}

type pair struct{ k, v []byte }

// ForEach walks a snapshot taken under the read lock, so fn may write.
func (m *memoryDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	m.mu.RLock()
	var snap []pair
	for k, v := range m.kv {
		if bytes.HasPrefix([]byte(k), prefix) {
			snap = append(snap, pair{[]byte(k), clone(v)})
		}
	}
	m.mu.RUnlock()

	sort.Slice(snap, func(i, j int) bool { return bytes.Compare(snap[i].k, snap[j].k) < 0 })
	for _, p := range snap {
		if err := fn(p.k, p.v); err != nil {
			return err
		}
	}
	return nil
}

func (m *memoryDB) Close() error { return nil }
