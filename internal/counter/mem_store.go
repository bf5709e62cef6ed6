package counter

import "sync"

// MemStore is an in-memory Store for tests that never writes to disk.
type MemStore struct {
	mu       sync.Mutex
	count    int
	saved    bool
	failSave error
	saves    []int
}

// NewMemStore returns an empty store; Load reads 0 until something is saved.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// NewMemStoreWith returns a store that already holds count.
func NewMemStoreWith(count int) *MemStore {
	return &MemStore{count: count, saved: true}
}

// SetFailSave makes every Save return err wrapped as a SaveError. Pass
// ErrFull or ErrReadOnly, or nil to clear.
func (m *MemStore) SetFailSave(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSave = err
}

func (m *MemStore) Load() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return 0
	}
	return m.count
}

func (m *MemStore) Save(count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave != nil {
		return &SaveError{Path: m.Path(), Kind: m.failSave, Err: m.failSave}
	}
	m.count = count
	m.saved = true
	m.saves = append(m.saves, count)
	return nil
}

// Saves returns every count saved so far, in order.
func (m *MemStore) Saves() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int(nil), m.saves...)
}

// Path returns ":memory:" to indicate this is an in-memory store.
func (m *MemStore) Path() string { return ":memory:" }

var _ Store = (*MemStore)(nil)
