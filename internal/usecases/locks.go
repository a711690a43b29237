package usecases

import (
	"sync"

	"github.com/google/uuid"
)

// assetLocks serializes mutations per asset id. Every mutating operation
// on a single asset runs under its key so rapid repeated calls cannot
// interleave and double-append ledger entries.
type assetLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newAssetLocks() *assetLocks {
	return &assetLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// lock acquires the mutex for id and returns its release func.
func (l *assetLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
