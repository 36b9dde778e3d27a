package ingest

import "sync"

// userLocks serializes ingestion per user so two rapid messages from the same
// sender cannot both observe "no prior tagged message" and race past the
// inheritance lookup. Cross-user ingestion stays fully concurrent.
type userLocks struct {
	mu    sync.Mutex
	locks map[uint64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[uint64]*userLock)}
}

// Lock blocks until the user's slot is free and returns the unlock func.
// Entries are reference-counted and removed when the last holder releases,
// so the map does not grow with the user population.
func (ul *userLocks) Lock(userID uint64) func() {
	ul.mu.Lock()
	l, ok := ul.locks[userID]
	if !ok {
		l = &userLock{}
		ul.locks[userID] = l
	}
	l.refs++
	ul.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()
		ul.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(ul.locks, userID)
		}
		ul.mu.Unlock()
	}
}
