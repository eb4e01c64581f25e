package app

import "sync"

// matchLocks serializes round-affecting operations per match id.
// Entries are reference counted and dropped when the last holder releases.
type matchLocks struct {
	mu      sync.Mutex
	entries map[string]*matchLock
}

type matchLock struct {
	mu   sync.Mutex
	refs int
}

func newMatchLocks() *matchLocks {
	return &matchLocks{entries: make(map[string]*matchLock)}
}

// lock blocks until the caller holds matchID and returns the release func.
func (l *matchLocks) lock(matchID string) func() {
	l.mu.Lock()
	e, ok := l.entries[matchID]
	if !ok {
		e = &matchLock{}
		l.entries[matchID] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.entries, matchID)
		}
		l.mu.Unlock()
	}
}

func (l *matchLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
