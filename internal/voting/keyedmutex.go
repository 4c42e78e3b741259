package voting

import "sync"

type pairKey struct {
	voterID int
	itemID  int
}

// keyedMutex serializes work per (voter, item) pair. Entries are
// created on demand and removed once the last holder releases, so the
// table stays proportional to in-flight casts. Distinct pairs never
// block one another.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[pairKey]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[pairKey]*lockEntry)}
}

// lock acquires the mutex for key and returns its release func.
func (k *keyedMutex) lock(key pairKey) func() {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
