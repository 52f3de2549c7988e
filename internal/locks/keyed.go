// Package locks provides per-key mutual exclusion. Every mutating
// operation on a project acquires its lock for the duration of one state
// transition, so concurrent admits never both observe the last open slot
// and concurrent votes never both fire settlement.
package locks

import "sync"

// Keyed hands out one mutex per int64 key. The zero value is ready to use.
type Keyed struct {
	mu    sync.Mutex
	locks map[int64]*entry
}

type entry struct {
	mu   sync.Mutex
	refs int
}

// NewKeyed creates a new keyed lock set.
func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[int64]*entry)}
}

// Lock acquires the mutex for key and returns its unlock function. Entries
// are reference-counted and removed once the last holder unlocks, so the
// map does not grow with the number of keys ever seen.
func (k *Keyed) Lock(key int64) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[int64]*entry)
	}
	e, ok := k.locks[key]
	if !ok {
		e = &entry{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
