package syncer

import (
	"sync"

	"github.com/discochess/repertoire/internal/store"
)

// keyLocks hands out one mutex per store key. Entries are dropped once
// no goroutine holds or waits on them.
type keyLocks struct {
	mu    sync.Mutex
	locks map[store.Key]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[store.Key]*keyLock)}
}

// lock blocks until key is free and returns the matching unlock.
func (l *keyLocks) lock(key store.Key) func() {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	kl.mu.Lock()
	return func() {
		kl.mu.Unlock()
		l.mu.Lock()
		kl.refs--
		if kl.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

func (l *keyLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
