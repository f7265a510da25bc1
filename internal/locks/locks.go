// Package locks provides named mutexes for per-key serialization.
package locks

import "sync"

type Keyed struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func NewKeyed() *Keyed {
	return &Keyed{m: make(map[string]*sync.Mutex)}
}

// Get returns the mutex for key, creating it on first use. Entries are
// never evicted; key cardinality is bounded by session/customer TTL
// collection happening outside this process.
func (k *Keyed) Get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	l, ok := k.m[key]
	if !ok {
		l = &sync.Mutex{}
		k.m[key] = l
	}
	return l
}
