// Package cache provides a bounded least-recently-used memo table.
package cache

import (
	"math"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// Memo maps keys to previously computed values, evicting the least recently
// used entry once the limit is reached. A Memo is not safe for concurrent use.
type Memo[K comparable, V any] struct {
	limit int
	lru   *simplelru.LRU[K, V]
}

// New creates a memo holding at most limit entries. A limit of zero (or less)
// means unbounded.
func New[K comparable, V any](limit int) *Memo[K, V] {
	if limit < 0 {
		limit = 0
	}

	size := limit
	if size == 0 {
		size = math.MaxInt
	}

	lru, err := simplelru.NewLRU[K, V](size, nil)
	if err != nil {
		// Only reachable with a non-positive size.
		panic(err)
	}

	return &Memo[K, V]{
		limit: limit,
		lru:   lru,
	}
}

// Get returns the value stored for key and marks it most recently used.
func (m *Memo[K, V]) Get(key K) (V, bool) {
	return m.lru.Get(key)
}

// Put stores value for key. When the memo is full and key is new, the least
// recently used entry is evicted first.
func (m *Memo[K, V]) Put(key K, value V) {
	m.lru.Add(key, value)
}

// Remember returns the stored value for key, computing and storing it with
// compute on a miss. Errors are not memoized.
func (m *Memo[K, V]) Remember(key K, compute func() (V, error)) (V, error) {
	if v, ok := m.Get(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		return v, err
	}
	m.Put(key, v)
	return v, nil
}

// Len returns the number of stored entries.
func (m *Memo[K, V]) Len() int {
	return m.lru.Len()
}

// Limit returns the configured capacity; zero means unbounded.
func (m *Memo[K, V]) Limit() int {
	return m.limit
}
