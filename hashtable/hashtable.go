// Package hashtable provides an insertion-ordered, open-addressing hash map
// keyed by values that cannot be used as Go map keys.
//
// The bucket array holds indices into a dense entry slice. Entries are
// appended in insertion order and deletions leave a tombstone in place, so
// iteration order is stable until the next rehash, which compacts the
// entries without reordering them.
package hashtable

import (
	"github.com/zoelang/zoe/errz"
)

const (
	minBuckets = 8
	// The map rehashes once used entries exceed maxLoadNum/maxLoadDen of
	// the buckets.
	maxLoadNum = 7
	maxLoadDen = 10
	emptyIndex = -1
)

// HashFunc returns the hash of a key. It fails for unhashable keys.
type HashFunc[K any] func(key K) (uint64, error)

// EqualFunc reports whether two keys with the same hash are equal.
type EqualFunc[K any] func(a, b K) bool

type entry[K, V any] struct {
	key     K
	value   V
	hash    uint64
	deleted bool
}

// Map is a hash map with caller-defined hashing and equality. A Map is not
// safe for concurrent use.
type Map[K, V any] struct {
	hash    HashFunc[K]
	equal   EqualFunc[K]
	buckets []int
	entries []entry[K, V]
	live    int
}

// New returns an empty map using the given hash and equality functions.
func New[K, V any](hash HashFunc[K], equal EqualFunc[K]) *Map[K, V] {
	m := &Map[K, V]{hash: hash, equal: equal}
	m.buckets = newBuckets(minBuckets)
	return m
}

func newBuckets(n int) []int {
	b := make([]int, n)
	for i := range b {
		b[i] = emptyIndex
	}
	return b
}

func (m *Map[K, V]) hashKey(key K) (uint64, error) {
	h, err := m.hash(key)
	if err != nil {
		if errz.KindOf(err) == errz.Unknown {
			return 0, errz.New(errz.UnhashableType, err.Error()).WithCause(err)
		}
		return 0, err
	}
	return h, nil
}

// find returns the bucket holding key, or the empty bucket that ends its
// probe sequence when the key is absent.
func (m *Map[K, V]) find(key K, h uint64) (bucket int, found bool) {
	mask := uint64(len(m.buckets) - 1)
	for i := h & mask; ; i = (i + 1) & mask {
		idx := m.buckets[i]
		if idx == emptyIndex {
			return int(i), false
		}
		e := &m.entries[idx]
		if !e.deleted && e.hash == h && m.equal(e.key, key) {
			return int(i), true
		}
	}
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool, error) {
	var zero V
	h, err := m.hashKey(key)
	if err != nil {
		return zero, false, err
	}
	bucket, found := m.find(key, h)
	if !found {
		return zero, false, nil
	}
	return m.entries[m.buckets[bucket]].value, true, nil
}

// Set inserts or overwrites the value stored under key.
func (m *Map[K, V]) Set(key K, value V) error {
	h, err := m.hashKey(key)
	if err != nil {
		return err
	}
	bucket, found := m.find(key, h)
	if found {
		m.entries[m.buckets[bucket]].value = value
		return nil
	}
	m.buckets[bucket] = len(m.entries)
	m.entries = append(m.entries, entry[K, V]{key: key, value: value, hash: h})
	m.live++
	if len(m.entries)*maxLoadDen > len(m.buckets)*maxLoadNum {
		m.rehash()
	}
	return nil
}

// Delete removes key from the map. Deleting a missing key is a no-op.
func (m *Map[K, V]) Delete(key K) error {
	h, err := m.hashKey(key)
	if err != nil {
		return err
	}
	bucket, found := m.find(key, h)
	if !found {
		return nil
	}
	e := &m.entries[m.buckets[bucket]]
	var zeroK K
	var zeroV V
	e.key, e.value, e.deleted = zeroK, zeroV, true
	m.live--
	return nil
}

// rehash compacts the entries and rebuilds the buckets at the smallest
// power of two that holds the live entries under the load limit.
func (m *Map[K, V]) rehash() {
	size := minBuckets
	for m.live*maxLoadDen > size*maxLoadNum {
		size *= 2
	}
	entries := make([]entry[K, V], 0, m.live)
	for _, e := range m.entries {
		if !e.deleted {
			entries = append(entries, e)
		}
	}
	m.entries = entries
	m.buckets = newBuckets(size)
	mask := uint64(size - 1)
	for idx, e := range entries {
		i := e.hash & mask
		for m.buckets[i] != emptyIndex {
			i = (i + 1) & mask
		}
		m.buckets[i] = idx
	}
}

// Len returns the number of live entries.
func (m *Map[K, V]) Len() int {
	return m.live
}

// Buckets returns the size of the bucket array.
func (m *Map[K, V]) Buckets() int {
	return len(m.buckets)
}

// Each calls fn for every entry in insertion order until fn returns false.
// The map must not be modified during iteration.
func (m *Map[K, V]) Each(fn func(key K, value V) bool) {
	for _, e := range m.entries {
		if e.deleted {
			continue
		}
		if !fn(e.key, e.value) {
			return
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, m.live)
	m.Each(func(key K, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}
