package bounded

// SmallMap is a fixed-capacity map backed by parallel key/value slices.
// Lookup is O(n), which the spec explicitly accepts for the small N
// (<= 32) used during boot (spec §4.9).
type SmallMap[K comparable, V any] struct {
	keys []K
	vals []V
	cap  int
}

// NewSmallMap returns a SmallMap with the given fixed capacity.
func NewSmallMap[K comparable, V any](capacity int) *SmallMap[K, V] {
	return &SmallMap[K, V]{
		keys: make([]K, 0, capacity),
		vals: make([]V, 0, capacity),
		cap:  capacity,
	}
}

// Len returns the number of stored pairs.
func (m *SmallMap[K, V]) Len() int { return len(m.keys) }

func (m *SmallMap[K, V]) indexOf(key K) int {
	for i, k := range m.keys {
		if k == key {
			return i
		}
	}
	return -1
}

// Set inserts or updates the value for key. Returns ErrFull if key is new
// and the map is at capacity.
func (m *SmallMap[K, V]) Set(key K, val V) error {
	if i := m.indexOf(key); i >= 0 {
		m.vals[i] = val
		return nil
	}
	if len(m.keys) >= m.cap {
		return ErrFull
	}
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, val)
	return nil
}

// Get retrieves the value for key.
func (m *SmallMap[K, V]) Get(key K) (V, bool) {
	var zero V
	i := m.indexOf(key)
	if i < 0 {
		return zero, false
	}
	return m.vals[i], true
}

// Delete removes key, if present.
func (m *SmallMap[K, V]) Delete(key K) {
	i := m.indexOf(key)
	if i < 0 {
		return
	}
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.vals = append(m.vals[:i], m.vals[i+1:]...)
}

// Iter calls fn for every stored key/value pair, stopping early if fn
// returns false.
func (m *SmallMap[K, V]) Iter(fn func(K, V) bool) {
	for i, k := range m.keys {
		if !fn(k, m.vals[i]) {
			return
		}
	}
}
