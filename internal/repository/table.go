package repository

// keyed is implemented by every stored entity.
type keyed[K comparable] interface {
	Key() K
}

// table is an insertion-ordered collection with O(1) identity lookups.
// Rows are kept in a slice; index maps a key to its slice position.
type table[K comparable, V keyed[K]] struct {
	rows  []V
	index map[K]int
}

func newTable[K comparable, V keyed[K]]() *table[K, V] {
	return &table[K, V]{index: make(map[K]int)}
}

func (t *table[K, V]) insert(v V) bool {
	key := v.Key()
	if _, ok := t.index[key]; ok {
		return false
	}
	t.index[key] = len(t.rows)
	t.rows = append(t.rows, v)
	return true
}

func (t *table[K, V]) find(key K) (V, bool) {
	pos, ok := t.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return t.rows[pos], true
}

func (t *table[K, V]) remove(key K) bool {
	pos, ok := t.index[key]
	if !ok {
		return false
	}
	copy(t.rows[pos:], t.rows[pos+1:])
	var zero V
	t.rows[len(t.rows)-1] = zero
	t.rows = t.rows[:len(t.rows)-1]
	delete(t.index, key)
	for i := pos; i < len(t.rows); i++ {
		t.index[t.rows[i].Key()] = i
	}
	return true
}

func (t *table[K, V]) len() int { return len(t.rows) }

// each visits rows in insertion order until fn returns false.
func (t *table[K, V]) each(fn func(V) bool) {
	for _, v := range t.rows {
		if !fn(v) {
			return
		}
	}
}

// collect returns clone(row) for every matching row, never nil.
func (t *table[K, V]) collect(match func(V) bool, clone func(V) V) []V {
	out := make([]V, 0, len(t.rows))
	for _, v := range t.rows {
		if match == nil || match(v) {
			out = append(out, clone(v))
		}
	}
	return out
}

func (t *table[K, V]) any(match func(V) bool) bool {
	for _, v := range t.rows {
		if match(v) {
			return true
		}
	}
	return false
}
