package memory

import (
	"fmt"
	"sort"
)

type entry[V any] struct {
	seq uint64
	val V
}

// table holds the rows of one entity type. It is not safe for concurrent
// use; Store serialises access.
type table[K ~string, V any] struct {
	name  string
	rows  map[K]*entry[V]
	seq   uint64
	keyOf func(V) K
	clone func(V) V
}

func newTable[K ~string, V any](name string, keyOf func(V) K, clone func(V) V) *table[K, V] {
	if clone == nil {
		clone = func(v V) V { return v }
	}
	return &table[K, V]{name: name, rows: make(map[K]*entry[V]), keyOf: keyOf, clone: clone}
}

func (t *table[K, V]) reset() {
	t.rows = make(map[K]*entry[V])
	t.seq = 0
}

func (t *table[K, V]) insert(v V) {
	t.seq++
	t.rows[t.keyOf(v)] = &entry[V]{seq: t.seq, val: t.clone(v)}
}

func (t *table[K, V]) sorted() []*entry[V] {
	out := make([]*entry[V], 0, len(t.rows))
	for _, e := range t.rows {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// handle binds a table to the transaction it is accessed from. Writes are
// journalled on the transaction so they can be undone.
type handle[K ~string, V any] struct {
	t  *table[K, V]
	tx *txn
}

func (h handle[K, V]) Put(v V) V {
	h.tx.mustWrite(h.t.name)
	id := h.t.keyOf(v)
	if prev, ok := h.t.rows[id]; ok {
		h.t.rows[id] = &entry[V]{seq: prev.seq, val: h.t.clone(v)}
		h.tx.onRollback(func() { h.t.rows[id] = prev })
	} else {
		h.t.insert(v)
		h.tx.onRollback(func() { delete(h.t.rows, id) })
	}
	return h.t.clone(v)
}

func (h handle[K, V]) Get(id K) (V, bool) {
	e, ok := h.t.rows[id]
	if !ok {
		var zero V
		return zero, false
	}
	return h.t.clone(e.val), true
}

func (h handle[K, V]) List() []V {
	rows := h.t.sorted()
	out := make([]V, len(rows))
	for i, e := range rows {
		out[i] = h.t.clone(e.val)
	}
	return out
}

func (h handle[K, V]) Delete(id K) bool {
	h.tx.mustWrite(h.t.name)
	prev, ok := h.t.rows[id]
	if !ok {
		return false
	}
	delete(h.t.rows, id)
	h.tx.onRollback(func() { h.t.rows[id] = prev })
	return true
}

func (h handle[K, V]) Len() int { return len(h.t.rows) }

// txn carries the undo journal of one transaction.
type txn struct {
	writable bool
	undo     []func()
}

func (tx *txn) mustWrite(table string) {
	if !tx.writable {
		panic(fmt.Sprintf("memory: write to %s in a read-only transaction", table))
	}
}

func (tx *txn) onRollback(fn func()) { tx.undo = append(tx.undo, fn) }

func (tx *txn) rollback() {
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
	tx.undo = nil
}
