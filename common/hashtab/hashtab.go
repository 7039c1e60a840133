// Copyright 2026 The cc65-go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package hashtab implements an intrusive, chained hash table with a fixed
// bucket count. It is the lookup primitive beneath the toolchain's
// table-like structures (symbol tables, macro tables, include-file caches)
// and is tuned for predictable embedding inside larger records rather than
// for general-purpose use.
//
// # Intrusive design
//
// Unlike a map, a Table does not own or copy the elements it stores. Each
// element is a caller-owned record (an "entry") whose first field is a
// Node. The table threads entries into per-bucket singly linked chains
// through that embedded Node and never allocates, copies, or frees entry
// memory. The only allocation a Table performs is its bucket array, and
// even that is deferred until the first insertion so that provisional
// tables (e.g. optional symbol scopes) cost nothing if they stay empty.
//
// Because the Node must be the first field of the entry, a pointer to the
// entry and a pointer to its Node refer to the same address. EntryOf and
// NodeOf convert between the two representations.
//
// # Key operations
//
// The table is polymorphic over the key type. A caller supplies a Funcs[K]
// value holding the three operations the table delegates: hashing a key,
// extracting the key from a stored node, and comparing two keys. The full
// hash of an entry's key is cached on its Node at insertion time; lookups
// compare cached hashes before invoking Equal, and removal locates the
// bucket from the cached hash without rehashing.
//
// # Duplicates and ordering
//
// Insert performs no duplicate check: inserting a key that is already
// present leaves both entries in the table, and Find returns the most
// recently inserted one because insertion prepends to the chain head.
// Shadowing, rejecting, or overwriting duplicates is caller policy. The
// bucket count is fixed at construction and the table never rehashes, so
// this most-recently-inserted-first ordering within a bucket is stable for
// the lifetime of the table and is part of the Walk contract.
//
// A Table is NOT goroutine-safe.
package hashtab

import (
	"fmt"
	"strings"
	"unsafe"
)

// Node is the intrusive link embedded in every stored entry. It must be
// the first field of the entry so that node and entry pointers are
// interchangeable. The zero value is ready for insertion.
type Node struct {
	// The full (unreduced) hash of the entry's key, cached by Insert. The
	// key must not be mutated in a way that changes its hash while the
	// node is in a table; removal trusts this cached value to locate the
	// correct chain.
	hash uint64
	// The next node in the same collision chain. The table threads this
	// link but does not own the node's memory.
	next *Node
}

// Hash returns the full hash cached by the most recent insertion.
func (n *Node) Hash() uint64 { return n.hash }

// Next returns the next node in the same collision chain, or nil at the
// chain's end.
func (n *Node) Next() *Node { return n.next }

// Funcs supplies the key operations a Table delegates to its caller. A
// single Funcs value is typically shared by every table holding the same
// entry type, mirroring how a vtable of key operations would be declared
// once per key type.
type Funcs[K any] struct {
	// Hash returns a well-distributed hash of key. It must be
	// deterministic and stable for as long as any node with that key is
	// stored in a table.
	Hash func(key K) uint64
	// Key extracts the logical key from a stored node.
	Key func(n *Node) K
	// Equal reports whether two keys are equal.
	Equal func(a, b K) bool
}

// Table is a fixed-slot-count chained hash table over keys of type K. The
// zero value is not usable; construct with New or Init. Tables embedded in
// larger structures use Init; the enclosing structure's lifetime then
// carries the table.
type Table[K any] struct {
	// The key operations for this table's entry type.
	funcs *Funcs[K]
	// The allocator for the bucket array, the only memory the table owns.
	allocator Allocator
	// The bucket array: table[i] heads the chain of all nodes whose
	// hash%slots == i. Nil until the first insertion.
	table []*Node
	// The immutable bucket count, set at construction.
	slots int
	// The number of stored entries.
	count int
}

// New constructs a heap-allocated Table with the given bucket count and
// key operations. No allocation beyond the struct itself occurs until the
// first insertion. slots must be >= 1; this is a caller contract and is
// not checked.
func New[K any](slots int, funcs *Funcs[K], options ...option[K]) *Table[K] {
	return new(Table[K]).Init(slots, funcs, options...)
}

// Init initializes a Table in place, typically one embedded in a larger
// structure, and returns it. Any previous state is discarded without
// releasing it; Close an already-populated table first if its bucket
// array must be returned to a manual allocator.
func (t *Table[K]) Init(slots int, funcs *Funcs[K], options ...option[K]) *Table[K] {
	*t = Table[K]{
		funcs:     funcs,
		allocator: defaultAllocator{},
		slots:     slots,
	}
	for _, op := range options {
		op.apply(t)
	}
	return t
}

// Close releases the bucket array back to the table's allocator. The
// stored entries are untouched: their memory belongs to the caller, who
// must walk-and-free beforehand if they are no longer wanted. Close is
// idempotent and a no-op on a table that never saw an insertion; after
// Close the table is back in its unpopulated state and may be reused.
func (t *Table[K]) Close() {
	if t.table != nil {
		t.allocator.FreeBuckets(t.table)
		t.table = nil
	}
	t.count = 0
}

// Len returns the number of stored entries.
func (t *Table[K]) Len() int { return t.count }

// Slots returns the table's fixed bucket count.
func (t *Table[K]) Slots() int { return t.slots }

// bucket reduces a full hash to a bucket index.
func (t *Table[K]) bucket(hash uint64) uint64 {
	return hash % uint64(t.slots)
}

// Find returns the node whose key equals key, or nil if there is none.
// When duplicate keys were inserted, the most recently inserted one is
// returned. Find never allocates: on a table that has not seen an
// insertion it reports a miss without touching the allocator.
func (t *Table[K]) Find(key K) *Node {
	if t.table == nil {
		return nil
	}
	return t.FindHash(key, t.funcs.Hash(key))
}

// FindHash is Find with a precomputed hash, for callers that already
// hashed the key (e.g. a lookup-then-insert sequence). hash must equal
// Funcs.Hash(key).
func (t *Table[K]) FindHash(key K, hash uint64) *Node {
	if t.table == nil {
		return nil
	}
	for n := t.table[t.bucket(hash)]; n != nil; n = n.next {
		// Compare the cached full hash first to avoid calling Equal when
		// it cannot possibly match, which is the dominant case in a well
		// distributed table.
		if n.hash == hash && t.funcs.Equal(key, t.funcs.Key(n)) {
			return n
		}
	}
	return nil
}

// Insert links n into the table, allocating the bucket array if this is
// the first insertion. The key's full hash is computed and cached on n,
// and n becomes the head of its bucket's chain. No duplicate check is
// performed; see the package comment for the resulting ordering.
func (t *Table[K]) Insert(n *Node) {
	if t.table == nil {
		t.table = t.allocator.AllocBuckets(t.slots)
	}
	n.hash = t.funcs.Hash(t.funcs.Key(n))
	i := t.bucket(n.hash)
	n.next = t.table[i]
	t.table[i] = n
	t.count++
	t.checkInvariants()
}

// Remove unlinks n from the table. The match is by node identity, not by
// key: Remove removes this specific node, which matters when duplicate
// keys coexist. If n is not present in its expected chain the table state
// is inconsistent with the caller's bookkeeping (a double removal, a node
// never inserted here, or a key mutated after insertion) and Remove
// panics rather than leave the count silently wrong.
func (t *Table[K]) Remove(n *Node) {
	if !t.remove(n) {
		panic(fmt.Sprintf("hashtab: removing node not in table [hash=%#x]\n%s",
			n.hash, t.debugString()))
	}
}

// TryRemove is a checked variant of Remove for contexts where the caller
// cannot guarantee n was inserted: it reports whether n was found and
// unlinked instead of panicking on a miss.
func (t *Table[K]) TryRemove(n *Node) bool {
	return t.remove(n)
}

func (t *Table[K]) remove(n *Node) bool {
	if t.table == nil {
		return false
	}
	// The bucket index comes from the hash cached at insertion time, so a
	// key mutated after insertion sends us to the wrong chain and shows
	// up as a miss.
	for q := &t.table[t.bucket(n.hash)]; *q != nil; q = &(*q).next {
		if *q == n {
			*q = n.next
			n.next = nil
			t.count--
			t.checkInvariants()
			return true
		}
	}
	return false
}

// Walk calls yield for every stored node, visiting buckets in index order
// and each bucket's chain from its head (most recently inserted first).
// If yield returns false, Walk stops. The chains must not be mutated
// during the walk: no insertion or removal from yield.
func (t *Table[K]) Walk(yield func(n *Node) bool) {
	if t.table == nil {
		return
	}
	for _, head := range t.table {
		for n := head; n != nil; n = n.next {
			if !yield(n) {
				return
			}
		}
	}
}

// EntryOf converts a node pointer back into a pointer to its containing
// entry. E must embed Node as its first field; the conversion is the
// address-identity the intrusive layout guarantees.
func EntryOf[E any](n *Node) *E {
	return (*E)(unsafe.Pointer(n))
}

// NodeOf converts an entry pointer into a pointer to its embedded Node.
// E must embed Node as its first field.
func NodeOf[E any](e *E) *Node {
	return (*Node)(unsafe.Pointer(e))
}

// FindEntry is Find returning the containing entry instead of the node,
// or nil on a miss.
func FindEntry[E any, K any](t *Table[K], key K) *E {
	n := t.Find(key)
	if n == nil {
		return nil
	}
	return (*E)(unsafe.Pointer(n))
}

// InsertEntry inserts an entry by its embedded node.
func InsertEntry[E any, K any](t *Table[K], e *E) {
	t.Insert(NodeOf(e))
}

// RemoveEntry removes an entry by its embedded node, with Remove's fatal
// contract for entries that are not present.
func RemoveEntry[E any, K any](t *Table[K], e *E) {
	t.Remove(NodeOf(e))
}

// checkInvariants validates bucket residency and the entry count. Enabled
// by the invariants build tag.
func (t *Table[K]) checkInvariants() {
	if invariants {
		var count int
		for i := range t.table {
			for n := t.table[i]; n != nil; n = n.next {
				if want := t.bucket(n.hash); want != uint64(i) {
					panic(fmt.Sprintf("invariant failed: node [hash=%#x] in bucket %d, expected %d\n%s",
						n.hash, i, want, t.debugString()))
				}
				count++
			}
		}
		if count != t.count {
			panic(fmt.Sprintf("invariant failed: found %d nodes, but count is %d\n%s",
				count, t.count, t.debugString()))
		}
	}
}

func (t *Table[K]) debugString() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "slots=%d  count=%d  allocated=%t\n", t.slots, t.count, t.table != nil)
	for i, head := range t.table {
		if head == nil {
			continue
		}
		fmt.Fprintf(&buf, "  %4d:", i)
		for n := head; n != nil; n = n.next {
			fmt.Fprintf(&buf, " %v[%#x]", t.funcs.Key(n), n.hash)
		}
		buf.WriteString("\n")
	}
	return buf.String()
}
