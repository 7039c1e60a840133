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

package hashtab

// option provides an interface to do work on a Table while it is being
// created.
type option[K any] interface {
	apply(t *Table[K])
}

// Allocator specifies an interface for allocating and releasing the
// bucket array used by a Table, the only memory a table owns. The default
// allocator utilizes Go's builtin make() and allows the GC to reclaim the
// memory.
//
// If the allocator is manually managing memory then Table.Close must be
// called in order to ensure FreeBuckets is called.
type Allocator interface {
	// AllocBuckets should return a slice equivalent to make([]*Node, n):
	// in particular, every element must be nil.
	AllocBuckets(n int) []*Node

	// FreeBuckets can optionally release the memory associated with the
	// supplied slice, which is guaranteed to have been allocated by
	// AllocBuckets.
	FreeBuckets(v []*Node)
}

type defaultAllocator struct{}

func (defaultAllocator) AllocBuckets(n int) []*Node {
	return make([]*Node, n)
}

func (defaultAllocator) FreeBuckets(v []*Node) {
}

type allocatorOption[K any] struct {
	allocator Allocator
}

func (op allocatorOption[K]) apply(t *Table[K]) {
	t.allocator = op.allocator
}

// WithAllocator is an option for specifying the Allocator to use for a
// Table[K].
func WithAllocator[K any](allocator Allocator) option[K] {
	return allocatorOption[K]{allocator}
}
