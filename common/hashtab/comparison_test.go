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

import (
	"testing"

	"github.com/alphadose/haxmap"
	"github.com/cornelk/hashmap"
)

// Compares against https://github.com/cornelk/hashmap and
// https://github.com/alphadose/haxmap. Both are concurrent maps, so they
// pay for synchronization this single-owner table does not need; the
// comparison bounds what that synchronization costs at symbol-table sizes.

const benchmarkItemCount = 1024

func setupCornelk(b *testing.B) *hashmap.Map[int64, int64] {
	b.Helper()

	m := hashmap.New[int64, int64]()
	for i := int64(0); i < benchmarkItemCount; i++ {
		m.Set(i, i)
	}
	return m
}

func setupHaxMap(b *testing.B) *haxmap.Map[int64, int64] {
	b.Helper()

	m := haxmap.New[int64, int64]()
	for i := int64(0); i < benchmarkItemCount; i++ {
		m.Set(i, i)
	}
	return m
}

func setupTable(b *testing.B) (*Table[int64], []intEntry) {
	b.Helper()

	return fillTable(benchmarkItemCount)
}

func BenchmarkCmpReadCornelk(b *testing.B) {
	m := setupCornelk(b)
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		for i := int64(0); i < benchmarkItemCount; i++ {
			j, _ := m.Get(i)
			if j != i {
				b.Fail()
			}
		}
	}
}

func BenchmarkCmpReadHaxMap(b *testing.B) {
	m := setupHaxMap(b)
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		for i := int64(0); i < benchmarkItemCount; i++ {
			j, _ := m.Get(i)
			if j != i {
				b.Fail()
			}
		}
	}
}

func BenchmarkCmpReadTable(b *testing.B) {
	tab, _ := setupTable(b)
	defer tab.Close()
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		for i := int64(0); i < benchmarkItemCount; i++ {
			e := FindEntry[intEntry](tab, i)
			if e == nil || e.key != i {
				b.Fail()
			}
		}
	}
}

func BenchmarkCmpWriteCornelk(b *testing.B) {
	m := hashmap.New[int64, int64]()
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		for i := int64(0); i < benchmarkItemCount; i++ {
			m.Set(i, i)
		}
	}
}

func BenchmarkCmpWriteHaxMap(b *testing.B) {
	m := haxmap.New[int64, int64]()
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		for i := int64(0); i < benchmarkItemCount; i++ {
			m.Set(i, i)
		}
	}
}

func BenchmarkCmpWriteTable(b *testing.B) {
	tab := New(benchmarkItemCount, intFuncs)
	defer tab.Close()
	entries := make([]intEntry, benchmarkItemCount)
	for i := range entries {
		entries[i].key = int64(i)
	}
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		for i := range entries {
			tab.Insert(&entries[i].node)
		}
		for i := range entries {
			tab.Remove(&entries[i].node)
		}
	}
}
