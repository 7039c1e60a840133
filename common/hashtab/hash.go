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

import "github.com/cespare/xxhash/v2"

// HashString hashes an identifier string. Identifiers are the dominant
// key type in the toolchain's tables, so callers assembling a Funcs for a
// string-keyed table normally use this rather than rolling their own
// mixer. xxhash is stable across processes, which keeps hash-dependent
// chain layouts reproducible between runs.
func HashString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// HashBytes is HashString for a byte slice key.
func HashBytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// StringFuncs assembles the capability set for a string-keyed table. The
// caller supplies only key extraction; hashing and equality use the
// defaults above.
func StringFuncs(key func(n *Node) string) *Funcs[string] {
	return &Funcs[string]{
		Hash:  HashString,
		Key:   key,
		Equal: func(a, b string) bool { return a == b },
	}
}
