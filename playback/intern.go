// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package playback

// stringTable interns string values written into the state trie (spec.md
// §4.3: "Strings are stored elsewhere in an intern table; the value is
// the intern id"). Grounded on altrace_common.c's stringcache, which
// exists there for the same reason: avoid storing and comparing the same
// specifier/extension/label string text repeatedly. Go's string type is
// already immutable and cheap to compare, so the interning win here is
// narrower than the original's — mainly giving the trie a stable uint64
// to hold for a string-valued key — but the id/lookup shape is kept for
// fidelity with how callers expect string-valued keys to resolve.
type stringTable struct {
	ids     map[string]uint64
	strings []string
}

func newStringTable() *stringTable {
	// id 0 is reserved to mean "no string interned"; a real id is
	// always >= 1, so a zero trie value at a string-valued key reads
	// unambiguously as absent rather than as interned string 0.
	return &stringTable{ids: make(map[string]uint64), strings: []string{""}}
}

// intern returns s's id, assigning a new one on first use.
func (t *stringTable) intern(s string) uint64 {
	if id, ok := t.ids[s]; ok {
		return id
	}
	id := uint64(len(t.strings))
	t.strings = append(t.strings, s)
	t.ids[s] = id
	return id
}

// lookup returns the string for a previously interned id.
func (t *stringTable) lookup(id uint64) (string, bool) {
	if id == 0 || id >= uint64(len(t.strings)) {
		return "", false
	}
	return t.strings[id], true
}
