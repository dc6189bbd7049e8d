// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phamt

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// findCollision brute-forces two distinct keys whose hashKey values are
// identical, so tests can exercise the bucket-node path (spec.md §8 item
// 5) without depending on any particular known collision of the DJBx33
// variant hash.
func findCollision(t *testing.T) (string, string) {
	t.Helper()
	seen := make(map[uint32]string)
	for i := 0; i < 1_000_000; i++ {
		k := fmt.Sprintf("key-%d", i)
		h := hashKey(k)
		if other, ok := seen[h]; ok {
			return other, k
		}
		seen[h] = k
	}
	t.Fatal("no collision found in search space")
	return "", ""
}

// TestPutGetRoundTrip is spec.md §8 item 3.
func TestPutGetRoundTrip(t *testing.T) {
	tr := New()
	tr.Put("global://numdevices", 1)
	v, ok := tr.Get("global://numdevices")
	require.True(t, ok)
	require.Equal(t, uint64(1), v)
}

// TestGetAbsent confirms a fresh trie has nothing in it.
func TestGetAbsent(t *testing.T) {
	tr := New()
	_, ok := tr.Get("nope")
	require.False(t, ok)
}

// TestPutRemoveGetAbsent is spec.md §8 item 4.
func TestPutRemoveGetAbsent(t *testing.T) {
	tr := New()
	tr.Put("k", 42)
	tr.Remove("k")
	_, ok := tr.Get("k")
	require.False(t, ok)
}

// TestRemoveAbsentIsNoop exercises spec.md §4.3's "the builder never fails
// on ill-formed semantic state" at the trie layer: removing a key that was
// never present must not panic or disturb other keys.
func TestRemoveAbsentIsNoop(t *testing.T) {
	tr := New()
	tr.Put("a", 1)
	tr.Remove("does-not-exist")
	v, ok := tr.Get("a")
	require.True(t, ok)
	require.Equal(t, uint64(1), v)
}

// TestSnapshotImmutability is spec.md §8 items 1 and 2: a snapshot sees
// exactly the puts that preceded it, and later mutation of the trie never
// changes what an already-exported snapshot reports.
func TestSnapshotImmutability(t *testing.T) {
	tr := New()
	tr.Put("a", 1)
	s1 := tr.Snapshot()

	tr.Put("a", 2)
	tr.Put("b", 10)
	s2 := tr.Snapshot()

	tr.Remove("a")
	tr.Put("c", 100)

	v, ok := s1.Get("a")
	require.True(t, ok)
	require.Equal(t, uint64(1), v)
	_, ok = s1.Get("b")
	require.False(t, ok)
	_, ok = s1.Get("c")
	require.False(t, ok)

	v, ok = s2.Get("a")
	require.True(t, ok)
	require.Equal(t, uint64(2), v)
	v, ok = s2.Get("b")
	require.True(t, ok)
	require.Equal(t, uint64(10), v)
	_, ok = s2.Get("c")
	require.False(t, ok)

	// Current state reflects every mutation, including the ones after s2.
	_, ok = tr.Get("a")
	require.False(t, ok)
	v, ok = tr.Get("c")
	require.True(t, ok)
	require.Equal(t, uint64(100), v)
}

// TestSnapshotSequence is spec.md §8 item 1 stated more generally: for a
// longer sequence of put/remove/snapshot operations, every snapshot must
// report the last put preceding it that wasn't followed by a remove.
func TestSnapshotSequence(t *testing.T) {
	tr := New()
	type op struct {
		key      string
		value    uint64
		remove   bool
		snapshot bool
	}
	ops := []op{
		{key: "x", value: 1},
		{key: "y", value: 2},
		{snapshot: true},
		{key: "x", value: 3},
		{key: "y", remove: true},
		{snapshot: true},
		{key: "z", value: 9},
		{key: "x", remove: true},
		{snapshot: true},
	}

	expected := map[string]uint64{}
	present := map[string]bool{}
	var snaps []Snapshot
	var wants []map[string]uint64

	for _, o := range ops {
		switch {
		case o.remove:
			tr.Remove(o.key)
			delete(present, o.key)
		case o.snapshot:
			snaps = append(snaps, tr.Snapshot())
			want := make(map[string]uint64, len(expected))
			for k := range present {
				want[k] = expected[k]
			}
			wants = append(wants, want)
		default:
			tr.Put(o.key, o.value)
			expected[o.key] = o.value
			present[o.key] = true
		}
	}

	for i, snap := range snaps {
		for _, k := range []string{"x", "y", "z"} {
			want, ok := wants[i][k]
			got, gotOk := snap.Get(k)
			require.Equal(t, ok, gotOk, "snapshot %d key %q presence", i, k)
			if ok {
				require.Equal(t, want, got, "snapshot %d key %q value", i, k)
			}
		}
	}
}

// TestBucketCollision is spec.md §8 item 5: two keys whose hashes collide
// in all 30 bits both round-trip correctly via the bucket-node path.
func TestBucketCollision(t *testing.T) {
	k1, k2 := findCollision(t)
	require.Equal(t, hashKey(k1), hashKey(k2))

	tr := New()
	tr.Put(k1, 111)
	tr.Put(k2, 222)

	v1, ok := tr.Get(k1)
	require.True(t, ok)
	require.Equal(t, uint64(111), v1)
	v2, ok := tr.Get(k2)
	require.True(t, ok)
	require.Equal(t, uint64(222), v2)

	snap := tr.Snapshot()
	tr.Remove(k1)
	_, ok = tr.Get(k1)
	require.False(t, ok)
	v2, ok = tr.Get(k2)
	require.True(t, ok)
	require.Equal(t, uint64(222), v2)

	// The snapshot taken before the removal must still see both.
	v1, ok = snap.Get(k1)
	require.True(t, ok)
	require.Equal(t, uint64(111), v1)
	v2, ok = snap.Get(k2)
	require.True(t, ok)
	require.Equal(t, uint64(222), v2)

	tr.Remove(k2)
	require.Equal(t, 0, tr.Count())
}

// TestSnapshotIsCheap is spec.md §8 item 6: Snapshot must not walk or copy
// the tree. We can't measure allocator counters portably, but we can
// confirm it never touches node contents by snapshotting a large trie and
// checking the root pointer is shared between trie and snapshot until the
// next mutation forces a clone.
func TestSnapshotIsCheap(t *testing.T) {
	tr := New()
	for i := 0; i < 1000; i++ {
		tr.Put(fmt.Sprintf("k%d", i), uint64(i))
	}
	before := tr.root
	snap := tr.Snapshot()
	require.Same(t, before, snap.root)

	// A put after the snapshot must not mutate any node the snapshot
	// still points to.
	tr.Put("k0", 999999)
	v, ok := snap.Get("k0")
	require.True(t, ok)
	require.Equal(t, uint64(0), v)
	v, ok = tr.Get("k0")
	require.True(t, ok)
	require.Equal(t, uint64(999999), v)
}

// TestIterateVisitsEverything checks that Iterate enumerates exactly the
// live key set, including after removals and across a bucket collision.
func TestIterateVisitsEverything(t *testing.T) {
	tr := New()
	want := map[string]uint64{}
	for i := 0; i < 200; i++ {
		k := fmt.Sprintf("item-%d", i)
		tr.Put(k, uint64(i))
		want[k] = uint64(i)
	}
	k1, k2 := findCollision(t)
	tr.Put(k1, 1)
	tr.Put(k2, 2)
	want[k1], want[k2] = 1, 2

	tr.Remove("item-5")
	delete(want, "item-5")

	got := map[string]uint64{}
	tr.Iterate(func(key string, value uint64) bool {
		got[key] = value
		return true
	})
	require.Equal(t, want, got)
	require.Equal(t, len(want), tr.Count())
}

// TestIterateStopsEarly confirms Iterate honors a false return from fn.
func TestIterateStopsEarly(t *testing.T) {
	tr := New()
	for i := 0; i < 50; i++ {
		tr.Put(fmt.Sprintf("k%d", i), uint64(i))
	}
	n := 0
	tr.Iterate(func(key string, value uint64) bool {
		n++
		return n < 5
	})
	require.Equal(t, 5, n)
}

// TestHashKeyChunks confirms the chunk extraction matches spec.md §4.1: six
// 5-bit chunks consumed from the low end of a 30-bit hash.
func TestHashKeyChunks(t *testing.T) {
	h := hashKey("some/state/path")
	require.Zero(t, h>>30, "top two bits must be discarded")
	var rebuilt uint32
	for level := maxDepth - 1; level >= 0; level-- {
		rebuilt = (rebuilt << chunkBits) | chunk(h, level)
	}
	require.Equal(t, h, rebuilt)
}
