// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package phamt implements a persistent hash-array-mapped trie (PHAMT): an
// immutable map from string keys to uint64 values with structural sharing
// between snapshots.
//
// A Trie is mutated in place with Put and Remove; nodes that an earlier
// Snapshot can still reach are copied rather than changed. Snapshot captures the current state
// of a Trie in O(1) time; later mutations of the Trie never affect a
// Snapshot taken earlier. This lets a caller take one snapshot per logical
// event in a long-running process without paying O(state size) per
// snapshot.
package phamt // import "github.com/icculus/altrace/phamt"
