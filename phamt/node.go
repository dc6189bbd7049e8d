// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phamt

import "math/bits"

// node is implemented by branchNode, leafNode, and bucketNode: the three
// node kinds spec.md §4.1 describes. Every node records the generation at
// which it was created; a node may be mutated in place only when that
// generation matches the trie's current generation (see trie.go), which is
// the Go-native sharpening of the original's "generation matches and
// refcount==1" described in spec.md §9 — Go's garbage collector retires the
// manual refcount, but the generation check alone is not enough on its own
// (a node can be created in generation N and then immediately captured by a
// Snapshot also at generation N, in which case it must not be mutated
// afterward). We close that gap by bumping the generation on every
// Snapshot, so "same generation as the trie" always means "allocated since
// the most recent snapshot, hence unreachable from any exported Snapshot".
type node interface {
	nodeGeneration() uint64
}

// branchNode is a sparse array of up to 32 children, indexed by a 5-bit
// hash chunk. bitmap has a bit set for each occupied slot; children holds
// exactly popcount(bitmap) entries, ordered by slot index.
type branchNode struct {
	gen      uint64
	bitmap   uint32
	children []node
}

func (b *branchNode) nodeGeneration() uint64 { return b.gen }

// leafNode is a single (key, value) pair.
type leafNode struct {
	gen   uint64
	key   string
	value uint64
}

func (l *leafNode) nodeGeneration() uint64 { return l.gen }

// bucketNode holds leaves whose keys hash identically across all 30 bits
// retained by hashKey. It only ever appears at maxDepth.
type bucketNode struct {
	gen    uint64
	leaves []*leafNode
}

func (bk *bucketNode) nodeGeneration() uint64 { return bk.gen }

func newBranchNode(gen uint64) *branchNode {
	return &branchNode{gen: gen}
}

// slotFor returns the bit for sparse index idx and the position that slot
// occupies (or would occupy) within b.children.
func (b *branchNode) slotFor(idx uint32) (bit uint32, pos int, present bool) {
	bit = 1 << idx
	pos = bits.OnesCount32(b.bitmap & (bit - 1))
	present = b.bitmap&bit != 0
	return
}

// owned reports whether b may be mutated in place under the copy-on-write
// discipline: it was allocated in the trie's current generation, so no
// Snapshot can have observed it yet.
func (b *branchNode) owned(gen uint64) bool { return b.gen == gen }

// withInserted returns a branch with a new child inserted at the slot for
// bit/pos. It mutates b in place when b is owned by gen, otherwise it
// returns a new branch sharing every other child with b.
func (b *branchNode) withInserted(gen uint64, bit uint32, pos int, child node) *branchNode {
	if b.owned(gen) {
		b.bitmap |= bit
		b.children = insertChild(b.children, pos, child)
		return b
	}
	children := make([]node, len(b.children)+1)
	copy(children, b.children[:pos])
	children[pos] = child
	copy(children[pos+1:], b.children[pos:])
	return &branchNode{gen: gen, bitmap: b.bitmap | bit, children: children}
}

// withReplaced returns a branch whose child at pos is child, cloning only
// when b is not owned by gen.
func (b *branchNode) withReplaced(gen uint64, pos int, child node) *branchNode {
	if b.owned(gen) {
		b.children[pos] = child
		return b
	}
	children := make([]node, len(b.children))
	copy(children, b.children)
	children[pos] = child
	return &branchNode{gen: gen, bitmap: b.bitmap, children: children}
}

// withRemoved returns a branch with the child occupying bit/pos removed
// entirely (the slot goes back to empty, not nil-valued).
func (b *branchNode) withRemoved(gen uint64, bit uint32, pos int) *branchNode {
	if b.owned(gen) {
		b.bitmap &^= bit
		b.children = removeChild(b.children, pos)
		return b
	}
	children := make([]node, len(b.children)-1)
	copy(children, b.children[:pos])
	copy(children[pos:], b.children[pos+1:])
	return &branchNode{gen: gen, bitmap: b.bitmap &^ bit, children: children}
}

func insertChild(children []node, pos int, child node) []node {
	children = append(children, nil)
	copy(children[pos+1:], children[pos:])
	children[pos] = child
	return children
}

func removeChild(children []node, pos int) []node {
	return append(children[:pos], children[pos+1:]...)
}

// newPair builds the smallest subtree rooted at level that distinguishes
// two leaves whose 30-bit hashes agree on every chunk before level. If
// they still agree at level, it recurses one level deeper; if level has
// reached maxDepth, both hashes are fully consumed and the two leaves are
// merged into a bucket.
func newPair(gen uint64, level int, hashA uint32, leafA *leafNode, hashB uint32, leafB *leafNode) node {
	if level >= maxDepth {
		return &bucketNode{gen: gen, leaves: []*leafNode{leafA, leafB}}
	}
	idxA, idxB := chunk(hashA, level), chunk(hashB, level)
	if idxA == idxB {
		child := newPair(gen, level+1, hashA, leafA, hashB, leafB)
		return &branchNode{gen: gen, bitmap: 1 << idxA, children: []node{child}}
	}
	bitA, bitB := uint32(1)<<idxA, uint32(1)<<idxB
	children := make([]node, 2)
	if idxA < idxB {
		children[0], children[1] = leafA, leafB
	} else {
		children[0], children[1] = leafB, leafA
	}
	return &branchNode{gen: gen, bitmap: bitA | bitB, children: children}
}
