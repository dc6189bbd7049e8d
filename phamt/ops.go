// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phamt

// getNode descends the trie looking for key, whose hash is hash. level is
// the branch level about to be consulted (branches occupy levels
// 0..maxDepth-1; children at maxDepth are always leaves or buckets).
func getNode(n node, hash uint32, level int, key string) (uint64, bool) {
	switch v := n.(type) {
	case nil:
		return 0, false
	case *leafNode:
		if v.key == key {
			return v.value, true
		}
		return 0, false
	case *bucketNode:
		for _, l := range v.leaves {
			if l.key == key {
				return l.value, true
			}
		}
		return 0, false
	case *branchNode:
		idx := chunk(hash, level)
		bit, pos, present := v.slotFor(idx)
		if !present {
			return 0, false
		}
		return getNode(v.children[pos], hash, level+1, key)
	default:
		panic("phamt: unknown node kind")
	}
}

// putBranch inserts or updates key/value in b, which sits at level, and
// returns the (possibly identical, possibly newly allocated) branch that
// should replace b in its parent.
func putBranch(b *branchNode, gen uint64, hash uint32, level int, key string, value uint64) *branchNode {
	idx := chunk(hash, level)
	bit, pos, present := b.slotFor(idx)
	if !present {
		return b.withInserted(gen, bit, pos, &leafNode{gen: gen, key: key, value: value})
	}
	child := putChild(b.children[pos], gen, hash, level+1, key, value)
	return b.withReplaced(gen, pos, child)
}

// putChild inserts or updates key/value below a child found at level
// (level is the level the child itself occupies, i.e. parent's level+1).
func putChild(n node, gen uint64, hash uint32, level int, key string, value uint64) node {
	switch v := n.(type) {
	case *leafNode:
		if v.key == key {
			if v.owned(gen) {
				v.value = value
				return v
			}
			return &leafNode{gen: gen, key: key, value: value}
		}
		// Different key, same slot: grow the tree until the hashes
		// diverge, or bucket them together if we've run out of bits.
		oldHash := hashKey(v.key)
		newLeaf := &leafNode{gen: gen, key: key, value: value}
		return newPair(gen, level, oldHash, v, hash, newLeaf)
	case *bucketNode:
		return putBucket(v, gen, key, value)
	case *branchNode:
		return putBranch(v, gen, hash, level, key, value)
	default:
		panic("phamt: unknown node kind")
	}
}

func (l *leafNode) owned(gen uint64) bool { return l.gen == gen }

func putBucket(bk *bucketNode, gen uint64, key string, value uint64) *bucketNode {
	for i, l := range bk.leaves {
		if l.key == key {
			leaves := bk.leaves
			if !bk.owned(gen) {
				leaves = append([]*leafNode(nil), bk.leaves...)
			}
			leaves[i] = &leafNode{gen: gen, key: key, value: value}
			if bk.owned(gen) {
				bk.leaves = leaves
				return bk
			}
			return &bucketNode{gen: gen, leaves: leaves}
		}
	}
	newLeaf := &leafNode{gen: gen, key: key, value: value}
	if bk.owned(gen) {
		bk.leaves = append(bk.leaves, newLeaf)
		return bk
	}
	leaves := make([]*leafNode, len(bk.leaves)+1)
	copy(leaves, bk.leaves)
	leaves[len(bk.leaves)] = newLeaf
	return &bucketNode{gen: gen, leaves: leaves}
}

func (bk *bucketNode) owned(gen uint64) bool { return bk.gen == gen }

// removeBranch removes key from b (at level) if present. ok reports
// whether anything was removed; when ok is false, b is returned unchanged.
func removeBranch(b *branchNode, gen uint64, hash uint32, level int, key string) (out *branchNode, ok bool) {
	idx := chunk(hash, level)
	bit, pos, present := b.slotFor(idx)
	if !present {
		return b, false
	}
	newChild, removed := removeChildNode(b.children[pos], gen, hash, level+1, key)
	if !removed {
		return b, false
	}
	if newChild == nil {
		return b.withRemoved(gen, bit, pos), true
	}
	return b.withReplaced(gen, pos, newChild), true
}

// removeChildNode removes key from the subtree rooted at n (occupying
// level). It returns the replacement node (nil if the subtree became
// empty) and whether a key was actually removed.
func removeChildNode(n node, gen uint64, hash uint32, level int, key string) (node, bool) {
	switch v := n.(type) {
	case nil:
		return nil, false
	case *leafNode:
		if v.key != key {
			return v, false
		}
		return nil, true
	case *bucketNode:
		for i, l := range v.leaves {
			if l.key != key {
				continue
			}
			remaining := make([]*leafNode, 0, len(v.leaves)-1)
			remaining = append(remaining, v.leaves[:i]...)
			remaining = append(remaining, v.leaves[i+1:]...)
			switch len(remaining) {
			case 0:
				return nil, true
			case 1:
				// A bucket only exists to hold a full 30-bit
				// collision; once just one leaf is left it
				// collapses back to a plain leaf.
				return remaining[0], true
			default:
				return &bucketNode{gen: gen, leaves: remaining}, true
			}
		}
		return v, false
	case *branchNode:
		newBranch, removed := removeBranch(v, gen, hash, level, key)
		if !removed {
			return v, false
		}
		if len(newBranch.children) == 0 {
			// Non-root branches with no children collapse away.
			// (The root is never reached through this path: it
			// is only ever addressed directly by Trie.Remove.)
			return nil, true
		}
		return newBranch, true
	default:
		panic("phamt: unknown node kind")
	}
}

// iterateNode enumerates every (key, value) pair reachable from n, calling
// fn for each. It stops early if fn returns false.
func iterateNode(n node, fn func(key string, value uint64) bool) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *leafNode:
		return fn(v.key, v.value)
	case *bucketNode:
		for _, l := range v.leaves {
			if !fn(l.key, l.value) {
				return false
			}
		}
		return true
	case *branchNode:
		for _, child := range v.children {
			if !iterateNode(child, fn) {
				return false
			}
		}
		return true
	default:
		panic("phamt: unknown node kind")
	}
}

func countNode(n node) int {
	switch v := n.(type) {
	case nil:
		return 0
	case *leafNode:
		return 1
	case *bucketNode:
		return len(v.leaves)
	case *branchNode:
		total := 0
		for _, child := range v.children {
			total += countNode(child)
		}
		return total
	default:
		panic("phamt: unknown node kind")
	}
}
