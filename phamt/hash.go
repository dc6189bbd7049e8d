// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phamt

// maxDepth is the number of 5-bit chunks consumed out of the 30-bit hash
// before a full collision forces a bucket node. 6 chunks of 5 bits cover
// all 30 bits retained from hashKey.
const maxDepth = 6

// chunkBits is the width, in bits, of the sparse index consumed at each
// level of the trie. A branch's bitmap therefore has 1<<chunkBits slots.
const chunkBits = 5

// hashKey hashes a key the same way the original C implementation does: a
// DJBx33-family byte-wise multiply-xor, seeded with 5381. The top two bits
// of the 32-bit result are discarded, leaving 30 bits: six 5-bit chunks,
// one per trie level from the root down to the maximum depth.
func hashKey(key string) uint32 {
	var h uint32 = 5381
	for i := 0; i < len(key); i++ {
		h = ((h << 5) + h) ^ uint32(key[i])
	}
	return h & 0x3fffffff
}

// chunk extracts the 5-bit sparse index used at trie depth (0-based).
func chunk(hash uint32, depth int) uint32 {
	return (hash >> (uint(depth) * chunkBits)) & 0x1f
}
