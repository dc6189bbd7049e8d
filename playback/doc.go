// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package playback turns decoded trace events into a navigable history of
// AL/ALC state (spec.md §4.3, §4.4).
//
// StateBuilder implements tracefile.Visitor, maintaining a mutable
// phamt.Trie of current AL state and appending one ApiCallRecord to a
// Store per traced call. Each ApiCallRecord carries a phamt.Snapshot
// captured immediately after all of that call's induced state changes —
// including any `*_STATE_CHANGED_*` meta events the decoder reports
// before the next call — so a caller can ask "what did the world look
// like right after call N?" for any N without replaying the trace again.
package playback // import "github.com/icculus/altrace/playback"
