// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tracefile is a streaming decoder for altrace binary trace logs:
// the tagged, length-prefixed record stream a capture shim writes while a
// program issues AL/ALC calls (see spec.md §4.2 and §6).
//
// Decoding starts with a call to Process, which walks the tagged record
// stream and dispatches each decoded event to a Visitor. Unlike
// github.com/icculus/altrace/phamt, which a caller holds onto across an
// entire run, the decoder's state only lives for the duration of one pass
// over a trace; callers interested in the state of the traced program
// after any given call should look at github.com/icculus/altrace/playback
// instead, which builds exactly that out of the events this package
// produces.
package tracefile // import "github.com/icculus/altrace/tracefile"
