// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracefile

// Magic and FormatVersion identify an altrace trace log. See spec.md §6.
const (
	Magic         uint32 = 0x0104E5A1
	FormatVersion uint32 = 1
)

// EntryPointPrefixSize is the size, in bytes, of the fixed portion of an
// entry-point record's caller-info prefix before its variable-length
// callstack begins: u16 tag (2) + u64 thread_id (8) + u32 timestamp (4) +
// u32 trace_scope (4) + u32 frame_count (4) = 22, padded by the original
// recorder to a 32-byte boundary.
//
// spec.md §9 leaves open how a reader is meant to locate the PCM payload
// attached to alBufferData/alcCaptureSamples without a wire-format data
// length written ahead of it: the original tool assumed a fixed
// `record-start + 32` prefix, which only holds for shallow callstacks.
// Decoder (see decoder.go) resolves this by construction instead of by
// convention: since it decodes every preceding field byte-for-byte, it
// already knows the exact stream offset once it reaches the length-prefixed
// PCM payload, for any callstack depth. EntryPointPrefixSize is kept only
// as a documented description of the original convention's size, not as a
// value decoder.go relies on.
const EntryPointPrefixSize = 32

// An EventTag identifies the kind of record that follows a tag. The low
// tags are meta events; entryPointTagBase and above are one tag per traced
// AL/ALC entry point, laid out by entrypoints.go.
type EventTag uint16

const (
	TagEOS EventTag = iota
	TagALErrorTriggered
	TagALCErrorTriggered
	TagNewCallstackSyms
	TagDeviceStateChangedBool
	TagDeviceStateChangedInt
	TagContextStateChangedEnum
	TagContextStateChangedFloat
	TagContextStateChangedString
	TagListenerStateChangedFloatV
	TagSourceStateChangedBool
	TagSourceStateChangedEnum
	TagSourceStateChangedInt
	TagSourceStateChangedUint
	TagSourceStateChangedFloat
	TagSourceStateChangedFloat3
	TagBufferStateChangedInt

	entryPointTagBase
)

// String returns a human-readable name for well-known tags, falling back
// to the entry point table (see entrypoints.go) for traced calls.
func (t EventTag) String() string {
	switch t {
	case TagEOS:
		return "EOS"
	case TagALErrorTriggered:
		return "AL_ERROR_TRIGGERED"
	case TagALCErrorTriggered:
		return "ALC_ERROR_TRIGGERED"
	case TagNewCallstackSyms:
		return "NEW_CALLSTACK_SYMS"
	case TagDeviceStateChangedBool:
		return "DEVICE_STATE_CHANGED_BOOL"
	case TagDeviceStateChangedInt:
		return "DEVICE_STATE_CHANGED_INT"
	case TagContextStateChangedEnum:
		return "CONTEXT_STATE_CHANGED_ENUM"
	case TagContextStateChangedFloat:
		return "CONTEXT_STATE_CHANGED_FLOAT"
	case TagContextStateChangedString:
		return "CONTEXT_STATE_CHANGED_STRING"
	case TagListenerStateChangedFloatV:
		return "LISTENER_STATE_CHANGED_FLOATV"
	case TagSourceStateChangedBool:
		return "SOURCE_STATE_CHANGED_BOOL"
	case TagSourceStateChangedEnum:
		return "SOURCE_STATE_CHANGED_ENUM"
	case TagSourceStateChangedInt:
		return "SOURCE_STATE_CHANGED_INT"
	case TagSourceStateChangedUint:
		return "SOURCE_STATE_CHANGED_UINT"
	case TagSourceStateChangedFloat:
		return "SOURCE_STATE_CHANGED_FLOAT"
	case TagSourceStateChangedFloat3:
		return "SOURCE_STATE_CHANGED_FLOAT3"
	case TagBufferStateChangedInt:
		return "BUFFER_STATE_CHANGED_INT"
	}
	if ep, ok := entryPoints[t]; ok {
		return ep.Name
	}
	return "UNKNOWN"
}

// nullStringLen is the length-prefix sentinel spec.md §6 reserves for a
// null string pointer.
const nullStringLen uint32 = 0xFFFFFFFF
