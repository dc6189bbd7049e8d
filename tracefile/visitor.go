// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracefile

// A CallstackFrame is one instruction-pointer/symbol pair captured at a
// traced call site. Sym is filled in when the record is decoded, from the
// NEW_CALLSTACK_SYMS records read before it (see symbolize.go); it stays
// empty if no symbol for IP had arrived by then, and is not filled in
// later.
type CallstackFrame struct {
	IP  uint64
	Sym string
}

// CallerInfo carries the fields every entry-point record shares, ahead of
// its tag-specific Args/Rets (spec.md §4.2, §6).
type CallerInfo struct {
	// ThreadID has already been remapped from the wide thread identifier
	// on the wire to a small sequential int (spec.md §4.2); see
	// decoder.go's remapThread.
	ThreadID uint32

	Timestamp  uint32
	TraceScope uint32
	Callstack  []CallstackFrame

	// FileOffset is the byte offset of the record's tag within the
	// trace stream, preserved on ApiCallRecord per spec.md §3.
	FileOffset int64
}

// A Call is one decoded traced entry-point invocation: its name, its
// positional arguments and return values, and — for the two AL calls that
// carry an opaque PCM payload (alBufferData, alcCaptureSamples) — where
// that payload lives in the trace file rather than a copy of it.
type Call struct {
	Tag  EventTag
	Name string
	Args []ArgValue
	Rets []ArgValue

	// PCMOffset and PCMLen locate an opaque audio payload attached to
	// this call (spec.md §3's "opaque PCM blob, referenced by file
	// offset, not interpreted"). PCMLen is 0 when the call carries no
	// such payload.
	PCMOffset int64
	PCMLen    uint32
}

// StateTarget identifies which kind of object a StateChanged event
// mutated.
type StateTarget int

const (
	TargetDevice StateTarget = iota
	TargetContext
	TargetListener
	TargetSource
	TargetBuffer
)

// A StateChange is a decoded `*_STATE_CHANGED_*` meta event: a value the
// recorded program queried or was notified of changing out from under its
// own explicit set call (spec.md §4.2's "implicit state changes").
type StateChange struct {
	Tag    EventTag
	Target StateTarget

	// Handle is the device/context/source/buffer handle this change
	// applies to, reinterpreted according to Target. It is zero for
	// TargetListener, which has no handle of its own.
	Handle uint64

	Param  uint32
	Values []ArgValue
}

// Result reports how a Process pass over a trace ended.
type Result int

const (
	// ResultOK means the stream ended in a well-formed EOS(okay=true)
	// record.
	ResultOK Result = iota

	// ResultCancelled means a Visitor's Progress method returned false,
	// stopping the pass before EOS.
	ResultCancelled

	// ResultFailed means the stream ended in EOS(okay=false), or ended
	// without any EOS record at all (spec.md §7's "truncated file").
	ResultFailed
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultCancelled:
		return "cancelled"
	case ResultFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// A Visitor receives decoded trace events in file order. Process calls
// exactly one method per record; entry-point records all funnel through
// Call rather than one method per AL/ALC function; see entrypoints.go for
// why that collapse is safe.
type Visitor interface {
	// Call is invoked for every traced AL/ALC entry point, in the order
	// they appear in the trace.
	Call(info CallerInfo, call *Call)

	// ALErrorTriggered and ALCErrorTriggered report that the previous
	// Call caused AL or ALC to latch a new error code, distinct from
	// that call's own return value (spec.md §4.3's
	// generated_al_error/generated_alc_error classification signal).
	ALErrorTriggered(errcode uint32)
	ALCErrorTriggered(device uint64, errcode uint32)

	// NewCallstackSyms reports newly resolved instruction-pointer to
	// symbol-name mappings, applied to callstacks in later records.
	NewCallstackSyms(syms map[uint64]string)

	// StateChanged reports an implicit state change not attributable to
	// the immediately preceding Call's explicit arguments.
	StateChanged(change StateChange)

	// EOS reports that decoding has stopped. The EOS record itself carries
	// no payload (spec.md §6); okay and reason are derived by Process from
	// whether the stream reached that record cleanly. okay is false for a
	// trace that ended abnormally (a bad or unreadable header, truncated
	// mid-record, an unreadable field, an unknown tag) before any EOS
	// record was read; reason then
	// carries a diagnostic description of what went wrong.
	EOS(okay bool, reason string)

	// Progress is called periodically as bytes are consumed, giving the
	// caller a chance to report progress or cancel by returning false.
	// A Visitor that does not care about either can always return true.
	Progress(bytesRead, bytesTotal int64) bool
}
