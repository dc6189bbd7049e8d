// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracefile

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// traceBuilder assembles synthetic trace byte streams for tests, writing
// the same little-endian, length-prefixed encodings bufdecoder.go reads.
type traceBuilder struct {
	buf bytes.Buffer
}

func (b *traceBuilder) u16(v uint16) *traceBuilder {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.buf.Write(tmp[:])
	return b
}

func (b *traceBuilder) u32(v uint32) *traceBuilder {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf.Write(tmp[:])
	return b
}

func (b *traceBuilder) u64(v uint64) *traceBuilder {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.buf.Write(tmp[:])
	return b
}

func (b *traceBuilder) str(s string) *traceBuilder {
	b.u32(uint32(len(s)))
	b.buf.WriteString(s)
	return b
}

func (b *traceBuilder) header(appname string) *traceBuilder {
	return b.u32(Magic).u32(FormatVersion).str(appname)
}

// callerInfo writes a caller-info prefix with no callstack frames.
func (b *traceBuilder) callerInfo(tid uint64, timestamp, scope uint32) *traceBuilder {
	return b.u64(tid).u32(timestamp).u32(scope).u32(0)
}

// eos writes a well-formed EOS record: spec.md §6 gives it an empty
// payload, so this is just the bare tag.
func (b *traceBuilder) eos() *traceBuilder {
	return b.u16(uint16(TagEOS))
}

type recordedCall struct {
	info CallerInfo
	call Call
}

type recordingVisitor struct {
	calls     []recordedCall
	alErrors  []uint32
	eosOkay   bool
	eosReason string
	sawEOS    bool
}

func (v *recordingVisitor) Call(info CallerInfo, call *Call) {
	v.calls = append(v.calls, recordedCall{info: info, call: *call})
}
func (v *recordingVisitor) ALErrorTriggered(errcode uint32)    { v.alErrors = append(v.alErrors, errcode) }
func (v *recordingVisitor) ALCErrorTriggered(uint64, uint32)   {}
func (v *recordingVisitor) NewCallstackSyms(map[uint64]string) {}
func (v *recordingVisitor) StateChanged(StateChange)           {}
func (v *recordingVisitor) EOS(okay bool, reason string) {
	v.sawEOS = true
	v.eosOkay = okay
	v.eosReason = reason
}
func (v *recordingVisitor) Progress(int64, int64) bool { return true }

func TestProcessWellFormedTrace(t *testing.T) {
	var b traceBuilder
	b.header("testapp")

	// alGenSources(n=2) -> [source 7, source 8]
	b.u16(uint16(entryPointTagBase + 9))
	b.callerInfo(100, 1000, 0)
	b.u64(2) // n (size)
	b.u32(2) // array count for sources
	b.u32(7)
	b.u32(8)

	b.eos()

	v := &recordingVisitor{}
	res, err := Process(&b.buf, v)
	require.NoError(t, err)
	require.Equal(t, ResultOK, res)
	require.True(t, v.sawEOS)
	require.True(t, v.eosOkay)

	require.Len(t, v.calls, 1)
	got := v.calls[0]
	require.Equal(t, "alGenSources", got.call.Name)
	require.Equal(t, uint32(0), got.info.ThreadID)
	require.Len(t, got.call.Rets, 2)
	require.Equal(t, SourceName(7), got.call.Rets[0].SourceName())
	require.Equal(t, SourceName(8), got.call.Rets[1].SourceName())
}

func TestProcessBadMagic(t *testing.T) {
	var b traceBuilder
	b.u32(0xdeadbeef).u32(FormatVersion).str("x")

	v := &recordingVisitor{}
	res, err := Process(&b.buf, v)
	require.Error(t, err)
	require.Equal(t, ResultFailed, res)
}

func TestProcessTruncatedStream(t *testing.T) {
	var b traceBuilder
	b.header("testapp")
	// stream ends with no EOS record at all.

	v := &recordingVisitor{}
	res, err := Process(&b.buf, v)
	require.NoError(t, err)
	require.Equal(t, ResultFailed, res)
	require.True(t, v.sawEOS)
	require.False(t, v.eosOkay)
}

func TestProcessAbnormalEOS(t *testing.T) {
	// spec.md §6 gives EOS an empty payload, so an abnormal end (crash,
	// forced disconnect) can't be signaled by a flag inside an EOS record;
	// it shows up instead as a framing error before any EOS record is
	// reached, which Process reports via a synthetic EOS(false, ...).
	var b traceBuilder
	b.header("testapp")
	b.u16(0xFFFF) // unknown tag: no such entry point or meta record

	v := &recordingVisitor{}
	res, err := Process(&b.buf, v)
	require.NoError(t, err)
	require.Equal(t, ResultFailed, res)
	require.True(t, v.sawEOS)
	require.False(t, v.eosOkay)
	require.NotEmpty(t, v.eosReason)
}

func TestThreadIDRemapping(t *testing.T) {
	var b traceBuilder
	b.header("testapp")

	b.u16(uint16(entryPointTagBase + 8)) // alGetError
	b.callerInfo(0xAAAA000011112222, 1, 0)
	b.u32(0) // retval

	b.u16(uint16(entryPointTagBase + 8))
	b.callerInfo(0xBBBB000033334444, 2, 0)
	b.u32(0)

	b.u16(uint16(entryPointTagBase + 8))
	b.callerInfo(0xAAAA000011112222, 3, 0)
	b.u32(0)

	b.eos()

	v := &recordingVisitor{}
	_, err := Process(&b.buf, v)
	require.NoError(t, err)
	require.Len(t, v.calls, 3)
	require.Equal(t, uint32(0), v.calls[0].info.ThreadID)
	require.Equal(t, uint32(1), v.calls[1].info.ThreadID)
	require.Equal(t, uint32(0), v.calls[2].info.ThreadID)
}
