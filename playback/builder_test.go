// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package playback

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/icculus/altrace/tracefile"
)

func info() tracefile.CallerInfo { return tracefile.CallerInfo{} }

func TestStateBuilderScenario(t *testing.T) {
	b := NewStateBuilder()

	// call 1: open_device("hw:0") -> D1
	b.Call(info(), &tracefile.Call{
		Name: "alcOpenDevice",
		Args: []tracefile.ArgValue{tracefile.StringValue("devicename", "hw:0")},
		Rets: []tracefile.ArgValue{tracefile.DeviceValue("device", 1)},
	})
	snap1 := b.Store().At(0)
	require.False(t, snap1.ReportedFailure)

	// call 2: create_context(D1, []) -> C1
	b.Call(info(), &tracefile.Call{
		Name: "alcCreateContext",
		Args: []tracefile.ArgValue{tracefile.DeviceValue("device", 1)},
		Rets: []tracefile.ArgValue{tracefile.ContextValue("context", 1)},
	})

	// call 3: make_current(C1)
	b.Call(info(), &tracefile.Call{
		Name: "alcMakeContextCurrent",
		Args: []tracefile.ArgValue{tracefile.ContextValue("context", 1)},
	})

	// call 4: gen_sources(1) -> [42]
	b.Call(info(), &tracefile.Call{
		Name: "alGenSources",
		Args: []tracefile.ArgValue{tracefile.SizeValue("n", 1)},
		Rets: []tracefile.ArgValue{tracefile.SourceNameValue("sources", 42)},
	})

	// call 5: source_f(42, AL_PITCH, 2.0)
	b.Call(info(), &tracefile.Call{
		Name: "alSourcef",
		Args: []tracefile.ArgValue{
			tracefile.SourceNameValue("source", 42),
			tracefile.EnumValue("param", alPitch),
			tracefile.FloatValue("value", 2.0),
		},
	})
	b.StateChanged(tracefile.StateChange{
		Target: tracefile.TargetSource,
		Handle: 42,
		Param:  alPitch,
		Values: []tracefile.ArgValue{tracefile.FloatValue("value", 2.0)},
	})

	b.EOS(true, "")

	store := b.Store()
	require.Equal(t, 5, store.Len())

	s1 := store.At(0).Snapshot()
	nd, ok := s1.Get(globalKey("numdevices"))
	require.True(t, ok)
	require.Equal(t, uint64(1), nd)
	dev0, ok := s1.Get(numberedGlobalKey("device", 0))
	require.True(t, ok)
	require.Equal(t, uint64(1), dev0)
	devtype, ok := s1.Get(deviceKey(1, "devtype"))
	require.True(t, ok)
	require.Equal(t, uint64(0), devtype)

	s3 := store.At(2).Snapshot()
	cur, ok := s3.Get(globalKey("current_context"))
	require.True(t, ok)
	require.Equal(t, uint64(1), cur)

	s4 := store.At(3).Snapshot()
	numsrc, ok := s4.Get(contextKey(1, "numsources"))
	require.True(t, ok)
	require.Equal(t, uint64(1), numsrc)
	alloc, ok := s4.Get(sourceKey(1, 42, "allocated"))
	require.True(t, ok)
	require.Equal(t, uint64(1), alloc)

	rec5 := store.At(4)
	require.False(t, rec5.InefficientStateChange, "cleared by the matching SOURCE_STATE_CHANGED_FLOAT meta event")
	s5 := rec5.Snapshot()
	pitch, ok := s5.Get(sourceKey(1, 42, "AL_PITCH"))
	require.True(t, ok)
	require.Equal(t, tracefile.FloatValue("", 2.0).Raw(), pitch)
}

func TestMakeCurrentInefficientOnRepeat(t *testing.T) {
	b := NewStateBuilder()
	b.Call(info(), &tracefile.Call{
		Name: "alcMakeContextCurrent",
		Args: []tracefile.ArgValue{tracefile.ContextValue("context", 9)},
	})
	b.Call(info(), &tracefile.Call{
		Name: "alcMakeContextCurrent",
		Args: []tracefile.ArgValue{tracefile.ContextValue("context", 9)},
	})
	b.EOS(true, "")

	require.False(t, b.Store().At(0).InefficientStateChange)
	require.True(t, b.Store().At(1).InefficientStateChange)
}

func TestGetErrorNoErrorIsInefficient(t *testing.T) {
	b := NewStateBuilder()
	b.Call(info(), &tracefile.Call{
		Name: "alcMakeContextCurrent",
		Args: []tracefile.ArgValue{tracefile.ContextValue("context", 1)},
	})
	b.Call(info(), &tracefile.Call{
		Name: "alGetError",
		Rets: []tracefile.ArgValue{tracefile.EnumValue("retval", 0)},
	})
	b.EOS(true, "")

	require.True(t, b.Store().At(1).InefficientStateChange)
}

func TestOpenDeviceNullHandleIsFailure(t *testing.T) {
	b := NewStateBuilder()
	b.Call(info(), &tracefile.Call{
		Name: "alcOpenDevice",
		Args: []tracefile.ArgValue{tracefile.StringValue("devicename", "hw:0")},
		Rets: []tracefile.ArgValue{tracefile.DeviceValue("device", 0)},
	})
	b.EOS(true, "")

	rec := b.Store().At(0)
	require.True(t, rec.ReportedFailure)
	_, ok := rec.Snapshot().Get(globalKey("numdevices"))
	require.False(t, ok, "numdevices must be untouched when the returned handle is null")
}

func TestALErrorTriggeredClassification(t *testing.T) {
	b := NewStateBuilder()
	b.Call(info(), &tracefile.Call{
		Name: "alcMakeContextCurrent",
		Args: []tracefile.ArgValue{tracefile.ContextValue("context", 1)},
	})
	b.Call(info(), &tracefile.Call{
		Name: "alSourcei",
		Args: []tracefile.ArgValue{
			tracefile.SourceNameValue("source", 42),
			tracefile.EnumValue("param", 0xBAD),
			tracefile.IntValue("value", 0),
		},
	})
	const invalidEnum = 0xA002
	b.ALErrorTriggered(invalidEnum)
	b.Call(info(), &tracefile.Call{Name: "alGetError", Rets: []tracefile.ArgValue{tracefile.EnumValue("retval", invalidEnum)}})
	b.EOS(true, "")

	setCall := b.Store().At(1)
	require.Equal(t, uint32(invalidEnum), setCall.GeneratedALError)
	require.True(t, setCall.ReportedFailure)

	nextSnap := setCall.Snapshot()
	errVal, ok := nextSnap.Get(contextKey(1, "error"))
	require.True(t, ok)
	require.Equal(t, uint64(invalidEnum), errVal)
}

func TestCaptureSamplesRecordsPCMOffset(t *testing.T) {
	b := NewStateBuilder()
	b.Call(info(), &tracefile.Call{
		Name: "alcCaptureOpenDevice",
		Args: []tracefile.ArgValue{
			tracefile.StringValue("devicename", "capdev"),
			tracefile.SizeValue("frequency", 44100),
			tracefile.EnumValue("format", 0x1101),
			tracefile.SizeValue("buffersize", 4096),
		},
		Rets: []tracefile.ArgValue{tracefile.DeviceValue("device", 7)},
	})
	b.Call(info(), &tracefile.Call{
		Name: "alcCaptureStart",
		Args: []tracefile.ArgValue{tracefile.DeviceValue("device", 7)},
	})
	b.Call(info(), &tracefile.Call{
		Name:      "alcCaptureSamples",
		Args:      []tracefile.ArgValue{tracefile.DeviceValue("device", 7), tracefile.PointerValue("buffer", 0), tracefile.SizeValue("samples", 4096)},
		PCMOffset: 12345,
		PCMLen:    4096,
	})
	b.EOS(true, "")

	rec := b.Store().At(2)
	snap := rec.Snapshot()
	numcaptures, ok := snap.Get(deviceKey(7, "numcaptures"))
	require.True(t, ok)
	require.Equal(t, uint64(1), numcaptures)
	dataLen, ok := snap.Get(numberedDeviceArrayKey(7, "capturedatalen", 0))
	require.True(t, ok)
	require.Equal(t, uint64(4096), dataLen)
	dataOff, ok := snap.Get(numberedDeviceArrayKey(7, "capturedata", 0))
	require.True(t, ok)
	require.Equal(t, uint64(12345), dataOff)
}
