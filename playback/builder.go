// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package playback

import (
	"strconv"

	"github.com/icculus/altrace/phamt"
	"github.com/icculus/altrace/tracefile"
)

func itoa(i int) string { return strconv.Itoa(i) }

const (
	alNoError  uint32 = 0
	alcNoError uint32 = 0
)

type sourceKey struct {
	ctx  ContextHandle
	name SourceName
}

type bufferSlotKey struct {
	device DeviceHandle
	name   BufferName
}

// StateBuilder is a tracefile.Visitor that maintains a mutable trie of AL
// state and appends one ApiCallRecord to a Store per traced call (spec.md
// §4.3). Every exported field of the resulting Store and every snapshot
// it hands out comes from replaying exactly what a tracefile.Process pass
// feeds this visitor; StateBuilder never reads ahead or looks back beyond
// the one-record lag the late-snapshot rule requires.
type StateBuilder struct {
	trie    *phamt.Trie
	store   *Store
	strings *stringTable

	// last is the most recently appended record, whose snapshot has not
	// yet been finalized: spec.md §4.3 step 5 finalizes a record's
	// snapshot only when the *next* call (or EOS) arrives, so that state
	// change meta events following a call land in that call's own
	// snapshot rather than the next one.
	last *ApiCallRecord

	deviceCount        int
	deviceIndex        map[DeviceHandle]int
	deviceContextCount map[DeviceHandle]int
	contextIndex       map[ContextHandle]int
	contextDevice      map[ContextHandle]DeviceHandle
	contextSourceCount map[ContextHandle]int
	sourceIndex        map[sourceKey]int
	deviceBufferCount  map[DeviceHandle]int
	bufferIndex        map[bufferSlotKey]int

	lastOpenedDevice DeviceHandle

	haveCurrentContext bool
	currentContext     ContextHandle

	contextError      map[ContextHandle]uint32
	deviceError       map[DeviceHandle]uint32
	contextProcessing map[ContextHandle]bool
}

// NewStateBuilder returns a StateBuilder with a fresh trie and an empty
// Store.
func NewStateBuilder() *StateBuilder {
	return &StateBuilder{
		trie:               phamt.New(),
		store:              NewStore(),
		strings:            newStringTable(),
		deviceIndex:        make(map[DeviceHandle]int),
		deviceContextCount: make(map[DeviceHandle]int),
		contextIndex:       make(map[ContextHandle]int),
		contextDevice:      make(map[ContextHandle]DeviceHandle),
		contextSourceCount: make(map[ContextHandle]int),
		sourceIndex:        make(map[sourceKey]int),
		deviceBufferCount:  make(map[DeviceHandle]int),
		bufferIndex:        make(map[bufferSlotKey]int),
		contextError:       make(map[ContextHandle]uint32),
		deviceError:        make(map[DeviceHandle]uint32),
		contextProcessing:  make(map[ContextHandle]bool),
	}
}

// Store returns the Store this builder has been appending to.
func (b *StateBuilder) Store() *Store { return b.store }

// finalizeLast snapshots the trie into b.last, if there is one, and
// clears b.last so it is only ever finalized once.
func (b *StateBuilder) finalizeLast() {
	if b.last == nil {
		return
	}
	b.last.snapshot = b.trie.Snapshot()
	b.last = nil
}

// Call implements tracefile.Visitor.
func (b *StateBuilder) Call(info tracefile.CallerInfo, call *tracefile.Call) {
	b.finalizeLast()

	rec := &ApiCallRecord{
		Name:       call.Name,
		Tag:        call.Tag,
		Args:       call.Args,
		Rets:       call.Rets,
		Callstack:  info.Callstack,
		ThreadID:   info.ThreadID,
		Timestamp:  info.Timestamp,
		TraceScope: info.TraceScope,
		FileOffset: info.FileOffset,
		PCMOffset:  call.PCMOffset,
		PCMLen:     call.PCMLen,
	}
	if tentativeMutators[call.Name] {
		rec.InefficientStateChange = true
	}

	b.applyCall(rec, call)

	b.store.Append(rec)
	b.last = rec
}

// arg looks up the first argument with the given field name.
func arg(call *tracefile.Call, field string) (tracefile.ArgValue, bool) {
	for _, a := range call.Args {
		if a.Field == field {
			return a, true
		}
	}
	return tracefile.ArgValue{}, false
}

func ret(call *tracefile.Call, field string) (tracefile.ArgValue, bool) {
	for _, a := range call.Rets {
		if a.Field == field {
			return a, true
		}
	}
	return tracefile.ArgValue{}, false
}

func rets(call *tracefile.Call, field string) []tracefile.ArgValue {
	var out []tracefile.ArgValue
	for _, a := range call.Rets {
		if a.Field == field {
			out = append(out, a)
		}
	}
	return out
}

func args(call *tracefile.Call, field string) []tracefile.ArgValue {
	var out []tracefile.ArgValue
	for _, a := range call.Args {
		if a.Field == field {
			out = append(out, a)
		}
	}
	return out
}

// applyCall implements spec.md §4.3's state mutation table, one case per
// traced entry point.
func (b *StateBuilder) applyCall(rec *ApiCallRecord, call *tracefile.Call) {
	switch call.Name {
	case "alcOpenDevice", "alcCaptureOpenDevice":
		b.applyOpenDevice(rec, call)
	case "alcCloseDevice", "alcCaptureCloseDevice":
		b.applyCloseDevice(rec, call)
	case "alcCreateContext":
		b.applyCreateContext(rec, call)
	case "alcDestroyContext":
		b.applyDestroyContext(rec, call)
	case "alcMakeContextCurrent":
		b.applyMakeCurrent(rec, call)
	case "alcSuspendContext":
		b.applyToggleProcessing(rec, call, false)
	case "alcProcessContext":
		b.applyToggleProcessing(rec, call, true)
	case "alGetError":
		b.applyGetError(rec, call)
	case "alcGetError":
		b.applyGetALCError(rec, call)
	case "alcCaptureStart":
		b.applySetCapturing(rec, call, true)
	case "alcCaptureStop":
		b.applySetCapturing(rec, call, false)
	case "alGenSources":
		b.applyGenSources(rec, call)
	case "alDeleteSources":
		b.applyDeleteSources(rec, call)
	case "alGenBuffers":
		b.applyGenBuffers(rec, call)
	case "alDeleteBuffers":
		b.applyDeleteBuffers(rec, call)
	case "alBufferData":
		b.applyBufferData(rec, call)
	case "alcCaptureSamples":
		b.applyCaptureSamples(rec, call)
	case "alSourcef", "alSource3f", "alSourcei":
		b.applySourceSet(rec, call)
	case "alListenerf", "alListener3f", "alListenerfv":
		b.applyListenerSet(rec, call)
	case "alDopplerFactor":
		b.trie.Put(globalKey("AL_DOPPLER_FACTOR"), b.firstArgValue(call))
	case "alDistanceModel":
		b.trie.Put(globalKey("AL_DISTANCE_MODEL"), b.firstArgValue(call))
	}
}

func (b *StateBuilder) firstArgValue(call *tracefile.Call) uint64 {
	if len(call.Args) == 0 {
		return 0
	}
	return call.Args[0].Raw()
}

func (b *StateBuilder) applyOpenDevice(rec *ApiCallRecord, call *tracefile.Call) {
	r, ok := ret(call, "device")
	if !ok || r.Device() == 0 {
		rec.ReportedFailure = true
		return
	}
	device := r.Device()

	idx := b.deviceCount
	b.deviceCount++
	b.deviceIndex[device] = idx
	b.lastOpenedDevice = device

	b.trie.Put(globalKey("numdevices"), uintValue(uint64(b.deviceCount)))
	b.trie.Put(numberedGlobalKey("device", idx), handleValue(device))

	isCapture := call.Name == "alcCaptureOpenDevice"
	devType := uint64(0)
	if isCapture {
		devType = 1
	}
	b.trie.Put(deviceKey(device, "devtype"), devType)

	if name, ok := arg(call, "devicename"); ok && !name.IsNull {
		b.trie.Put(deviceKey(device, "openname"), b.strings.intern(name.String()))
	}

	if isCapture {
		if freq, ok := arg(call, "frequency"); ok {
			b.trie.Put(deviceKey(device, "frequency"), freq.Raw())
		}
		if format, ok := arg(call, "format"); ok {
			b.trie.Put(deviceKey(device, "format"), format.Raw())
		}
		if size, ok := arg(call, "buffersize"); ok {
			b.trie.Put(deviceKey(device, "buffersize"), size.Raw())
		}
		b.trie.Put(deviceKey(device, "capturing"), boolValue(false))
		b.trie.Put(deviceKey(device, "numcaptures"), uintValue(0))
	}
}

func (b *StateBuilder) applyCloseDevice(rec *ApiCallRecord, call *tracefile.Call) {
	a, ok := arg(call, "device")
	if !ok {
		return
	}
	device := a.Device()
	idx, ok := b.deviceIndex[device]
	if !ok {
		return
	}
	b.trie.Remove(numberedGlobalKey("device", idx))
	delete(b.deviceIndex, device)
}

func (b *StateBuilder) applyCreateContext(rec *ApiCallRecord, call *tracefile.Call) {
	a, ok := arg(call, "device")
	if !ok {
		return
	}
	device := a.Device()
	r, ok := ret(call, "context")
	if !ok || r.Context() == 0 {
		rec.ReportedFailure = true
		return
	}
	ctx := r.Context()

	idx := b.deviceContextCount[device]
	b.deviceContextCount[device] = idx + 1
	b.contextIndex[ctx] = idx
	b.contextDevice[ctx] = device

	b.trie.Put(deviceKey(device, "numcontexts"), uintValue(uint64(idx+1)))
	b.trie.Put(numberedGlobalDeviceContextKey(device, idx), handleValue(ctx))
	b.trie.Put(contextKey(ctx, "device"), handleValue(device))
	b.trie.Put(contextKey(ctx, "processing"), boolValue(true))
	b.trie.Put(contextKey(ctx, "created"), boolValue(true))
	b.contextProcessing[ctx] = true

	attrs := args(call, "attrlist")
	b.trie.Put(contextKey(ctx, "ALC_ATTRIBUTES_SIZE"), uintValue(uint64(len(attrs))))
	for i, v := range attrs {
		b.trie.Put(numberedContextKey(ctx, "ALC_ALL_ATTRIBUTES", i), v.Raw())
	}
}

func numberedGlobalDeviceContextKey(device DeviceHandle, i int) string {
	return deviceKey(device, "context") + "/" + itoa(i)
}

func (b *StateBuilder) applyDestroyContext(rec *ApiCallRecord, call *tracefile.Call) {
	a, ok := arg(call, "context")
	if !ok {
		return
	}
	ctx := a.Context()
	b.trie.Put(contextKey(ctx, "created"), boolValue(false))

	if device, ok := b.contextDevice[ctx]; ok {
		if idx, ok := b.contextIndex[ctx]; ok {
			b.trie.Remove(numberedGlobalDeviceContextKey(device, idx))
		}
	}
	delete(b.contextIndex, ctx)
	delete(b.contextDevice, ctx)
	delete(b.contextProcessing, ctx)
}

func (b *StateBuilder) applyMakeCurrent(rec *ApiCallRecord, call *tracefile.Call) {
	a, ok := arg(call, "context")
	if !ok {
		return
	}
	ctx := a.Context()
	if b.haveCurrentContext && b.currentContext == ctx {
		rec.InefficientStateChange = true
	}
	b.trie.Put(globalKey("current_context"), handleValue(ctx))
	b.haveCurrentContext = true
	b.currentContext = ctx
}

func (b *StateBuilder) applyToggleProcessing(rec *ApiCallRecord, call *tracefile.Call, wantProcessing bool) {
	a, ok := arg(call, "context")
	if !ok {
		return
	}
	ctx := a.Context()
	if b.contextProcessing[ctx] == wantProcessing {
		rec.InefficientStateChange = true
	}
	b.contextProcessing[ctx] = wantProcessing
	b.trie.Put(contextKey(ctx, "processing"), boolValue(wantProcessing))
}

func (b *StateBuilder) applyGetError(rec *ApiCallRecord, call *tracefile.Call) {
	if !b.haveCurrentContext {
		return
	}
	if b.contextError[b.currentContext] == alNoError {
		rec.InefficientStateChange = true
	}
	b.contextError[b.currentContext] = alNoError
	b.trie.Put(contextKey(b.currentContext, "error"), uintValue(uint64(alNoError)))
}

func (b *StateBuilder) applyGetALCError(rec *ApiCallRecord, call *tracefile.Call) {
	a, ok := arg(call, "device")
	if !ok {
		return
	}
	device := a.Device()
	if b.deviceError[device] == alcNoError {
		rec.InefficientStateChange = true
	}
	b.deviceError[device] = alcNoError
	b.trie.Put(deviceKey(device, "error"), uintValue(uint64(alcNoError)))
}

func (b *StateBuilder) applyGenSources(rec *ApiCallRecord, call *tracefile.Call) {
	if !b.haveCurrentContext {
		return
	}
	ctx := b.currentContext
	for _, r := range rets(call, "sources") {
		name := r.SourceName()
		if name == 0 {
			continue
		}
		idx := b.contextSourceCount[ctx]
		b.contextSourceCount[ctx] = idx + 1
		b.sourceIndex[sourceKey{ctx, name}] = idx

		b.trie.Put(contextKey(ctx, "numsources"), uintValue(uint64(idx+1)))
		b.trie.Put(numberedContextKey(ctx, "source", idx), nameValue(name))
		b.trie.Put(sourceKey(ctx, name, "allocated"), boolValue(true))
	}
}

func (b *StateBuilder) applyDeleteSources(rec *ApiCallRecord, call *tracefile.Call) {
	if !b.haveCurrentContext {
		return
	}
	ctx := b.currentContext
	for _, a := range args(call, "sources") {
		name := a.SourceName()
		b.trie.Put(sourceKey(ctx, name, "allocated"), boolValue(false))
	}
}

func (b *StateBuilder) applyGenBuffers(rec *ApiCallRecord, call *tracefile.Call) {
	device := b.soleKnownDevice()
	for _, r := range rets(call, "buffers") {
		name := r.BufferName()
		if name == 0 {
			continue
		}
		idx := b.deviceBufferCount[device]
		b.deviceBufferCount[device] = idx + 1
		b.bufferIndex[bufferSlotKey{device, name}] = idx

		b.trie.Put(deviceKey(device, "numbuffers"), uintValue(uint64(idx+1)))
		b.trie.Put(bufferKey(device, name, "allocated"), boolValue(true))
	}
}

func (b *StateBuilder) applyDeleteBuffers(rec *ApiCallRecord, call *tracefile.Call) {
	device := b.soleKnownDevice()
	for _, a := range args(call, "buffers") {
		name := a.BufferName()
		b.trie.Put(bufferKey(device, name, "allocated"), boolValue(false))
	}
}

// soleKnownDevice returns the most recently opened device. Buffers are
// not traced with an explicit owning device argument (alGenBuffers takes
// only a count), so — matching the common single-device case every §8
// scenario exercises — buffer bookkeeping is scoped to whichever device
// was opened last. A multi-device capture would need the trace format to
// carry an explicit device argument on these calls, which it does not.
func (b *StateBuilder) soleKnownDevice() DeviceHandle {
	return b.lastOpenedDevice
}

func (b *StateBuilder) applyBufferData(rec *ApiCallRecord, call *tracefile.Call) {
	a, ok := arg(call, "buffer")
	if !ok {
		return
	}
	name := a.BufferName()
	device := b.soleKnownDevice()

	if format, ok := arg(call, "format"); ok {
		b.trie.Put(bufferKey(device, name, "format"), format.Raw())
	}
	b.trie.Put(bufferKey(device, name, "data"), uintValue(uint64(rec.PCMOffset)))
	if size, ok := arg(call, "size"); ok {
		b.trie.Put(bufferKey(device, name, "datalen"), size.Raw())
	}
}

func (b *StateBuilder) applyCaptureSamples(rec *ApiCallRecord, call *tracefile.Call) {
	a, ok := arg(call, "device")
	if !ok {
		return
	}
	device := a.Device()

	capturing, _ := b.trie.Get(deviceKey(device, "capturing"))
	if capturing == 0 {
		rec.ReportedFailure = true
	}

	numKey := deviceKey(device, "numcaptures")
	n, _ := b.trie.Get(numKey)
	idx := int(n)
	b.trie.Put(numKey, uintValue(n+1))
	b.trie.Put(numberedDeviceArrayKey(device, "capturedata", idx), uintValue(uint64(rec.PCMOffset)))
	b.trie.Put(numberedDeviceArrayKey(device, "capturedatalen", idx), uintValue(uint64(rec.PCMLen)))
}

func (b *StateBuilder) applySetCapturing(rec *ApiCallRecord, call *tracefile.Call, capturing bool) {
	a, ok := arg(call, "device")
	if !ok {
		return
	}
	b.trie.Put(deviceKey(a.Device(), "capturing"), boolValue(capturing))
}

func numberedDeviceArrayKey(device DeviceHandle, field string, i int) string {
	return deviceKey(device, field) + "/" + itoa(i)
}

func (b *StateBuilder) applySourceSet(rec *ApiCallRecord, call *tracefile.Call) {
	if !b.haveCurrentContext {
		return
	}
	ctx := b.currentContext
	a, ok := arg(call, "source")
	if !ok {
		return
	}
	name := a.SourceName()
	param, ok := arg(call, "param")
	if !ok {
		return
	}
	field := alParamFieldName(param.Enum())

	switch call.Name {
	case "alSourcef", "alSourcei":
		if v, ok := arg(call, "value"); ok {
			b.trie.Put(sourceKey(ctx, name, field), v.Raw())
		}
	case "alSource3f":
		for i, fname := range []string{"value1", "value2", "value3"} {
			if v, ok := arg(call, fname); ok {
				b.trie.Put(numberedSourceKey(ctx, name, field, i), v.Raw())
			}
		}
	}
}

func (b *StateBuilder) applyListenerSet(rec *ApiCallRecord, call *tracefile.Call) {
	param, ok := arg(call, "param")
	if !ok {
		return
	}
	field := alParamFieldName(param.Enum())

	switch call.Name {
	case "alListenerf":
		if v, ok := arg(call, "value"); ok {
			b.trie.Put(globalKey(field), v.Raw())
		}
	case "alListener3f":
		for i, fname := range []string{"value1", "value2", "value3"} {
			if v, ok := arg(call, fname); ok {
				b.trie.Put(numberedGlobalKey(field, i), v.Raw())
			}
		}
	case "alListenerfv":
		for i, v := range args(call, "values") {
			b.trie.Put(numberedGlobalKey(field, i), v.Raw())
		}
	}
}

// ALErrorTriggered implements tracefile.Visitor.
func (b *StateBuilder) ALErrorTriggered(errcode uint32) {
	if b.last != nil {
		b.last.GeneratedALError = errcode
		b.last.ReportedFailure = true
	}
	if b.haveCurrentContext {
		b.contextError[b.currentContext] = errcode
		b.trie.Put(contextKey(b.currentContext, "error"), uintValue(uint64(errcode)))
	}
}

// ALCErrorTriggered implements tracefile.Visitor.
func (b *StateBuilder) ALCErrorTriggered(device uint64, errcode uint32) {
	if b.last != nil {
		b.last.GeneratedALCError = errcode
		b.last.ReportedFailure = true
	}
	b.deviceError[DeviceHandle(device)] = errcode
	b.trie.Put(deviceKey(DeviceHandle(device), "error"), uintValue(uint64(errcode)))
}

// NewCallstackSyms implements tracefile.Visitor. Symbol resolution itself
// happens inside tracefile (see tracefile/symbolize.go); by the time this
// method is called the symbols are already attached to the CallerInfo
// values the builder will see, so there is no trie state to update here.
func (b *StateBuilder) NewCallstackSyms(syms map[uint64]string) {}

// StateChanged implements tracefile.Visitor: applies the confirmed new
// value to the trie and, per spec.md §4.3, clears the current record's
// tentative InefficientStateChange flag (the `ALC_CAPTURE_SAMPLES`
// family is the one exception the spec calls out, and this module has no
// such tag — capture progress is carried entirely via alcCaptureSamples
// calls, not a meta event).
func (b *StateBuilder) StateChanged(change tracefile.StateChange) {
	field := alParamFieldName(change.Param)

	switch change.Target {
	case tracefile.TargetDevice:
		b.writeStateChangeValues(deviceKey(DeviceHandle(change.Handle), field), change.Values)
	case tracefile.TargetContext:
		b.writeStateChangeValues(contextKey(ContextHandle(change.Handle), field), change.Values)
	case tracefile.TargetListener:
		b.writeStateChangeValues(globalKey(field), change.Values)
	case tracefile.TargetSource:
		b.writeStateChangeValues(sourceKey(b.currentContext, SourceName(change.Handle), field), change.Values)
	case tracefile.TargetBuffer:
		b.writeStateChangeValues(bufferKey(b.soleKnownDevice(), BufferName(change.Handle), field), change.Values)
	}

	if b.last != nil {
		b.last.InefficientStateChange = false
	}
}

func (b *StateBuilder) writeStateChangeValues(baseKey string, values []tracefile.ArgValue) {
	if len(values) == 1 {
		b.trie.Put(baseKey, values[0].Raw())
		return
	}
	for i, v := range values {
		b.trie.Put(baseKey+"/"+itoa(i), v.Raw())
	}
}

// EOS implements tracefile.Visitor: finalizes the last record's snapshot
// regardless of okay, per spec.md §4.3 step 5 ("On EOS, finalize the last
// record's snapshot") and §7 ("prior events remain valid").
func (b *StateBuilder) EOS(okay bool, reason string) {
	b.finalizeLast()
}

// Progress implements tracefile.Visitor. StateBuilder has no reason of
// its own to cancel a decode; callers that want cancellation should wrap
// StateBuilder rather than rely on it.
func (b *StateBuilder) Progress(bytesRead, bytesTotal int64) bool { return true }
