// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracefile

import (
	"io"

	"github.com/pkg/errors"
)

// decoderState tracks which phase of spec.md §7's state machine a Process
// call is in: Init -> HeaderRead -> Streaming -> Terminated.
type decoderState int

const (
	stateInit decoderState = iota
	stateHeaderRead
	stateStreaming
	stateTerminated
)

// Header is the fixed preamble every trace log opens with (spec.md §6).
type Header struct {
	Magic         uint32
	FormatVersion uint32
	AppName       string
}

// Process decodes r as an altrace trace log, dispatching one Visitor
// method per record until the stream ends, an unrecoverable framing error
// is hit, or v.Progress returns false. It never returns partial state:
// any error return means decoding stopped at the reported offset and the
// caller should treat the rest of the file as absent, not malformed.
func Process(r io.Reader, v Visitor) (Result, error) {
	d := &decoder{
		r:       newOffsetReader(r),
		v:       v,
		threads: make(map[uint64]uint32),
		syms:    newSymbolTable(),
		state:   stateInit,
	}
	return d.run()
}

type decoder struct {
	r     *offsetReader
	fd    *fieldDecoder
	v     Visitor
	state decoderState

	threads map[uint64]uint32
	nextTID uint32

	syms *symbolTable
}

func (d *decoder) run() (Result, error) {
	d.fd = newFieldDecoder(d.r)

	hdr, err := d.readHeader()
	if err == nil && hdr.Magic != Magic {
		err = errors.Errorf("tracefile: bad magic %#x", hdr.Magic)
	}
	if err == nil && hdr.FormatVersion != FormatVersion {
		err = errors.Errorf("tracefile: unsupported format version %d", hdr.FormatVersion)
	}
	if err != nil {
		d.state = stateTerminated
		d.v.EOS(false, err.Error())
		return ResultFailed, err
	}
	d.state = stateStreaming

	for {
		if !d.v.Progress(d.r.offset(), -1) {
			d.state = stateTerminated
			return ResultCancelled, nil
		}

		recordOffset := d.r.offset()
		tag, err := d.fd.u16()
		if err != nil {
			d.state = stateTerminated
			if errors.Is(err, io.EOF) {
				// spec.md §7: a stream that ends without an EOS
				// record is itself a framing failure.
				d.v.EOS(false, "truncated trace: missing EOS record")
				return ResultFailed, nil
			}
			d.v.EOS(false, err.Error())
			return ResultFailed, err
		}

		res, terminal, err := d.dispatch(EventTag(tag), recordOffset)
		if err != nil {
			d.state = stateTerminated
			d.v.EOS(false, err.Error())
			return ResultFailed, nil
		}
		if terminal {
			d.state = stateTerminated
			return res, nil
		}
	}
}

func (d *decoder) readHeader() (Header, error) {
	magic, err := d.fd.u32()
	if err != nil {
		return Header{}, errors.Wrap(err, "tracefile: reading magic")
	}
	version, err := d.fd.u32()
	if err != nil {
		return Header{}, errors.Wrap(err, "tracefile: reading format version")
	}
	appname, isNull, err := d.fd.str()
	if err != nil {
		return Header{}, errors.Wrap(err, "tracefile: reading appname")
	}
	if isNull {
		appname = ""
	}
	d.state = stateHeaderRead
	return Header{Magic: magic, FormatVersion: version, AppName: appname}, nil
}

// dispatch decodes one record, given its tag has already been consumed.
// It returns (result, terminal, err): terminal is true only for EOS, which
// ends the stream.
func (d *decoder) dispatch(tag EventTag, recordOffset int64) (Result, bool, error) {
	switch tag {
	case TagEOS:
		// spec.md §6: EOS has an empty payload. Reaching this tag at all
		// means the stream ended without a prior framing error — any
		// abnormal termination (truncation, an unknown tag, a field that
		// fails to decode) is instead reported through the synthetic
		// EOS(false, ...) calls in run() and dispatchCall's callers, never
		// by reading a status off the wire.
		d.v.EOS(true, "")
		return ResultOK, true, nil

	case TagALErrorTriggered:
		errcode, err := d.fd.u32()
		if err != nil {
			return ResultFailed, false, err
		}
		d.v.ALErrorTriggered(errcode)
		return ResultOK, false, nil

	case TagALCErrorTriggered:
		device, err := d.fd.u64()
		if err != nil {
			return ResultFailed, false, err
		}
		errcode, err := d.fd.u32()
		if err != nil {
			return ResultFailed, false, err
		}
		d.v.ALCErrorTriggered(device, errcode)
		return ResultOK, false, nil

	case TagNewCallstackSyms:
		return ResultOK, false, d.dispatchNewCallstackSyms()

	case TagDeviceStateChangedBool, TagDeviceStateChangedInt,
		TagContextStateChangedEnum, TagContextStateChangedFloat, TagContextStateChangedString,
		TagListenerStateChangedFloatV,
		TagSourceStateChangedBool, TagSourceStateChangedEnum, TagSourceStateChangedInt,
		TagSourceStateChangedUint, TagSourceStateChangedFloat, TagSourceStateChangedFloat3,
		TagBufferStateChangedInt:
		return ResultOK, false, d.dispatchStateChanged(tag)

	default:
		ep, ok := entryPoints[tag]
		if !ok {
			return ResultFailed, false, errors.Errorf("tracefile: unknown tag %d at offset %d", tag, recordOffset)
		}
		return ResultOK, false, d.dispatchCall(tag, ep, recordOffset)
	}
}

func (d *decoder) dispatchNewCallstackSyms() error {
	n, err := d.fd.u32()
	if err != nil {
		return err
	}
	raw := make(map[uint64]string, n)
	for i := uint32(0); i < n; i++ {
		ip, err := d.fd.u64()
		if err != nil {
			return err
		}
		name, isNull, err := d.fd.str()
		if err != nil {
			return err
		}
		if isNull {
			name = ""
		}
		raw[ip] = name
	}
	d.v.NewCallstackSyms(d.syms.add(raw))
	return nil
}

// stateChangeShapes describes, per tag, the target kind and the value
// schema of a `*_STATE_CHANGED_*` record's trailing fields, cross
// referenced against altrace_playback.h's visit_*_state_changed_*
// signatures.
var stateChangeShapes = map[EventTag]struct {
	target StateTarget
	values []FieldSchema
}{
	TagDeviceStateChangedBool:    {TargetDevice, []FieldSchema{boolf("value")}},
	TagDeviceStateChangedInt:     {TargetDevice, []FieldSchema{i32f("value")}},
	TagContextStateChangedEnum:   {TargetContext, []FieldSchema{enumf("value")}},
	TagContextStateChangedFloat:  {TargetContext, []FieldSchema{f32f("value")}},
	TagContextStateChangedString: {TargetContext, []FieldSchema{strf("value")}},
	TagListenerStateChangedFloatV: {TargetListener, []FieldSchema{
		f32f("value1"), f32f("value2"), f32f("value3"),
	}},
	TagSourceStateChangedBool:  {TargetSource, []FieldSchema{boolf("value")}},
	TagSourceStateChangedEnum:  {TargetSource, []FieldSchema{enumf("value")}},
	TagSourceStateChangedInt:   {TargetSource, []FieldSchema{i32f("value")}},
	TagSourceStateChangedUint:  {TargetSource, []FieldSchema{u32f("value")}},
	TagSourceStateChangedFloat: {TargetSource, []FieldSchema{f32f("value")}},
	TagSourceStateChangedFloat3: {TargetSource, []FieldSchema{
		f32f("value1"), f32f("value2"), f32f("value3"),
	}},
	TagBufferStateChangedInt: {TargetBuffer, []FieldSchema{i32f("value")}},
}

func (d *decoder) dispatchStateChanged(tag EventTag) error {
	shape := stateChangeShapes[tag]

	var handle uint64
	var err error
	if shape.target != TargetListener {
		handle, err = d.fd.u64()
		if err != nil {
			return err
		}
	}

	param, err := d.fd.u32()
	if err != nil {
		return err
	}

	values, err := d.readFields(shape.values)
	if err != nil {
		return err
	}

	d.v.StateChanged(StateChange{
		Tag:    tag,
		Target: shape.target,
		Handle: handle,
		Param:  param,
		Values: values,
	})
	return nil
}

func (d *decoder) dispatchCall(tag EventTag, ep EntryPoint, recordOffset int64) error {
	info, err := d.readCallerInfo(recordOffset)
	if err != nil {
		return err
	}

	args, err := d.readFields(ep.Args)
	if err != nil {
		return err
	}
	rets, err := d.readFields(ep.Rets)
	if err != nil {
		return err
	}

	call := &Call{Tag: tag, Name: ep.Name, Args: args, Rets: rets}

	// alBufferData and alcCaptureSamples are the only traced entry
	// points whose args include a raw PCM payload (spec.md §3); the
	// payload itself trails the record rather than being inlined as a
	// decoded field, so it's read here rather than as a FieldSchema.
	if ep.Name == "alBufferData" || ep.Name == "alcCaptureSamples" {
		pcmLen, err := d.fd.u32()
		if err != nil {
			return err
		}
		call.PCMOffset = d.r.offset()
		call.PCMLen = pcmLen
		if err := d.r.discard(int(pcmLen)); err != nil {
			return err
		}
	}

	d.v.Call(info, call)
	return nil
}

func (d *decoder) readCallerInfo(recordOffset int64) (CallerInfo, error) {
	rawTID, err := d.fd.u64()
	if err != nil {
		return CallerInfo{}, err
	}
	timestamp, err := d.fd.u32()
	if err != nil {
		return CallerInfo{}, err
	}
	scope, err := d.fd.u32()
	if err != nil {
		return CallerInfo{}, err
	}
	frameCount, err := d.fd.u32()
	if err != nil {
		return CallerInfo{}, err
	}

	frames := make([]CallstackFrame, frameCount)
	for i := range frames {
		ip, err := d.fd.u64()
		if err != nil {
			return CallerInfo{}, err
		}
		frames[i] = CallstackFrame{IP: ip}
	}
	d.syms.resolve(frames)

	return CallerInfo{
		ThreadID:   d.remapThread(rawTID),
		Timestamp:  timestamp,
		TraceScope: scope,
		Callstack:  frames,
		FileOffset: recordOffset,
	}, nil
}

// remapThread assigns each distinct wide thread identifier seen in the
// trace a small sequential id on first use (spec.md §4.2): the recorded
// program's actual OS thread ids are meaningless across a capture/replay
// boundary, but their relative identity (same thread or different thread)
// is observable behavior worth preserving.
func (d *decoder) remapThread(raw uint64) uint32 {
	if id, ok := d.threads[raw]; ok {
		return id
	}
	id := d.nextTID
	d.nextTID++
	d.threads[raw] = id
	return id
}

func (d *decoder) readFields(schema []FieldSchema) ([]ArgValue, error) {
	if len(schema) == 0 {
		return nil, nil
	}
	var out []ArgValue
	for _, f := range schema {
		if f.Array {
			n, err := d.fd.u32()
			if err != nil {
				return nil, err
			}
			for i := uint32(0); i < n; i++ {
				v, err := d.readOne(f)
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
			continue
		}
		v, err := d.readOne(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *decoder) readOne(f FieldSchema) (ArgValue, error) {
	switch f.Kind {
	case KindDevice:
		v, err := d.fd.u64()
		return DeviceValue(f.Name, DeviceHandle(v)), err
	case KindContext:
		v, err := d.fd.u64()
		return ContextValue(f.Name, ContextHandle(v)), err
	case KindSourceName:
		v, err := d.fd.u32()
		return SourceNameValue(f.Name, SourceName(v)), err
	case KindBufferName:
		v, err := d.fd.u32()
		return BufferNameValue(f.Name, BufferName(v)), err
	case KindPointer:
		v, err := d.fd.u64()
		return PointerValue(f.Name, v), err
	case KindInt:
		v, err := d.fd.i32()
		return IntValue(f.Name, int64(v)), err
	case KindUint:
		v, err := d.fd.u32()
		return UintValue(f.Name, uint64(v)), err
	case KindSize:
		v, err := d.fd.u64()
		return SizeValue(f.Name, v), err
	case KindFloat:
		v, err := d.fd.f32()
		return FloatValue(f.Name, v), err
	case KindDouble:
		v, err := d.fd.f64()
		return DoubleValue(f.Name, v), err
	case KindEnum:
		v, err := d.fd.u32()
		return EnumValue(f.Name, v), err
	case KindBool:
		v, err := d.fd.boolean()
		return BoolValue(f.Name, v), err
	case KindString:
		v, isNull, err := d.fd.str()
		if isNull {
			return NullStringValue(f.Name), err
		}
		return StringValue(f.Name, v), err
	default:
		return ArgValue{}, errors.Errorf("tracefile: unhandled field kind %v for %q", f.Kind, f.Name)
	}
}
