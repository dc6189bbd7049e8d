// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracefile

// A FieldSchema names one positional argument or return value of a traced
// entry point and says how to decode it off the wire. Driving decode from
// a table like this, rather than one hand-written method per AL/ALC
// function, is how this package avoids the ~80-way repetition spec.md §2
// itself flags as boilerplate that "collapses in any modern language with
// generics or macros": Go's struct literals are that collapse.
type FieldSchema struct {
	Name string
	Kind ValueKind

	// Array, if true, means this field is preceded on the wire by a u32
	// count and is decoded as that many consecutive values of Kind,
	// each reported as a separate ArgValue sharing Name (spec.md §3 has
	// no "list" variant, so a multi-valued argument such as
	// gen_sources's returned names is just several ArgValues with the
	// same field name).
	Array bool
}

// An EntryPoint describes one traced AL/ALC function: its name and the
// shape of its recorded arguments and return values.
type EntryPoint struct {
	Name string
	Args []FieldSchema
	Rets []FieldSchema
}

func dev(name string) FieldSchema   { return FieldSchema{Name: name, Kind: KindDevice} }
func ctx(name string) FieldSchema   { return FieldSchema{Name: name, Kind: KindContext} }
func src(name string) FieldSchema   { return FieldSchema{Name: name, Kind: KindSourceName} }
func buf(name string) FieldSchema   { return FieldSchema{Name: name, Kind: KindBufferName} }
func ptr(name string) FieldSchema   { return FieldSchema{Name: name, Kind: KindPointer} }
func i32f(name string) FieldSchema  { return FieldSchema{Name: name, Kind: KindInt} }
func u32f(name string) FieldSchema  { return FieldSchema{Name: name, Kind: KindUint} }
func sizef(name string) FieldSchema { return FieldSchema{Name: name, Kind: KindSize} }
func f32f(name string) FieldSchema  { return FieldSchema{Name: name, Kind: KindFloat} }
func f64f(name string) FieldSchema  { return FieldSchema{Name: name, Kind: KindDouble} }
func enumf(name string) FieldSchema { return FieldSchema{Name: name, Kind: KindEnum} }
func boolf(name string) FieldSchema { return FieldSchema{Name: name, Kind: KindBool} }
func strf(name string) FieldSchema  { return FieldSchema{Name: name, Kind: KindString} }
func arr(f FieldSchema) FieldSchema { f.Array = true; return f }

// entryPoints is the representative subset of traced AL/ALC functions this
// decoder understands. It covers every row of spec.md §4.3's
// state-mutation table plus the §8 literal scenarios; it is not
// exhaustive over the full AL/ALC surface (there are roughly 80 traced
// entry points in a complete capture shim), but adding one is purely
// mechanical: a new tag constant and a new table row, no new decode
// logic, since decoder.go's dispatch loop is driven entirely off Args and
// Rets here.
var entryPoints = map[EventTag]EntryPoint{
	entryPointTagBase + 0: {
		Name: "alcOpenDevice",
		Args: []FieldSchema{strf("devicename")},
		Rets: []FieldSchema{dev("device")},
	},
	entryPointTagBase + 1: {
		Name: "alcCloseDevice",
		Args: []FieldSchema{dev("device")},
		Rets: []FieldSchema{boolf("retval")},
	},
	entryPointTagBase + 2: {
		Name: "alcCreateContext",
		Args: []FieldSchema{dev("device"), arr(i32f("attrlist"))},
		Rets: []FieldSchema{ctx("context")},
	},
	entryPointTagBase + 3: {
		Name: "alcDestroyContext",
		Args: []FieldSchema{ctx("context")},
	},
	entryPointTagBase + 4: {
		Name: "alcMakeContextCurrent",
		Args: []FieldSchema{ctx("context")},
		Rets: []FieldSchema{boolf("retval")},
	},
	entryPointTagBase + 5: {
		Name: "alcProcessContext",
		Args: []FieldSchema{ctx("context")},
	},
	entryPointTagBase + 6: {
		Name: "alcSuspendContext",
		Args: []FieldSchema{ctx("context")},
	},
	entryPointTagBase + 7: {
		Name: "alcGetError",
		Args: []FieldSchema{dev("device")},
		Rets: []FieldSchema{enumf("retval")},
	},
	entryPointTagBase + 8: {
		Name: "alGetError",
		Rets: []FieldSchema{enumf("retval")},
	},
	entryPointTagBase + 9: {
		Name: "alGenSources",
		Args: []FieldSchema{sizef("n")},
		Rets: []FieldSchema{arr(src("sources"))},
	},
	entryPointTagBase + 10: {
		Name: "alDeleteSources",
		Args: []FieldSchema{sizef("n"), arr(src("sources"))},
	},
	entryPointTagBase + 11: {
		Name: "alGenBuffers",
		Args: []FieldSchema{sizef("n")},
		Rets: []FieldSchema{arr(buf("buffers"))},
	},
	entryPointTagBase + 12: {
		Name: "alDeleteBuffers",
		Args: []FieldSchema{sizef("n"), arr(buf("buffers"))},
	},
	entryPointTagBase + 13: {
		Name: "alBufferData",
		Args: []FieldSchema{
			buf("buffer"), enumf("format"), ptr("data"),
			sizef("size"), sizef("freq"),
		},
	},
	entryPointTagBase + 14: {
		Name: "alSourcef",
		Args: []FieldSchema{src("source"), enumf("param"), f32f("value")},
	},
	entryPointTagBase + 15: {
		Name: "alSource3f",
		Args: []FieldSchema{src("source"), enumf("param"), f32f("value1"), f32f("value2"), f32f("value3")},
	},
	entryPointTagBase + 16: {
		Name: "alSourcei",
		Args: []FieldSchema{src("source"), enumf("param"), i32f("value")},
	},
	entryPointTagBase + 17: {
		Name: "alGetSourcef",
		Args: []FieldSchema{src("source"), enumf("param")},
		Rets: []FieldSchema{f32f("value")},
	},
	entryPointTagBase + 18: {
		Name: "alGetSourcei",
		Args: []FieldSchema{src("source"), enumf("param")},
		Rets: []FieldSchema{i32f("value")},
	},
	entryPointTagBase + 19: {
		Name: "alSourcePlay",
		Args: []FieldSchema{src("source")},
	},
	entryPointTagBase + 20: {
		Name: "alSourcePause",
		Args: []FieldSchema{src("source")},
	},
	entryPointTagBase + 21: {
		Name: "alSourceStop",
		Args: []FieldSchema{src("source")},
	},
	entryPointTagBase + 22: {
		Name: "alSourceRewind",
		Args: []FieldSchema{src("source")},
	},
	entryPointTagBase + 23: {
		Name: "alSourceQueueBuffers",
		Args: []FieldSchema{src("source"), sizef("n"), arr(buf("buffers"))},
	},
	entryPointTagBase + 24: {
		Name: "alSourceUnqueueBuffers",
		Args: []FieldSchema{src("source"), sizef("n")},
		Rets: []FieldSchema{arr(buf("buffers"))},
	},
	entryPointTagBase + 25: {
		Name: "alListenerf",
		Args: []FieldSchema{enumf("param"), f32f("value")},
	},
	entryPointTagBase + 26: {
		Name: "alListener3f",
		Args: []FieldSchema{enumf("param"), f32f("value1"), f32f("value2"), f32f("value3")},
	},
	entryPointTagBase + 27: {
		Name: "alListenerfv",
		Args: []FieldSchema{enumf("param"), arr(f32f("values"))},
	},
	entryPointTagBase + 28: {
		Name: "alGetListenerf",
		Args: []FieldSchema{enumf("param")},
		Rets: []FieldSchema{f32f("value")},
	},
	entryPointTagBase + 29: {
		Name: "alGetString",
		Args: []FieldSchema{enumf("param")},
		Rets: []FieldSchema{strf("retval")},
	},
	entryPointTagBase + 30: {
		Name: "alcGetString",
		Args: []FieldSchema{dev("device"), enumf("param")},
		Rets: []FieldSchema{strf("retval")},
	},
	entryPointTagBase + 31: {
		Name: "alcCaptureOpenDevice",
		Args: []FieldSchema{strf("devicename"), sizef("frequency"), enumf("format"), sizef("buffersize")},
		Rets: []FieldSchema{dev("device")},
	},
	entryPointTagBase + 32: {
		Name: "alcCaptureCloseDevice",
		Args: []FieldSchema{dev("device")},
		Rets: []FieldSchema{boolf("retval")},
	},
	entryPointTagBase + 33: {
		Name: "alcCaptureStart",
		Args: []FieldSchema{dev("device")},
	},
	entryPointTagBase + 34: {
		Name: "alcCaptureStop",
		Args: []FieldSchema{dev("device")},
	},
	entryPointTagBase + 35: {
		Name: "alcCaptureSamples",
		Args: []FieldSchema{dev("device"), ptr("buffer"), sizef("samples")},
	},
	entryPointTagBase + 36: {
		Name: "alDopplerFactor",
		Args: []FieldSchema{f32f("value")},
	},
	entryPointTagBase + 37: {
		Name: "alDistanceModel",
		Args: []FieldSchema{enumf("value")},
	},
}
