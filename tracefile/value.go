// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracefile

import "math"

// ValueKind identifies which of spec.md §3's argument/return variants an
// ArgValue holds: {device, context, source-name, buffer-name, raw-pointer,
// signed-int, unsigned-int, size, float, double, enum, bool,
// interned-string}.
type ValueKind int

const (
	KindDevice ValueKind = iota
	KindContext
	KindSourceName
	KindBufferName
	KindPointer
	KindInt
	KindUint
	KindSize
	KindFloat
	KindDouble
	KindEnum
	KindBool
	KindString
)

// DeviceHandle and ContextHandle are the recorded program's opaque
// pointer-sized identifiers (spec.md §3): never dereferenced, compared
// only for identity.
type DeviceHandle uint64

// ContextHandle is the recorded program's opaque context identifier.
type ContextHandle uint64

// SourceName and BufferName are the 32-bit names AL hands out for sources
// and buffers (spec.md §3).
type SourceName uint32

// BufferName is the 32-bit name AL hands out for a buffer.
type BufferName uint32

// An ArgValue is one {field-name, variant-value} pair from spec.md §3: an
// argument or return value attached to an ApiCallRecord, or a value
// written into the state trie. Numeric kinds are carried as a raw 64-bit
// bit pattern (spec.md §4.3's "bit-preserving reinterpret... so they can
// be recovered without loss"); String carries its text directly rather
// than an intern id, since Go strings are already reference-counted,
// immutable, and comparable — there is no separate pointer-identity win to
// chase the way the original's StringCache had to chase one.
type ArgValue struct {
	Field  string
	Kind   ValueKind
	IsNull bool
	bits   uint64
	str    string
}

func DeviceValue(field string, h DeviceHandle) ArgValue {
	return ArgValue{Field: field, Kind: KindDevice, bits: uint64(h)}
}

func ContextValue(field string, h ContextHandle) ArgValue {
	return ArgValue{Field: field, Kind: KindContext, bits: uint64(h)}
}

func SourceNameValue(field string, n SourceName) ArgValue {
	return ArgValue{Field: field, Kind: KindSourceName, bits: uint64(n)}
}

func BufferNameValue(field string, n BufferName) ArgValue {
	return ArgValue{Field: field, Kind: KindBufferName, bits: uint64(n)}
}

func PointerValue(field string, p uint64) ArgValue {
	return ArgValue{Field: field, Kind: KindPointer, bits: p}
}

func IntValue(field string, v int64) ArgValue {
	return ArgValue{Field: field, Kind: KindInt, bits: uint64(v)}
}

func UintValue(field string, v uint64) ArgValue {
	return ArgValue{Field: field, Kind: KindUint, bits: v}
}

func SizeValue(field string, v uint64) ArgValue {
	return ArgValue{Field: field, Kind: KindSize, bits: v}
}

func FloatValue(field string, v float32) ArgValue {
	return ArgValue{Field: field, Kind: KindFloat, bits: uint64(math.Float32bits(v))}
}

func DoubleValue(field string, v float64) ArgValue {
	return ArgValue{Field: field, Kind: KindDouble, bits: math.Float64bits(v)}
}

func EnumValue(field string, v uint32) ArgValue {
	return ArgValue{Field: field, Kind: KindEnum, bits: uint64(v)}
}

func BoolValue(field string, v bool) ArgValue {
	var b uint64
	if v {
		b = 1
	}
	return ArgValue{Field: field, Kind: KindBool, bits: b}
}

func StringValue(field string, v string) ArgValue {
	return ArgValue{Field: field, Kind: KindString, str: v}
}

// NullStringValue represents the wire format's null-pointer string
// sentinel (nullStringLen): a string argument the traced program passed
// as NULL rather than an empty string.
func NullStringValue(field string) ArgValue {
	return ArgValue{Field: field, Kind: KindString, IsNull: true}
}

// Device reinterprets the value as a DeviceHandle.
func (a ArgValue) Device() DeviceHandle { return DeviceHandle(a.bits) }

// Context reinterprets the value as a ContextHandle.
func (a ArgValue) Context() ContextHandle { return ContextHandle(a.bits) }

// SourceName reinterprets the value as a source name.
func (a ArgValue) SourceName() SourceName { return SourceName(a.bits) }

// BufferName reinterprets the value as a buffer name.
func (a ArgValue) BufferName() BufferName { return BufferName(a.bits) }

// Pointer returns the raw pointer-sized bit pattern.
func (a ArgValue) Pointer() uint64 { return a.bits }

// Int reinterprets the value as a signed integer.
func (a ArgValue) Int() int64 { return int64(a.bits) }

// Uint returns the value as an unsigned integer.
func (a ArgValue) Uint() uint64 { return a.bits }

// Float reinterprets the low 32 bits as an IEEE-754 float.
func (a ArgValue) Float() float32 { return math.Float32frombits(uint32(a.bits)) }

// Double reinterprets the value as an IEEE-754 double.
func (a ArgValue) Double() float64 { return math.Float64frombits(a.bits) }

// Enum returns the value as an AL/ALC enum constant.
func (a ArgValue) Enum() uint32 { return uint32(a.bits) }

// Bool returns the value as a boolean.
func (a ArgValue) Bool() bool { return a.bits != 0 }

// String returns the value's text. It is only meaningful when Kind ==
// KindString.
func (a ArgValue) String() string { return a.str }

// Raw returns the 64-bit value this ArgValue stores on the wire, whatever
// its Kind: the same bit-cast convention playback's state trie values use.
func (a ArgValue) Raw() uint64 { return a.bits }
