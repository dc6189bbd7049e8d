// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracefile

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// fieldDecoder reads the little-endian primitive encodings spec.md §6
// specifies, tracking offset through the embedded offsetReader. All
// multi-byte fields are little-endian on the wire regardless of host
// byte order (spec.md §4.2): encoding/binary's LittleEndian already
// normalizes for that on every platform Go targets, so — unlike the
// original's swap32/swap64, compiled in only on big-endian hosts — no
// conditional byte-swapping code is needed here at all.
type fieldDecoder struct {
	*offsetReader
	scratch [8]byte
}

func newFieldDecoder(o *offsetReader) *fieldDecoder {
	return &fieldDecoder{offsetReader: o}
}

func (f *fieldDecoder) u8() (uint8, error) {
	if err := f.readFull(f.scratch[:1]); err != nil {
		return 0, err
	}
	return f.scratch[0], nil
}

func (f *fieldDecoder) boolean() (bool, error) {
	v, err := f.u8()
	return v != 0, err
}

func (f *fieldDecoder) u16() (uint16, error) {
	if err := f.readFull(f.scratch[:2]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(f.scratch[:2]), nil
}

func (f *fieldDecoder) u32() (uint32, error) {
	if err := f.readFull(f.scratch[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(f.scratch[:4]), nil
}

func (f *fieldDecoder) i32() (int32, error) {
	v, err := f.u32()
	return int32(v), err
}

func (f *fieldDecoder) f32() (float32, error) {
	v, err := f.u32()
	return math.Float32frombits(v), err
}

func (f *fieldDecoder) u64() (uint64, error) {
	if err := f.readFull(f.scratch[:8]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(f.scratch[:8]), nil
}

func (f *fieldDecoder) i64() (int64, error) {
	v, err := f.u64()
	return int64(v), err
}

func (f *fieldDecoder) f64() (float64, error) {
	v, err := f.u64()
	return math.Float64frombits(v), err
}

// str reads a spec.md §6 length-prefixed string: u32 length then that many
// raw bytes, with nullStringLen as a distinguished null-pointer sentinel.
func (f *fieldDecoder) str() (s string, isNull bool, err error) {
	n, err := f.u32()
	if err != nil {
		return "", false, err
	}
	if n == nullStringLen {
		return "", true, nil
	}
	if n > maxReasonableLength {
		return "", false, errors.Errorf("tracefile: implausible string length %d at offset %d", n, f.offset())
	}
	buf := make([]byte, n)
	if err := f.readFull(buf); err != nil {
		return "", false, err
	}
	return string(buf), false, nil
}

// maxReasonableLength guards against treating a corrupt length prefix as a
// request to allocate gigabytes; spec.md §4.2 classifies any
// "length-prefix overrunning file" as a framing error, and this check lets
// us reject the obviously-bogus ones before attempting the allocation.
const maxReasonableLength = 1 << 30
