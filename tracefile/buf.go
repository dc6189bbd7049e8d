// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tracefile

import (
	"bufio"
	"io"
)

// offsetReader wraps a bufio.Reader and tracks how many bytes have been
// consumed from the underlying stream, so records can report the file
// offset spec.md §3 requires (ApiCallRecord's "file offset of the record",
// and the PCM payload offsets for buffer-data/capture-samples). Modeled on
// perffile's bufferedSectionReader, simplified for a plain io.Reader since
// trace logs are read forward-only, never seeked.
type offsetReader struct {
	br  *bufio.Reader
	pos int64
}

func newOffsetReader(r io.Reader) *offsetReader {
	return &offsetReader{br: bufio.NewReaderSize(r, 32<<10)}
}

// offset returns the number of bytes consumed so far.
func (o *offsetReader) offset() int64 { return o.pos }

// readFull fills p entirely or returns the first error encountered,
// exactly like io.ReadFull, while keeping the offset counter in sync.
func (o *offsetReader) readFull(p []byte) error {
	n, err := io.ReadFull(o.br, p)
	o.pos += int64(n)
	return err
}

// discard skips n bytes without copying them anywhere, used to step over
// PCM payload bytes that are only referenced by file offset (spec.md §3,
// §6's "opaque PCM blob").
func (o *offsetReader) discard(n int) error {
	d, err := o.br.Discard(n)
	o.pos += int64(d)
	return err
}
