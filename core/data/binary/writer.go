// Copyright (C) 2021 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package binary

import "io"

// Writer encodes primitive values to an io.Writer.
// After the first encode failure all further writes are dropped; the failure
// is reported by Error.
type Writer struct {
	writer io.Writer
	tmp    [8]byte
	err    error
}

// NewWriter returns a Writer that encodes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{writer: w}
}

// Error returns the error which stopped writing to the stream, or nil if
// writing has not stopped.
func (w *Writer) Error() error {
	return w.err
}

// SetError sets the error state and stops writing to the stream.
func (w *Writer) SetError(err error) {
	if w.err == nil {
		w.err = err
	}
}

// Data writes the bytes in their entirety.
func (w *Writer) Data(data []byte) {
	if w.err != nil {
		return
	}
	n, err := w.writer.Write(data)
	if err != nil {
		w.err = err
	} else if n != len(data) {
		w.err = io.ErrShortWrite
	}
}

// Uint8 encodes an unsigned, 8 bit integer value to the Writer.
func (w *Writer) Uint8(v uint8) {
	w.tmp[0] = v
	w.Data(w.tmp[:1])
}

// Uint32 encodes an unsigned, 32 bit little-endian integer value to the
// Writer.
func (w *Writer) Uint32(v uint32) {
	w.tmp[0] = byte(v)
	w.tmp[1] = byte(v >> 8)
	w.tmp[2] = byte(v >> 16)
	w.tmp[3] = byte(v >> 24)
	w.Data(w.tmp[:4])
}

// Uvarint encodes an unsigned, variable length integer value to the Writer.
func (w *Writer) Uvarint(v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			w.Uint8(b | 0x80)
		} else {
			w.Uint8(b)
			return
		}
	}
}

// Varint encodes a signed, zigzag variable length integer value to the
// Writer.
func (w *Writer) Varint(v int64) {
	w.Uvarint(uint64(v<<1) ^ uint64(v>>63))
}

// String encodes a length-prefixed string to the Writer.
func (w *Writer) String(v string) {
	w.Uvarint(uint64(len(v)))
	w.Data([]byte(v))
}

// Count encodes a collection count to the Writer.
func (w *Writer) Count(v uint32) {
	w.Uvarint(uint64(v))
}
