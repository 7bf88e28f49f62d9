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

// Package binary provides sticky-error readers and writers of little-endian
// and variable-length-encoded primitives.
package binary

import (
	"fmt"
	"io"
)

// Reader decodes primitive values from an io.Reader.
// After the first decode failure all further reads return zero values; the
// failure is reported by Error.
type Reader struct {
	reader io.Reader
	tmp    [8]byte
	err    error
}

// NewReader returns a Reader that decodes from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{reader: r}
}

// Error returns the error which stopped reading from the stream, or nil if
// reading has not stopped.
func (r *Reader) Error() error {
	return r.err
}

// SetError sets the error state and stops reading from the stream.
func (r *Reader) SetError(err error) {
	if r.err == nil {
		r.err = err
	}
}

// Data reads len(p) bytes in their entirety.
func (r *Reader) Data(p []byte) {
	if r.err != nil {
		return
	}
	if n, err := io.ReadFull(r.reader, p); err != nil {
		r.err = fmt.Errorf("%v after reading %d bytes", err, n)
	}
}

// Uint8 decodes and returns an unsigned, 8 bit integer value from the Reader.
func (r *Reader) Uint8() uint8 {
	if r.err != nil {
		return 0
	}
	b := r.tmp[:1]
	if _, err := io.ReadFull(r.reader, b); err != nil {
		r.err = err
		return 0
	}
	return b[0]
}

// Uint32 decodes and returns an unsigned, 32 bit little-endian integer value
// from the Reader.
func (r *Reader) Uint32() uint32 {
	if r.err != nil {
		return 0
	}
	b := r.tmp[:4]
	if _, err := io.ReadFull(r.reader, b); err != nil {
		r.err = err
		return 0
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// Uvarint decodes and returns an unsigned, variable length encoded integer
// value from the Reader.
func (r *Reader) Uvarint() uint64 {
	result := uint64(0)
	for shift := uint(0); shift <= 63; shift += 7 {
		b := uint64(r.Uint8())
		if r.err != nil {
			return 0
		}
		result |= (b & 0x7f) << shift
		if b&0x80 == 0 {
			return result
		}
	}
	r.SetError(fmt.Errorf("unsigned varint too long"))
	return 0
}

// Varint decodes and returns a signed, zigzag variable length encoded
// integer value from the Reader.
func (r *Reader) Varint() int64 {
	v := r.Uvarint()
	return int64(v>>1) ^ -int64(v&1)
}

// String decodes and returns a length-prefixed string from the Reader.
func (r *Reader) String() string {
	n := r.Uvarint()
	if r.err != nil {
		return ""
	}
	data := make([]byte, n)
	r.Data(data)
	if r.err != nil {
		return ""
	}
	return string(data)
}

// Count decodes and returns a collection count from the Reader.
func (r *Reader) Count() uint32 {
	return uint32(r.Uvarint())
}
