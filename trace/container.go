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

package trace

import (
	"encoding/binary"
	"io"

	"github.com/golang/snappy"
	"github.com/pkg/errors"

	"github.com/Gurten/apitrace/core/fault"
)

// The container is a short magic followed by independently compressed
// chunks. Each chunk is a little-endian uint32 compressed byte length
// followed by a snappy block. Chunks are self-contained so a reader can
// seek to any chunk boundary recorded in a bookmark.
var containerMagic = []byte{'a', 't', 0x1b, 0x02}

// chunkSize is the uncompressed payload target for a written chunk.
const chunkSize = 1 << 20

// ErrNotATrace is returned when opening a file that does not start with the
// container magic.
const ErrNotATrace = fault.Const("not a trace file")

// chunkReader decompresses a chunked container, exposing the current
// position as a (chunk file offset, intra-chunk offset) pair.
type chunkReader struct {
	file  io.ReadSeeker
	chunk []byte // decompressed payload of the current chunk
	pos   int    // read position within chunk
	start int64  // file offset of the current chunk
	next  int64  // file offset of the chunk after the current one
}

func newChunkReader(file io.ReadSeeker) (*chunkReader, error) {
	magic := make([]byte, len(containerMagic))
	if _, err := io.ReadFull(file, magic); err != nil {
		return nil, ErrNotATrace
	}
	for i, b := range containerMagic {
		if magic[i] != b {
			return nil, ErrNotATrace
		}
	}
	return &chunkReader{file: file, next: int64(len(containerMagic))}, nil
}

// load positions the reader at the chunk starting at the given file offset.
func (r *chunkReader) load(offset int64) error {
	if _, err := r.file.Seek(offset, io.SeekStart); err != nil {
		return errors.Wrap(err, "seeking to chunk")
	}
	var lenBuf [4]byte
	if _, err := io.ReadFull(r.file, lenBuf[:]); err != nil {
		if err == io.EOF {
			return io.EOF
		}
		return errors.Wrap(err, "reading chunk header")
	}
	compressedLen := binary.LittleEndian.Uint32(lenBuf[:])
	compressed := make([]byte, compressedLen)
	if _, err := io.ReadFull(r.file, compressed); err != nil {
		return errors.Wrap(err, "reading chunk body")
	}
	chunk, err := snappy.Decode(nil, compressed)
	if err != nil {
		return errors.Wrap(err, "decompressing chunk")
	}
	r.chunk, r.pos = chunk, 0
	r.start = offset
	r.next = offset + 4 + int64(compressedLen)
	return nil
}

func (r *chunkReader) Read(p []byte) (int, error) {
	for r.pos >= len(r.chunk) {
		if err := r.load(r.next); err != nil {
			return 0, err
		}
	}
	n := copy(p, r.chunk[r.pos:])
	r.pos += n
	return n, nil
}

// tell returns the current position as a bookmarkable pair.
func (r *chunkReader) tell() (offset int64, pos int) {
	if r.chunk == nil || r.pos >= len(r.chunk) {
		// At a chunk boundary the next read starts a fresh chunk.
		return r.next, 0
	}
	return r.start, r.pos
}

// seek repositions the reader at a pair previously returned by tell.
func (r *chunkReader) seek(offset int64, pos int) error {
	if offset != r.start || r.chunk == nil {
		if err := r.load(offset); err != nil {
			return err
		}
	}
	if pos > len(r.chunk) {
		return errors.Errorf("bookmark offset %d beyond chunk size %d", pos, len(r.chunk))
	}
	r.pos = pos
	return nil
}

// chunkWriter builds a chunked container, compressing each chunk as it
// fills.
type chunkWriter struct {
	file  io.Writer
	chunk []byte
}

func newChunkWriter(file io.Writer) (*chunkWriter, error) {
	if _, err := file.Write(containerMagic); err != nil {
		return nil, errors.Wrap(err, "writing container magic")
	}
	return &chunkWriter{file: file, chunk: make([]byte, 0, chunkSize)}, nil
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	w.chunk = append(w.chunk, p...)
	if len(w.chunk) >= chunkSize {
		if err := w.Flush(); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

// Flush compresses and writes out the pending chunk.
func (w *chunkWriter) Flush() error {
	if len(w.chunk) == 0 {
		return nil
	}
	compressed := snappy.Encode(nil, w.chunk)
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(compressed)))
	if _, err := w.file.Write(lenBuf[:]); err != nil {
		return errors.Wrap(err, "writing chunk header")
	}
	if _, err := w.file.Write(compressed); err != nil {
		return errors.Wrap(err, "writing chunk body")
	}
	w.chunk = w.chunk[:0]
	return nil
}
