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
	"bytes"
	"io"
	"testing"

	"github.com/Gurten/apitrace/core/assert"
	"github.com/Gurten/apitrace/core/log"
)

func TestContainerRejectsBadMagic(t *testing.T) {
	ctx := log.Testing(t)
	_, err := newChunkReader(bytes.NewReader([]byte("not a trace at all")))
	assert.For(ctx, "open").ThatError(err).Equals(ErrNotATrace)
	_, err = newChunkReader(bytes.NewReader(nil))
	assert.For(ctx, "empty").ThatError(err).Equals(ErrNotATrace)
}

func TestContainerRoundTrip(t *testing.T) {
	ctx := log.Testing(t)
	payload := make([]byte, 3*chunkSize+100)
	for i := range payload {
		payload[i] = byte(i * 7)
	}

	buf := &bytes.Buffer{}
	w, err := newChunkWriter(buf)
	assert.For(ctx, "create").ThatError(err).Succeeded()
	for len(payload) > 0 {
		n := 1000
		if n > len(payload) {
			n = len(payload)
		}
		_, err := w.Write(payload[:n])
		assert.For(ctx, "write").ThatError(err).Succeeded()
		payload = payload[n:]
	}
	assert.For(ctx, "flush").ThatError(w.Flush()).Succeeded()

	r, err := newChunkReader(bytes.NewReader(buf.Bytes()))
	assert.For(ctx, "open").ThatError(err).Succeeded()
	got, err := io.ReadAll(r)
	assert.For(ctx, "read all").ThatError(err).Succeeded()
	for i := range got {
		if got[i] != byte(i*7) {
			t.Fatalf("payload mismatch at byte %d", i)
		}
	}
	assert.For(ctx, "length").That(len(got)).Equals(3*chunkSize + 100)
}

func TestContainerSeek(t *testing.T) {
	ctx := log.Testing(t)
	buf := &bytes.Buffer{}
	w, err := newChunkWriter(buf)
	assert.For(ctx, "create").ThatError(err).Succeeded()
	_, err = w.Write(bytes.Repeat([]byte{0xaa}, chunkSize))
	assert.For(ctx, "first chunk").ThatError(err).Succeeded()
	_, err = w.Write([]byte("hello again"))
	assert.For(ctx, "second chunk").ThatError(err).Succeeded()
	assert.For(ctx, "flush").ThatError(w.Flush()).Succeeded()

	r, err := newChunkReader(bytes.NewReader(buf.Bytes()))
	assert.For(ctx, "open").ThatError(err).Succeeded()

	head := make([]byte, 10)
	_, err = io.ReadFull(r, head)
	assert.For(ctx, "head").ThatError(err).Succeeded()

	offset, pos := r.tell()
	mid := make([]byte, chunkSize)
	_, err = io.ReadFull(r, mid)
	assert.For(ctx, "mid").ThatError(err).Succeeded()

	assert.For(ctx, "seek").ThatError(r.seek(offset, pos)).Succeeded()
	again := make([]byte, chunkSize)
	_, err = io.ReadFull(r, again)
	assert.For(ctx, "reread").ThatError(err).Succeeded()
	assert.For(ctx, "replay").That(bytes.Equal(mid, again)).IsTrue()

	tail, err := io.ReadAll(r)
	assert.For(ctx, "tail read").ThatError(err).Succeeded()
	assert.For(ctx, "tail").That(string(tail)).Equals("n")
}
