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
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/Gurten/apitrace/core/data/binary"
)

// Writer appends calls to a new trace file.
type Writer struct {
	file *os.File
	cw   *chunkWriter
	w    *binary.Writer
	seen map[uint32]bool
}

// Create creates a trace file at path and writes its header.
func Create(path string, version uint32, properties map[string]string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	cw, err := newChunkWriter(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	w := &Writer{
		file: file,
		cw:   cw,
		w:    binary.NewWriter(cw),
		seen: map[uint32]bool{},
	}
	w.w.Uvarint(uint64(version))
	w.w.Count(uint32(len(properties)))
	keys := make([]string, 0, len(properties))
	for k := range properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		w.w.String(k)
		w.w.String(properties[k])
	}
	if err := w.w.Error(); err != nil {
		file.Close()
		return nil, errors.Wrap(err, "writing trace header")
	}
	return w, nil
}

// WriteCall appends a call to the trace. The signature definition is written
// inline the first time its ID is seen.
func (w *Writer) WriteCall(call *Call) error {
	idBits := uint64(call.Sig.ID) << 1
	if !w.seen[call.Sig.ID] {
		idBits |= 1
	}
	w.w.Uvarint(idBits)
	if !w.seen[call.Sig.ID] {
		w.w.String(call.Sig.Name)
		w.seen[call.Sig.ID] = true
	}
	w.w.Uvarint(uint64(call.ThreadID))
	w.w.Uvarint(uint64(call.Flags))
	w.w.Uvarint(call.No)
	w.w.Count(uint32(len(call.Args)))
	for _, arg := range call.Args {
		w.writeValue(arg)
	}
	return errors.Wrap(w.w.Error(), "writing call")
}

func (w *Writer) writeValue(v Value) {
	switch v := v.(type) {
	case Null:
		w.w.Uint8(tagNull)
	case Uint:
		w.w.Uint8(tagUint)
		w.w.Uvarint(uint64(v))
	case Int:
		w.w.Uint8(tagInt)
		w.w.Varint(int64(v))
	case *Array:
		w.w.Uint8(tagArray)
		w.w.Count(uint32(len(v.Values)))
		for _, e := range v.Values {
			w.writeValue(e)
		}
	case *Struct:
		w.w.Uint8(tagStruct)
		w.w.Count(uint32(len(v.Members)))
		for _, m := range v.Members {
			w.writeValue(m)
		}
	default:
		w.w.SetError(errors.Errorf("unencodable value type %T", v))
	}
}

// Close flushes the final chunk and closes the file.
func (w *Writer) Close() error {
	if err := w.w.Error(); err != nil {
		w.file.Close()
		return err
	}
	if err := w.cw.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
