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
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/Gurten/apitrace/core/data/binary"
	"github.com/Gurten/apitrace/core/fault"
)

// Value tags on the wire.
const (
	tagNull   = 0
	tagUint   = 1
	tagInt    = 2
	tagArray  = 3
	tagStruct = 4
)

// ErrUnexpectedEOF is returned when a trace file ends in the middle of a
// call record.
const ErrUnexpectedEOF = fault.Const("truncated call record")

// Bookmark identifies a call boundary in a trace file. A parser positioned
// at a bookmark re-reads the same call sequence it saw the first time.
type Bookmark struct {
	// Offset is the file offset of the compressed chunk.
	Offset int64
	// Pos is the decompressed byte offset within the chunk.
	Pos int
}

// Parser reads calls from a trace file in order, with the ability to rewind
// to a previously taken bookmark.
type Parser struct {
	file       *os.File
	cr         *chunkReader
	r          *binary.Reader
	version    uint32
	properties map[string]string
	sigs       map[uint32]*Signature
}

// Open opens the trace file at path and reads its header.
func Open(path string) (*Parser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	cr, err := newChunkReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	p := &Parser{
		file: file,
		cr:   cr,
		r:    binary.NewReader(cr),
		sigs: map[uint32]*Signature{},
	}
	p.version = uint32(p.r.Uvarint())
	count := p.r.Count()
	p.properties = make(map[string]string, count)
	for i := uint32(0); i < count; i++ {
		k := p.r.String()
		v := p.r.String()
		p.properties[k] = v
	}
	if err := p.r.Error(); err != nil {
		file.Close()
		return nil, errors.Wrap(err, "reading trace header")
	}
	return p, nil
}

// Close closes the underlying file.
func (p *Parser) Close() error {
	return p.file.Close()
}

// Version returns the container version recorded in the header.
func (p *Parser) Version() uint32 {
	return p.version
}

// Properties returns the key-value properties recorded in the header.
func (p *Parser) Properties() map[string]string {
	return p.properties
}

// Bookmark returns the position of the next call to be parsed.
func (p *Parser) Bookmark() Bookmark {
	offset, pos := p.cr.tell()
	return Bookmark{Offset: offset, Pos: pos}
}

// SetBookmark repositions the parser at a bookmark previously returned by
// Bookmark. Signatures seen before the bookmark was taken remain known.
func (p *Parser) SetBookmark(b Bookmark) error {
	if err := p.cr.seek(b.Offset, b.Pos); err != nil {
		return errors.Wrap(err, "seeking to bookmark")
	}
	p.r = binary.NewReader(p.cr)
	return nil
}

// ParseCall reads and returns the next call, or io.EOF at the end of the
// trace.
func (p *Parser) ParseCall() (*Call, error) {
	idBits := p.r.Uvarint()
	if err := p.r.Error(); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, "reading call signature")
	}
	sigID := uint32(idBits >> 1)
	sig := p.sigs[sigID]
	if idBits&1 != 0 {
		name := p.r.String()
		if sig == nil {
			sig = &Signature{ID: sigID, Name: name}
			p.sigs[sigID] = sig
		}
	}
	if sig == nil {
		return nil, errors.Errorf("call references undefined signature %d", sigID)
	}
	call := &Call{
		Sig:      sig,
		ThreadID: uint32(p.r.Uvarint()),
		Flags:    CallFlags(p.r.Uvarint()),
		No:       p.r.Uvarint(),
	}
	argCount := p.r.Count()
	call.Args = make([]Value, argCount)
	for i := range call.Args {
		call.Args[i] = p.parseValue()
	}
	if err := p.r.Error(); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrUnexpectedEOF
		}
		return nil, errors.Wrap(err, "reading call")
	}
	return call, nil
}

func (p *Parser) parseValue() Value {
	switch tag := p.r.Uint8(); tag {
	case tagNull:
		return Null{}
	case tagUint:
		return Uint(p.r.Uvarint())
	case tagInt:
		return Int(p.r.Varint())
	case tagArray:
		count := p.r.Count()
		arr := &Array{Values: make([]Value, count)}
		for i := range arr.Values {
			arr.Values[i] = p.parseValue()
		}
		return arr
	case tagStruct:
		count := p.r.Count()
		str := &Struct{Members: make([]Value, count)}
		for i := range str.Members {
			str.Members[i] = p.parseValue()
		}
		return str
	default:
		p.r.SetError(errors.Errorf("unknown value tag %d", tag))
		return Null{}
	}
}
