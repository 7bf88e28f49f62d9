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

package d3d9_test

import (
	"testing"

	"github.com/Gurten/apitrace/core/assert"
	"github.com/Gurten/apitrace/core/log"
	"github.com/Gurten/apitrace/d3d9"
	"github.com/Gurten/apitrace/trace"
)

func TestClassifier(t *testing.T) {
	ctx := log.Testing(t)
	c := d3d9.ClassifierForVersion(1)
	for _, test := range []struct {
		id    uint32
		class d3d9.Class
	}{
		{0, d3d9.Memcpy},
		{81, d3d9.Map},
		{82, d3d9.Unmap},
		{219, d3d9.Creation},
		{19, d3d9.Refcount},
		{20, d3d9.Refcount},
		{64, d3d9.Refcount},
		{317, d3d9.Refcount},
		{196, d3d9.Refcount},
		{80, d3d9.Refcount},
		{213, d3d9.Ignored},
		{559, d3d9.Ignored},
		{9999, d3d9.Unknown},
	} {
		assert.For(ctx, "id %d", test.id).That(c.Classify(test.id)).Equals(test.class)
	}
}

func TestLockSize(t *testing.T) {
	ctx := log.Testing(t)
	for _, test := range []struct {
		name   string
		format d3d9.Format
		w, h   uint32
		pitch  int32
		size   uint64
	}{
		{"linear", d3d9.FormatA8R8G8B8, 4, 4, 16, 64},
		{"linear wide pitch", d3d9.FormatX8R8G8B8, 4, 4, 32, 128},
		{"zero width", d3d9.FormatA8R8G8B8, 0, 4, 16, 0},
		{"zero height", d3d9.FormatA8R8G8B8, 4, 0, 16, 0},
		{"dxt1", d3d9.FormatDXT1, 8, 8, 16, 32},
		{"dxt5 rounds up", d3d9.FormatDXT5, 5, 5, 32, 64},
		{"nv12", d3d9.FormatNV12, 4, 4, 4, 24},
	} {
		size, err := d3d9.LockSize(test.format, test.w, test.h, test.pitch)
		assert.For(ctx, "%s error", test.name).ThatError(err).Succeeded()
		assert.For(ctx, "%s size", test.name).That(size).Equals(test.size)
	}
}

func TestLockSizeNegativePitch(t *testing.T) {
	ctx := log.Testing(t)
	_, err := d3d9.LockSize(d3d9.FormatA8R8G8B8, 4, 4, -16)
	assert.For(ctx, "negative pitch").ThatError(err).Failed()
}

func creationCall(width, height uint32, format d3d9.Format, addr uint64) *trace.Call {
	return &trace.Call{
		No:  1,
		Sig: &trace.Signature{ID: 219, Name: "IDirect3DDevice9::CreateTexture"},
		Args: []trace.Value{
			trace.Uint(0xD),
			trace.Uint(uint64(width)),
			trace.Uint(uint64(height)),
			trace.Uint(1),
			trace.Uint(0),
			trace.Int(int64(format)),
			trace.Uint(0),
			&trace.Array{Values: []trace.Value{trace.Uint(addr)}},
		},
	}
}

func lockCall(tex, sub, pBits uint64, pitch uint64, rect trace.Value) *trace.Call {
	return &trace.Call{
		No:  2,
		Sig: &trace.Signature{ID: 81, Name: "IDirect3DTexture9::LockRect"},
		Args: []trace.Value{
			trace.Uint(tex),
			trace.Uint(sub),
			&trace.Array{Values: []trace.Value{
				&trace.Struct{Members: []trace.Value{trace.Uint(pitch), trace.Uint(pBits)}},
			}},
			rect,
			trace.Uint(0),
		},
	}
}

func rectValue(left, top, right, bottom int64) trace.Value {
	return &trace.Array{Values: []trace.Value{
		&trace.Struct{Members: []trace.Value{
			trace.Int(left), trace.Int(top), trace.Int(right), trace.Int(bottom),
		}},
	}}
}

func TestLockGeometryFullSurface(t *testing.T) {
	ctx := log.Testing(t)
	creation := creationCall(4, 4, d3d9.FormatA8R8G8B8, 0x100)
	lock := lockCall(0x100, 0, 0x900, 16, trace.Null{})
	region, err := d3d9.LockGeometry(lock, creation)
	assert.For(ctx, "decode").ThatError(err).Succeeded()
	assert.For(ctx, "region").That(region).Equals(d3d9.LockedRegion{
		Base: 0x900, Size: 64, Resource: 0x100, Subresource: 0,
	})
}

func TestLockGeometryWithRect(t *testing.T) {
	ctx := log.Testing(t)
	creation := creationCall(64, 64, d3d9.FormatA8R8G8B8, 0x100)
	lock := lockCall(0x100, 2, 0x900, 256, rectValue(8, 8, 16, 12))
	region, err := d3d9.LockGeometry(lock, creation)
	assert.For(ctx, "decode").ThatError(err).Succeeded()
	assert.For(ctx, "region").That(region).Equals(d3d9.LockedRegion{
		Base: 0x900, Size: 1024, Resource: 0x100, Subresource: 2,
	})
}

func TestLockGeometryInvertedRect(t *testing.T) {
	ctx := log.Testing(t)
	creation := creationCall(64, 64, d3d9.FormatA8R8G8B8, 0x100)
	lock := lockCall(0x100, 0, 0x900, 256, rectValue(16, 16, 8, 8))
	_, err := d3d9.LockGeometry(lock, creation)
	assert.For(ctx, "decode").ThatError(err).Failed()
}
