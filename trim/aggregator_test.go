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

package trim

import (
	"context"
	"testing"

	"github.com/Gurten/apitrace/core/assert"
	"github.com/Gurten/apitrace/core/log"
	"github.com/Gurten/apitrace/d3d9"
	"github.com/Gurten/apitrace/trace"
)

var (
	sigMemcpy     = &trace.Signature{ID: 0, Name: "memcpy"}
	sigLockRect   = &trace.Signature{ID: 81, Name: "IDirect3DTexture9::LockRect"}
	sigUnlockRect = &trace.Signature{ID: 82, Name: "IDirect3DTexture9::UnlockRect"}
	sigCreate     = &trace.Signature{ID: 219, Name: "IDirect3DDevice9::CreateTexture"}
	sigPresent    = &trace.Signature{ID: 213, Name: "IDirect3DDevice9::Present"}
)

// createTexture builds a 4x4 A8R8G8B8 texture creation call returning addr.
func createTexture(no uint64, addr uint64) *trace.Call {
	return &trace.Call{
		No:  no,
		Sig: sigCreate,
		Args: []trace.Value{
			trace.Uint(0xD),
			trace.Uint(4),
			trace.Uint(4),
			trace.Uint(1),
			trace.Uint(0),
			trace.Int(int64(d3d9.FormatA8R8G8B8)),
			trace.Uint(0),
			&trace.Array{Values: []trace.Value{trace.Uint(addr)}},
		},
	}
}

// lockRect builds a whole-surface lock mapping 64 bytes at pBits.
func lockRect(no uint64, tex, sub, pBits uint64) *trace.Call {
	return &trace.Call{
		No:  no,
		Sig: sigLockRect,
		Args: []trace.Value{
			trace.Uint(tex),
			trace.Uint(sub),
			&trace.Array{Values: []trace.Value{
				&trace.Struct{Members: []trace.Value{trace.Uint(16), trace.Uint(pBits)}},
			}},
			trace.Null{},
			trace.Uint(0),
		},
	}
}

func unlockRect(no uint64, tex, sub uint64) *trace.Call {
	return &trace.Call{
		No:   no,
		Sig:  sigUnlockRect,
		Args: []trace.Value{trace.Uint(tex), trace.Uint(sub)},
	}
}

func memcpyCall(no uint64, dest, length uint64) *trace.Call {
	return &trace.Call{
		No:   no,
		Sig:  sigMemcpy,
		Args: []trace.Value{trace.Uint(dest), trace.Uint(length)},
	}
}

func present(no uint64) *trace.Call {
	return &trace.Call{
		No:    no,
		Sig:   sigPresent,
		Flags: trace.CallFlagEndFrame,
		Args:  []trace.Value{trace.Uint(0)},
	}
}

func nos(calls []*trace.Call) []uint64 {
	out := make([]uint64, len(calls))
	for i, c := range calls {
		out[i] = c.No
	}
	return out
}

func feed(ctx context.Context, a *Aggregator, calls []*trace.Call) []bool {
	absorbed := make([]bool, len(calls))
	for i, c := range calls {
		absorbed[i] = a.AddCall(ctx, c)
	}
	return absorbed
}

func TestSingleLineage(t *testing.T) {
	ctx := log.Testing(t)
	a := NewAggregator(d3d9.ClassifierForVersion(1))
	absorbed := feed(ctx, a, []*trace.Call{
		createTexture(1, 0x100),
		lockRect(2, 0x100, 0, 0x900),
		memcpyCall(3, 0x900, 64),
		unlockRect(4, 0x100, 0),
		present(5),
	})
	assert.For(ctx, "absorbed").ThatSlice(absorbed).Equals([]bool{true, true, false, true, false})
	assert.For(ctx, "squashed").ThatSlice(nos(a.SquashedCalls())).Equals([]uint64{1, 2, 3, 4})
}

func TestOverwrittenLineage(t *testing.T) {
	ctx := log.Testing(t)
	a := NewAggregator(d3d9.ClassifierForVersion(1))
	feed(ctx, a, []*trace.Call{
		createTexture(1, 0x100),
		lockRect(2, 0x100, 0, 0x900),
		memcpyCall(3, 0x900, 64),
		unlockRect(4, 0x100, 0),
		lockRect(6, 0x100, 0, 0x900),
		memcpyCall(7, 0x900, 64),
		unlockRect(8, 0x100, 0),
	})
	assert.For(ctx, "squashed").ThatSlice(nos(a.SquashedCalls())).Equals([]uint64{1, 6, 7, 8})
}

func TestOrphanMemcpy(t *testing.T) {
	ctx := log.Testing(t)
	a := NewAggregator(d3d9.ClassifierForVersion(1))
	absorbed := feed(ctx, a, []*trace.Call{
		createTexture(1, 0x100),
		memcpyCall(2, 0xDEAD, 4),
	})
	assert.For(ctx, "absorbed").ThatSlice(absorbed).Equals([]bool{true, false})
	assert.For(ctx, "squashed").ThatSlice(nos(a.SquashedCalls())).Equals([]uint64{1})
}

func TestCrossResourceRouting(t *testing.T) {
	ctx := log.Testing(t)
	a := NewAggregator(d3d9.ClassifierForVersion(1))
	feed(ctx, a, []*trace.Call{
		createTexture(1, 0x100),
		createTexture(2, 0x200),
		lockRect(3, 0x100, 0, 0x900),
		lockRect(4, 0x200, 0, 0xA00),
		memcpyCall(5, 0xA10, 16),
		unlockRect(6, 0x100, 0),
		unlockRect(7, 0x200, 0),
	})
	assert.For(ctx, "squashed").
		ThatSlice(nos(a.SquashedCalls())).Equals([]uint64{1, 3, 6, 2, 4, 5, 7})
}

func TestOpenLineageAtCutover(t *testing.T) {
	ctx := log.Testing(t)
	a := NewAggregator(d3d9.ClassifierForVersion(1))
	feed(ctx, a, []*trace.Call{
		createTexture(1, 0x100),
		lockRect(2, 0x100, 0, 0x900),
		memcpyCall(3, 0x900, 64),
	})
	assert.For(ctx, "squashed").ThatSlice(nos(a.SquashedCalls())).Equals([]uint64{1, 2, 3})
}

func TestDuplicateCreation(t *testing.T) {
	ctx := log.Testing(t)
	a := NewAggregator(d3d9.ClassifierForVersion(1))
	first := createTexture(1, 0x100)
	absorbed := feed(ctx, a, []*trace.Call{first, createTexture(2, 0x100)})
	assert.For(ctx, "absorbed").ThatSlice(absorbed).Equals([]bool{true, true})
	squashed := a.SquashedCalls()
	assert.For(ctx, "squashed").ThatSlice(nos(squashed)).Equals([]uint64{1})
	assert.For(ctx, "original kept").That(squashed[0]).Equals(first)
}

func TestUnmapWithoutMap(t *testing.T) {
	ctx := log.Testing(t)
	a := NewAggregator(d3d9.ClassifierForVersion(1))
	feed(ctx, a, []*trace.Call{
		createTexture(1, 0x100),
		unlockRect(2, 0x100, 0),
	})
	assert.For(ctx, "squashed").ThatSlice(nos(a.SquashedCalls())).Equals([]uint64{1})
}

func TestDoubleLockKeepsRegionUnique(t *testing.T) {
	ctx := log.Testing(t)
	a := NewAggregator(d3d9.ClassifierForVersion(1))
	feed(ctx, a, []*trace.Call{
		createTexture(1, 0x100),
		lockRect(2, 0x100, 0, 0x900),
		lockRect(3, 0x100, 0, 0x900),
		memcpyCall(4, 0x900, 64),
	})
	assert.For(ctx, "one region").That(len(a.regions.regions)).Equals(1)
	assert.For(ctx, "squashed").ThatSlice(nos(a.SquashedCalls())).Equals([]uint64{1, 3, 4})
}

// Every squashed call must have been fed to the aggregator.
func TestSquashSubsetOfPrefix(t *testing.T) {
	ctx := log.Testing(t)
	a := NewAggregator(d3d9.ClassifierForVersion(1))
	prefix := []*trace.Call{
		createTexture(1, 0x100),
		lockRect(2, 0x100, 0, 0x900),
		memcpyCall(3, 0x900, 64),
		unlockRect(4, 0x100, 0),
		present(5),
		lockRect(6, 0x100, 1, 0xB00),
		memcpyCall(7, 0xB00, 32),
		unlockRect(8, 0x100, 1),
	}
	feed(ctx, a, prefix)
	seen := map[*trace.Call]bool{}
	for _, c := range prefix {
		seen[c] = true
	}
	for _, c := range a.SquashedCalls() {
		assert.For(ctx, "call %d from prefix", c.No).That(seen[c]).IsTrue()
	}
}

// Feeding the squashed output into a fresh aggregator reproduces it.
func TestSquashIsIdempotent(t *testing.T) {
	ctx := log.Testing(t)
	a := NewAggregator(d3d9.ClassifierForVersion(1))
	feed(ctx, a, []*trace.Call{
		createTexture(1, 0x100),
		lockRect(2, 0x100, 0, 0x900),
		memcpyCall(3, 0x900, 64),
		unlockRect(4, 0x100, 0),
		createTexture(5, 0x200),
		lockRect(6, 0x200, 0, 0xA00),
		memcpyCall(7, 0xA00, 64),
		unlockRect(8, 0x200, 0),
	})
	first := a.SquashedCalls()

	b := NewAggregator(d3d9.ClassifierForVersion(1))
	feed(ctx, b, first)
	assert.For(ctx, "replay").ThatSlice(nos(b.SquashedCalls())).Equals(nos(first))
}
