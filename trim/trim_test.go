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
	"io"
	"path/filepath"
	"testing"

	"github.com/Gurten/apitrace/core/assert"
	"github.com/Gurten/apitrace/core/log"
	"github.com/Gurten/apitrace/trace"
)

func writeTrace(ctx context.Context, t *testing.T, calls []*trace.Call) string {
	path := filepath.Join(t.TempDir(), "in.trace")
	w, err := trace.Create(path, 1, map[string]string{"api": "d3d9"})
	assert.For(ctx, "create input").ThatError(err).Succeeded()
	for _, c := range calls {
		assert.For(ctx, "write input %d", c.No).ThatError(w.WriteCall(c)).Succeeded()
	}
	assert.For(ctx, "close input").ThatError(w.Close()).Succeeded()
	return path
}

func readNos(ctx context.Context, t *testing.T, path string) []uint64 {
	p, err := trace.Open(path)
	assert.For(ctx, "open output").ThatError(err).Succeeded()
	defer p.Close()
	var out []uint64
	for {
		call, err := p.ParseCall()
		if err == io.EOF {
			break
		}
		assert.For(ctx, "parse output").ThatError(err).Succeeded()
		out = append(out, call.No)
	}
	return out
}

func TestTrimSquashesPrefix(t *testing.T) {
	ctx := log.Testing(t)
	input := writeTrace(ctx, t, []*trace.Call{
		createTexture(1, 0x100),
		lockRect(2, 0x100, 0, 0x900),
		memcpyCall(3, 0x900, 64),
		unlockRect(4, 0x100, 0),
		lockRect(5, 0x100, 0, 0x900),
		memcpyCall(6, 0x900, 64),
		unlockRect(7, 0x100, 0),
		present(8),
	})
	output := filepath.Join(t.TempDir(), "out.trace")
	err := Trim(ctx, input, &Options{SquashUntilFrame: 1, Output: output})
	assert.For(ctx, "trim").ThatError(err).Succeeded()

	// The discarded first lineage keeps its memcpy: memcpy calls are never
	// claimed by the aggregator, so call 3 still flows through the ordinary
	// selection path.
	got := readNos(ctx, t, output)
	assert.For(ctx, "output").ThatSlice(got).Equals([]uint64{1, 3, 5, 6, 7, 8})

	for i := 1; i < len(got); i++ {
		assert.For(ctx, "ordering at %d", i).That(got[i] > got[i-1]).IsTrue()
	}
}

func TestTrimWholeLineageSurvives(t *testing.T) {
	ctx := log.Testing(t)
	input := writeTrace(ctx, t, []*trace.Call{
		createTexture(1, 0x100),
		lockRect(2, 0x100, 0, 0x900),
		memcpyCall(3, 0x900, 64),
		unlockRect(4, 0x100, 0),
		present(5),
	})
	output := filepath.Join(t.TempDir(), "out.trace")
	err := Trim(ctx, input, &Options{SquashUntilFrame: 1, Output: output})
	assert.For(ctx, "trim").ThatError(err).Succeeded()
	assert.For(ctx, "output").
		ThatSlice(readNos(ctx, t, output)).Equals([]uint64{1, 2, 3, 4, 5})
}

func TestTrimThreadFilter(t *testing.T) {
	ctx := log.Testing(t)
	input := writeTrace(ctx, t, []*trace.Call{
		{No: 10, ThreadID: 1, Sig: sigPresent, Args: []trace.Value{trace.Uint(0)}},
		{No: 11, ThreadID: 2, Sig: sigPresent, Args: []trace.Value{trace.Uint(0)}},
	})
	output := filepath.Join(t.TempDir(), "out.trace")
	err := Trim(ctx, input, &Options{Threads: []uint32{2}, Output: output})
	assert.For(ctx, "trim").ThatError(err).Succeeded()
	assert.For(ctx, "output").ThatSlice(readNos(ctx, t, output)).Equals([]uint64{11})
}

func TestTrimCallRange(t *testing.T) {
	ctx := log.Testing(t)
	var calls []*trace.Call
	for no := uint64(1); no <= 5; no++ {
		calls = append(calls, &trace.Call{No: no, Sig: sigPresent, Args: []trace.Value{trace.Uint(0)}})
	}
	input := writeTrace(ctx, t, calls)

	opts := &Options{Output: filepath.Join(t.TempDir(), "out.trace")}
	assert.For(ctx, "callset").ThatError(opts.Calls.Merge("2-3")).Succeeded()
	assert.For(ctx, "trim").ThatError(Trim(ctx, input, opts)).Succeeded()
	assert.For(ctx, "output").
		ThatSlice(readNos(ctx, t, opts.Output)).Equals([]uint64{2, 3})
}

func TestTrimFrameSelection(t *testing.T) {
	ctx := log.Testing(t)
	input := writeTrace(ctx, t, []*trace.Call{
		present(1),
		{No: 2, Sig: sigPresent, Args: []trace.Value{trace.Uint(0)}},
		present(3),
		present(4),
	})
	opts := &Options{Output: filepath.Join(t.TempDir(), "out.trace")}
	assert.For(ctx, "frameset").ThatError(opts.Frames.Merge("1")).Succeeded()
	assert.For(ctx, "trim").ThatError(Trim(ctx, input, opts)).Succeeded()
	assert.For(ctx, "output").
		ThatSlice(readNos(ctx, t, opts.Output)).Equals([]uint64{2, 3})
}

func TestTrimDefaultOutputPath(t *testing.T) {
	ctx := log.Testing(t)
	opts := &Options{}
	assert.For(ctx, "derived").
		That(opts.OutputPath("captures/game.trace")).Equals("captures/game-trim.trace")
	opts.Output = "explicit.trace"
	assert.For(ctx, "explicit").That(opts.OutputPath("whatever.trace")).Equals("explicit.trace")
}

func TestTrimMissingInput(t *testing.T) {
	ctx := log.Testing(t)
	err := Trim(ctx, filepath.Join(t.TempDir(), "nope.trace"), &Options{})
	assert.For(ctx, "trim").ThatError(err).Failed()
}
