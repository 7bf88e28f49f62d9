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

// Package trim produces a smaller trace from an existing one by squashing
// the resource state built up over an initial prefix of the recording into
// a minimal call sequence per surviving resource, then re-emitting the
// remainder filtered by the user's call, frame and thread selection.
package trim

import (
	"context"

	"github.com/Gurten/apitrace/core/log"
	"github.com/Gurten/apitrace/d3d9"
	"github.com/Gurten/apitrace/trace"
)

// Aggregator tracks texture resources and their mapped-memory update
// lineages across a trace prefix.
type Aggregator struct {
	classifier d3d9.Classifier
	resources  map[uint64]*resource
	order      []uint64
	regions    regionIndex
}

// NewAggregator returns an empty aggregator classifying opcodes with the
// given table.
func NewAggregator(classifier d3d9.Classifier) *Aggregator {
	return &Aggregator{
		classifier: classifier,
		resources:  map[uint64]*resource{},
	}
}

// AddCall feeds one prefix call into the aggregator. It returns true when
// the aggregator has taken responsibility for representing the call in its
// squashed output, so the caller can suppress the call on re-emission.
func (a *Aggregator) AddCall(ctx context.Context, call *trace.Call) bool {
	switch a.classifier.Classify(call.Sig.ID) {
	case d3d9.Creation:
		arr := call.Arg(7).ToArray()
		if arr == nil || len(arr.Values) == 0 {
			log.W(ctx, "texture creation %d returned null", call.No)
			return false
		}
		addr := arr.Values[0].ToUint()
		if _, exists := a.resources[addr]; exists {
			log.W(ctx, "texture 0x%x already created", addr)
			return true
		}
		a.resources[addr] = newResource(addr, call, &a.regions)
		a.order = append(a.order, addr)
		return true

	case d3d9.Map:
		addr := call.Arg(0).ToUint()
		r, ok := a.resources[addr]
		if !ok {
			log.W(ctx, "locking nonexistent texture 0x%x", addr)
			return true
		}
		r.onMap(ctx, call)
		return true

	case d3d9.Unmap:
		addr := call.Arg(0).ToUint()
		r, ok := a.resources[addr]
		if !ok {
			log.W(ctx, "unlocking nonexistent texture 0x%x", addr)
			return true
		}
		r.onUnmap(ctx, call)
		return true

	case d3d9.Memcpy:
		dest := call.Arg(0).ToUint()
		length := call.Arg(1).ToUint()
		region, ok := a.regions.findContaining(dest, length)
		if !ok {
			log.W(ctx, "memcpy to 0x%x does not affect any resource", dest)
			return false
		}
		r, ok := a.resources[region.Resource]
		if !ok {
			log.W(ctx, "memcpy for nonexistent resource 0x%x", region.Resource)
			return false
		}
		r.onMemcpy(ctx, call)
		// The capture runtime never claims memcpy calls, so the driver
		// still emits unsquashed ones through the ordinary selection
		// path.
		return false

	default:
		return false
	}
}

// SquashedCalls returns, for every resource in creation order, the minimal
// call sequence that reconstructs its state. Resources cannot share calls,
// so no deduplication is needed.
func (a *Aggregator) SquashedCalls() []*trace.Call {
	var out []*trace.Call
	for _, addr := range a.order {
		out = append(out, a.resources[addr].flatten()...)
	}
	return out
}
