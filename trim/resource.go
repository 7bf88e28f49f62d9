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
	"strings"

	"github.com/Gurten/apitrace/core/log"
	"github.com/Gurten/apitrace/d3d9"
	"github.com/Gurten/apitrace/trace"
)

// resource tracks one live texture: its creation call, the open map
// lineage per sub-resource, and the last committed map-to-unmap lineage
// per sub-resource. The region index is borrowed from the owning
// aggregator.
type resource struct {
	addr           uint64
	creation       *trace.Call
	refCount       int
	activeMapCount int
	regions        *regionIndex
	staging        map[uint64][]*trace.Call
	committed      map[uint64][]*trace.Call
	subOrder       []uint64
}

func newResource(addr uint64, creation *trace.Call, regions *regionIndex) *resource {
	return &resource{
		addr:      addr,
		creation:  creation,
		refCount:  1,
		regions:   regions,
		staging:   map[uint64][]*trace.Call{},
		committed: map[uint64][]*trace.Call{},
	}
}

// noteSub records the first time a sub-resource index is touched so that
// flatten can walk sub-resources in the order the trace introduced them.
func (r *resource) noteSub(sub uint64) {
	if _, seen := r.staging[sub]; seen {
		return
	}
	if _, seen := r.committed[sub]; seen {
		return
	}
	r.subOrder = append(r.subOrder, sub)
}

// onMap starts a fresh staging lineage for the locked sub-resource and
// indexes the mapped region.
func (r *resource) onMap(ctx context.Context, call *trace.Call) {
	region, err := d3d9.LockGeometry(call, r.creation)
	if err != nil {
		log.E(ctx, "malformed lock geometry in call %d: %v", call.No, err)
		return
	}
	sub := call.Arg(1).ToUint()
	r.noteSub(sub)
	if len(r.staging[sub]) > 0 {
		log.W(ctx, "throwing away texture operations on 0x%x sub %d", r.addr, sub)
	}
	r.staging[sub] = []*trace.Call{call}
	r.activeMapCount++
	if err := r.regions.insert(region); err != nil {
		log.W(ctx, "texture 0x%x was already locked at 0x%x", r.addr, region.Base)
	}
}

// onMemcpy appends a copy into a mapped region to the staging lineage of
// the sub-resource owning that region.
func (r *resource) onMemcpy(ctx context.Context, call *trace.Call) {
	dest := call.Arg(0).ToUint()
	length := call.Arg(1).ToUint()
	region, ok := r.regions.findContaining(dest, length)
	if !ok {
		log.W(ctx, "no regions matched for memcpy to 0x%x", dest)
		return
	}
	if region.Resource != r.addr {
		log.E(ctx, "memcpy routed to texture 0x%x but region belongs to 0x%x", r.addr, region.Resource)
		return
	}
	if len(r.staging[region.Subresource]) == 0 {
		log.W(ctx, "memcpy for unmapped region 0x%x", region.Base)
		return
	}
	r.staging[region.Subresource] = append(r.staging[region.Subresource], call)
}

// onUnmap closes the staging lineage of the unlocked sub-resource,
// replacing any previously committed lineage for it.
func (r *resource) onUnmap(ctx context.Context, call *trace.Call) {
	sub := call.Arg(1).ToUint()
	staging := r.staging[sub]
	if len(staging) == 0 || !strings.HasSuffix(staging[0].Name(), "LockRect") {
		log.W(ctx, "insufficient information to unmap texture 0x%x sub %d", r.addr, sub)
		return
	}
	region, err := d3d9.LockGeometry(staging[0], r.creation)
	if err != nil {
		log.E(ctx, "malformed lock geometry in call %d: %v", staging[0].No, err)
		return
	}
	indexed, ok := r.regions.findContaining(region.Base, region.Size)
	if !ok {
		log.W(ctx, "no regions matched for unmap of 0x%x", region.Base)
		return
	}
	r.regions.erase(indexed.Base)
	r.committed[sub] = append(staging, call)
	delete(r.staging, sub)
	r.activeMapCount--
}

// flatten returns the minimal call sequence reconstructing the resource:
// its creation, then each sub-resource's committed lineage, then any
// still-open staging lineage. The open lineage is kept so that later calls
// referring to the mapped pointer stay well defined.
func (r *resource) flatten() []*trace.Call {
	if r.refCount <= 0 {
		return nil
	}
	out := []*trace.Call{r.creation}
	for _, sub := range r.subOrder {
		out = append(out, r.committed[sub]...)
	}
	for _, sub := range r.subOrder {
		out = append(out, r.staging[sub]...)
	}
	return out
}
