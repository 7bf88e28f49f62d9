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
	"sort"

	"github.com/Gurten/apitrace/core/fault"
	"github.com/Gurten/apitrace/d3d9"
)

const (
	// ErrDuplicateRegion is returned when inserting a region whose base is
	// already indexed.
	ErrDuplicateRegion = fault.Const("region base already mapped")
	// ErrMissingRegion is returned when erasing a base that is not indexed.
	ErrMissingRegion = fault.Const("region base not mapped")
)

// regionIndex is the set of currently mapped regions, ordered by base
// address. At most one region per base is held; when a malformed trace maps
// overlapping regions, lookups resolve to the region with the greatest base
// not above the queried address.
type regionIndex struct {
	regions []d3d9.LockedRegion
}

// search returns the position of the first region with base >= b.
func (x *regionIndex) search(b uint64) int {
	return sort.Search(len(x.regions), func(i int) bool {
		return x.regions[i].Base >= b
	})
}

func (x *regionIndex) insert(r d3d9.LockedRegion) error {
	i := x.search(r.Base)
	if i < len(x.regions) && x.regions[i].Base == r.Base {
		return ErrDuplicateRegion
	}
	x.regions = append(x.regions, d3d9.LockedRegion{})
	copy(x.regions[i+1:], x.regions[i:])
	x.regions[i] = r
	return nil
}

func (x *regionIndex) erase(base uint64) error {
	i := x.search(base)
	if i >= len(x.regions) || x.regions[i].Base != base {
		return ErrMissingRegion
	}
	x.regions = append(x.regions[:i], x.regions[i+1:]...)
	return nil
}

// findContaining returns the region containing [addr, addr+length).
func (x *regionIndex) findContaining(addr, length uint64) (d3d9.LockedRegion, bool) {
	i := sort.Search(len(x.regions), func(i int) bool {
		return x.regions[i].Base > addr
	})
	if i == 0 {
		return d3d9.LockedRegion{}, false
	}
	r := x.regions[i-1]
	if addr+length <= r.Base+r.Size {
		return r, true
	}
	return d3d9.LockedRegion{}, false
}
