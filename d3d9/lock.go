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

package d3d9

import (
	"github.com/pkg/errors"

	"github.com/Gurten/apitrace/trace"
)

// LockedRegion describes the host-visible byte range a LockRect call
// exposes for one sub-resource.
type LockedRegion struct {
	// Base is the address of the mapped bytes.
	Base uint64
	// Size is the byte length of the mapped range.
	Size uint64
	// Resource is the address of the owning texture.
	Resource uint64
	// Subresource is the mip level the lock covers.
	Subresource uint64
}

// LockGeometry decodes the region a LockRect call maps, using the texture's
// creation call for the format and full-surface dimensions.
//
// The lock's arg 2 is the returned D3DLOCKED_RECT (pitch, pBits), arg 3 the
// optional RECT restricting the lock. When the RECT is absent the whole
// top-level surface from the creation call's width and height is locked.
func LockGeometry(lock, creation *trace.Call) (LockedRegion, error) {
	var pitch int32
	var base uint64
	if arr := lock.Arg(2).ToArray(); arr != nil && len(arr.Values) > 0 {
		if s := arr.Values[0].ToStruct(); s != nil && len(s.Members) >= 2 {
			pitch = int32(s.Members[0].ToUint())
			base = s.Members[1].ToUint()
		}
	}

	var width, height uint32
	var haveRect bool
	if arr := lock.Arg(3).ToArray(); arr != nil && len(arr.Values) > 0 {
		s := arr.Values[0].ToStruct()
		if s == nil || len(s.Members) < 4 {
			return LockedRegion{}, errors.New("malformed lock rectangle")
		}
		left := s.Members[0].ToInt()
		top := s.Members[1].ToInt()
		right := s.Members[2].ToInt()
		bottom := s.Members[3].ToInt()
		if right < left || bottom < top {
			return LockedRegion{}, errors.Errorf("inverted lock rectangle (%d,%d)-(%d,%d)", left, top, right, bottom)
		}
		width = uint32(right - left)
		height = uint32(bottom - top)
		haveRect = true
	}
	if !haveRect {
		width = uint32(creation.Arg(1).ToUint())
		height = uint32(creation.Arg(2).ToUint())
	}

	format := Format(creation.Arg(5).ToInt())
	size, err := LockSize(format, width, height, pitch)
	if err != nil {
		return LockedRegion{}, err
	}
	return LockedRegion{
		Base:        base,
		Size:        size,
		Resource:    lock.Arg(0).ToUint(),
		Subresource: lock.Arg(1).ToUint(),
	}, nil
}
