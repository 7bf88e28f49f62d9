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

// Package d3d9 holds the Direct3D 9 knowledge needed to trim a capture:
// the opcode classification tables, the pixel format properties, and the
// decoding of texture lock geometry.
package d3d9

// Class is the semantic class of a recorded call.
type Class int

const (
	// Unknown is any opcode not present in the classification table.
	Unknown Class = iota
	// Ignored opcodes are known but carry no resource state.
	Ignored
	// Memcpy is a bulk copy into a mapped region.
	Memcpy
	// Map opens a sub-resource for host writes.
	Map
	// Unmap closes a previously mapped sub-resource.
	Unmap
	// Creation creates a texture resource.
	Creation
	// Refcount adjusts or queries object lifetime.
	Refcount
)

func (c Class) String() string {
	switch c {
	case Ignored:
		return "Ignored"
	case Memcpy:
		return "Memcpy"
	case Map:
		return "Map"
	case Unmap:
		return "Unmap"
	case Creation:
		return "Creation"
	case Refcount:
		return "Refcount"
	default:
		return "Unknown"
	}
}

// Classifier maps codec opcode ids to semantic classes. Ids drift between
// container versions, so the table is selected by ClassifierForVersion
// rather than baked into the caller.
type Classifier map[uint32]Class

// Classify returns the class of the opcode id.
func (c Classifier) Classify(id uint32) Class {
	return c[id]
}

// classifierV1 is the id table for version 1 containers.
var classifierV1 = Classifier{
	0: Memcpy,

	19:  Refcount, // IUnknown::AddRef
	20:  Refcount, // IUnknown::Release
	64:  Refcount,
	317: Refcount,
	196: Refcount, // IUnknown::QueryInterface
	80:  Refcount, // IDirect3DTexture9::GetSurfaceLevel

	81: Map,   // IDirect3DTexture9::LockRect
	82: Unmap, // IDirect3DTexture9::UnlockRect

	219: Creation, // IDirect3DDevice9::CreateTexture

	150: Ignored, // IDirect3DVertexBuffer9::Lock
	151: Ignored, // IDirect3DVertexBuffer9::Unlock
	199: Ignored, // IDirect3DDevice9::TestCooperativeLevel
	202: Ignored, // IDirect3DDevice9::GetDirect3D
	213: Ignored, // IDirect3DDevice9::Present
	222: Ignored, // IDirect3DDevice9::CreateVertexBuffer
	243: Ignored, // IDirect3DDevice9::SetViewport
	253: Ignored, // IDirect3DDevice9::SetRenderState
	261: Ignored, // IDirect3DDevice9::SetTexture
	265: Ignored, // IDirect3DDevice9::SetSamplerState
	282: Ignored, // IDirect3DDevice9::CreateVertexDeclaration
	283: Ignored, // IDirect3DDevice9::SetVertexDeclaration
	287: Ignored, // IDirect3DDevice9::CreateVertexShader
	288: Ignored, // IDirect3DDevice9::SetVertexShader
	290: Ignored, // IDirect3DDevice9::SetVertexShaderConstantF
	296: Ignored, // IDirect3DDevice9::SetStreamSource
	302: Ignored, // IDirect3DDevice9::CreatePixelShader
	303: Ignored, // IDirect3DDevice9::SetPixelShader
	305: Ignored, // IDirect3DDevice9::SetPixelShaderConstantF
	331: Ignored, // IDirect3D9::CreateDevice
	559: Ignored, // Direct3DCreate9
}

// ClassifierForVersion returns the opcode table for a container version.
// Unknown versions get the latest table.
func ClassifierForVersion(version uint32) Classifier {
	return classifierV1
}
