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

import "github.com/pkg/errors"

// Format is a D3DFORMAT pixel format code.
type Format uint32

func fourCC(a, b, c, d byte) Format {
	return Format(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

// The linear formats use their D3DFORMAT ordinal; the compressed and
// planar formats are FOURCC codes.
const (
	FormatUnknown      Format = 0
	FormatR8G8B8       Format = 20
	FormatA8R8G8B8     Format = 21
	FormatX8R8G8B8     Format = 22
	FormatR5G6B5       Format = 23
	FormatX1R5G5B5     Format = 24
	FormatA1R5G5B5     Format = 25
	FormatA4R4G4B4     Format = 26
	FormatA8           Format = 28
	FormatA2B10G10R10  Format = 31
	FormatA8B8G8R8     Format = 32
	FormatG16R16       Format = 34
	FormatA2R10G10B10  Format = 35
	FormatA16B16G16R16 Format = 36
	FormatL8           Format = 50
	FormatA8L8         Format = 51
	FormatD16          Format = 80
	FormatL16          Format = 81
)

var (
	FormatDXT1 = fourCC('D', 'X', 'T', '1')
	FormatDXT2 = fourCC('D', 'X', 'T', '2')
	FormatDXT3 = fourCC('D', 'X', 'T', '3')
	FormatDXT4 = fourCC('D', 'X', 'T', '4')
	FormatDXT5 = fourCC('D', 'X', 'T', '5')
	FormatNV12 = fourCC('N', 'V', '1', '2')
	FormatYV12 = fourCC('Y', 'V', '1', '2')
)

// BlockCompressed reports whether the format packs 4x4 texel blocks.
func (f Format) BlockCompressed() bool {
	switch f {
	case FormatDXT1, FormatDXT2, FormatDXT3, FormatDXT4, FormatDXT5:
		return true
	}
	return false
}

// planar reports whether the format carries chroma rows after the luma
// plane.
func (f Format) planar() bool {
	return f == FormatNV12 || f == FormatYV12
}

// LockSize returns the byte length of a locked surface region. The height
// is the number of texel rows in the locked rectangle (or the whole
// surface); block-compressed formats store four texel rows per pitch row,
// planar formats append half-height chroma rows.
func LockSize(format Format, width, height uint32, pitch int32) (uint64, error) {
	if width == 0 || height == 0 {
		return 0, nil
	}
	if pitch < 0 {
		return 0, errors.Errorf("negative row pitch %d", pitch)
	}
	rows := uint64(height)
	if format.BlockCompressed() {
		rows = (rows + 3) / 4
	}
	if format.planar() {
		rows += (rows + 1) / 2
	}
	return rows * uint64(pitch), nil
}
