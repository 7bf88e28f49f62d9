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

// Value is a recorded argument value.
//
// The decode methods are permissive in the manner of the capture runtime:
// integer kinds coerce between signed and unsigned, and the aggregate kinds
// return nil when asked for the other aggregate. Null decodes as zero of
// everything.
type Value interface {
	// ToUint decodes the value as an unsigned integer.
	ToUint() uint64
	// ToInt decodes the value as a signed integer.
	ToInt() int64
	// ToArray decodes the value as an array, returning nil if it is not one.
	ToArray() *Array
	// ToStruct decodes the value as a struct, returning nil if it is not one.
	ToStruct() *Struct
}

// Null is the absent value.
type Null struct{}

func (Null) ToUint() uint64 { return 0 }
func (Null) ToInt() int64 { return 0 }
func (Null) ToArray() *Array { return nil }
func (Null) ToStruct() *Struct { return nil }

// Uint is an unsigned integer value.
type Uint uint64

func (v Uint) ToUint() uint64 { return uint64(v) }
func (v Uint) ToInt() int64 { return int64(v) }
func (v Uint) ToArray() *Array { return nil }
func (v Uint) ToStruct() *Struct { return nil }

// Int is a signed integer value.
type Int int64

func (v Int) ToUint() uint64 { return uint64(v) }
func (v Int) ToInt() int64 { return int64(v) }
func (v Int) ToArray() *Array { return nil }
func (v Int) ToStruct() *Struct { return nil }

// Array is an ordered collection of values.
type Array struct {
	Values []Value
}

func (v *Array) ToUint() uint64 { return 0 }
func (v *Array) ToInt() int64 { return 0 }
func (v *Array) ToArray() *Array { return v }
func (v *Array) ToStruct() *Struct { return nil }

// Struct is a collection of member values.
type Struct struct {
	Members []Value
}

func (v *Struct) ToUint() uint64 { return 0 }
func (v *Struct) ToInt() int64 { return 0 }
func (v *Struct) ToArray() *Array { return nil }
func (v *Struct) ToStruct() *Struct { return v }
