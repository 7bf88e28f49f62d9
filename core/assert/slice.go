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

package assert

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// OnSlice is the result of calling ThatSlice on an Assertion.
// It provides assertion tests that are specific to slice types.
type OnSlice struct {
	assertion *Assertion
	slice     interface{}
}

// ThatSlice returns an OnSlice for slice type assertions.
func (a *Assertion) ThatSlice(slice interface{}) OnSlice {
	return OnSlice{assertion: a, slice: slice}
}

// IsEmpty asserts that the slice has no elements.
func (o OnSlice) IsEmpty() bool {
	v := reflect.ValueOf(o.slice)
	return o.assertion.Compare(o.slice, "length ==", 0).Test(v.Len() == 0)
}

// IsLength asserts that the slice has exactly the specified number of
// elements.
func (o OnSlice) IsLength(length int) bool {
	v := reflect.ValueOf(o.slice)
	return o.assertion.Compare(o.slice, "length ==", length).Test(v.Len() == length)
}

// Equals asserts the slice matches expect, treating nil and empty slices as
// equal.
func (o OnSlice) Equals(expect interface{}) bool {
	return o.assertion.TestDeepDiff(o.slice, expect, cmpopts.EquateEmpty())
}

// DeepEquals asserts the slice matches expect using a deep comparison.
func (o OnSlice) DeepEquals(expect interface{}) bool {
	return o.assertion.TestDeepDiff(o.slice, expect, cmpopts.EquateEmpty(),
		cmp.Exporter(func(reflect.Type) bool { return true }))
}
