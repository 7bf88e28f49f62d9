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

package flags_test

import (
	"testing"

	"github.com/Gurten/apitrace/core/app/flags"
	"github.com/Gurten/apitrace/core/assert"
	"github.com/Gurten/apitrace/core/log"
)

type testFlags struct {
	Name    string `help:"a name"`
	Count   int    `help:"a count"`
	Enable  bool   `name:"on" help:"a toggle"`
	Thread  []uint `help:"repeatable ids"`
	Nested  nested
	skipped int
}

type nested struct {
	Depth uint64 `help:"nesting depth"`
}

func TestBindAndParse(t *testing.T) {
	ctx := log.Testing(t)
	v := &testFlags{}
	s := &flags.Set{}
	s.Bind("", v, "")

	err := s.Parse(
		"-name", "squash",
		"-count", "3",
		"-on",
		"-thread", "1",
		"-thread", "2",
		"-nested-depth", "9",
		"positional",
	)
	assert.For(ctx, "parse").ThatError(err).Succeeded()
	assert.For(ctx, "name").That(v.Name).Equals("squash")
	assert.For(ctx, "count").That(v.Count).Equals(3)
	assert.For(ctx, "enable").That(v.Enable).IsTrue()
	assert.For(ctx, "threads").ThatSlice(v.Thread).Equals([]uint{1, 2})
	assert.For(ctx, "nested").That(v.Nested.Depth).Equals(uint64(9))
	assert.For(ctx, "args").ThatSlice(s.Args()).Equals([]string{"positional"})
	assert.For(ctx, "skipped").That(v.skipped).Equals(0)
}
