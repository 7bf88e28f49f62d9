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
	"bytes"
	"fmt"

	"github.com/google/go-cmp/cmp"
)

// Assertion is the in-progress assertion builder.
// Methods on the On* types commit the assertion, reporting a failure to the
// output target if the test did not hold.
type Assertion struct {
	to    Output
	title string
	extra bytes.Buffer
}

// Compare records the value being tested and the expectation for failure
// reporting.
func (a *Assertion) Compare(value interface{}, op string, expect interface{}) *Assertion {
	fmt.Fprintf(&a.extra, "\n    Got       %v", value)
	fmt.Fprintf(&a.extra, "\n    Expect %s %v", op, expect)
	return a
}

// Rawf appends a raw line to the failure report.
func (a *Assertion) Rawf(f string, args ...interface{}) *Assertion {
	fmt.Fprintf(&a.extra, "\n    "+f, args...)
	return a
}

// Test commits the assertion, reporting a failure if pass is false.
// It returns pass.
func (a *Assertion) Test(pass bool) bool {
	if !pass {
		a.to.Error(a.title + a.extra.String())
	}
	return pass
}

// TestDeepDiff commits the assertion, comparing value against expect with
// go-cmp and reporting the diff on mismatch.
func (a *Assertion) TestDeepDiff(value, expect interface{}, opts ...cmp.Option) bool {
	diff := cmp.Diff(expect, value, opts...)
	if diff != "" {
		a.Rawf("Diff (-expect +got):\n%s", diff)
	}
	return a.Test(diff == "")
}
