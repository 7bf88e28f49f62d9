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

// Package trace implements the API trace container codec.
//
// A trace file is a forward-only sequence of recorded API calls. Calls are
// stored in snappy-compressed chunks so that a parser can bookmark a
// position and later rewind to it without re-reading the file.
package trace

// CallFlags is a bitset of properties of a recorded call.
type CallFlags uint32

const (
	// CallFlagEndFrame marks the last call of a frame.
	CallFlagEndFrame CallFlags = 1 << 0
	// CallFlagIncomplete marks a call whose return was never recorded.
	CallFlagIncomplete CallFlags = 1 << 1
)

// Signature describes a recorded function.
type Signature struct {
	// ID is the numeric identifier of the function within the trace.
	ID uint32
	// Name is the function name.
	Name string
}

// Call is a single recorded API invocation.
type Call struct {
	// No is the sequence number of the call within the trace.
	No uint64
	// ThreadID identifies the thread the call was recorded on.
	ThreadID uint32
	// Flags holds the properties of the call.
	Flags CallFlags
	// Sig is the signature of the invoked function.
	Sig *Signature
	// Args holds the recorded argument values.
	Args []Value
}

// Name returns the name of the invoked function.
func (c *Call) Name() string {
	return c.Sig.Name
}

// Arg returns the i'th argument value, or Null if the call has fewer
// arguments.
func (c *Call) Arg(i int) Value {
	if i < 0 || i >= len(c.Args) {
		return Null{}
	}
	return c.Args[i]
}
