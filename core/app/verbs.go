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

package app

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/Gurten/apitrace/core/app/flags"
	"github.com/Gurten/apitrace/core/fault"
)

// ErrInvalidArguments is returned by VerbMain when the command line could
// not be dispatched to a verb.
const ErrInvalidArguments = fault.Const("invalid arguments")

// Verb holds information about a runnable command.
type Verb struct {
	// Name of the command.
	Name string
	// ShortHelp describes the purpose of the command.
	ShortHelp string
	// ShortUsage is help for how to use the command.
	ShortUsage string
	// Action is the object the verb's flags are bound to. If it implements
	// VerbAction its Run method is invoked on dispatch.
	Action interface{}
	// Flags are the command line flags the verb accepts.
	Flags flags.Set
}

// VerbAction is the interface for objects that implement a verb's behaviour.
type VerbAction interface {
	// Run performs the action associated with the verb.
	Run(ctx context.Context, flags flag.FlagSet) error
}

var verbs []*Verb

// AddVerb adds a new verb to the supported set. It panics if a duplicate
// name is registered.
func AddVerb(v *Verb) {
	for _, existing := range verbs {
		if existing.Name == v.Name {
			panic(fmt.Errorf("duplicate verb name %s", v.Name))
		}
	}
	if v.Action != nil {
		v.Flags.Bind("", v.Action, "")
	}
	verbs = append(verbs, v)
}

// FilterVerbs returns the verbs whose names match the specified prefix.
func FilterVerbs(prefix string) (result []*Verb) {
	for _, v := range verbs {
		if strings.HasPrefix(v.Name, prefix) {
			result = append(result, v)
		}
	}
	return result
}

// VerbMain dispatches the remaining command line to the selected verb.
// Hand it to Run to invoke the verb handling system.
func VerbMain(ctx context.Context) error {
	args := flag.Args()
	if len(args) < 1 {
		Usage(ctx, "Must supply a verb to %s", Name)
		return ErrInvalidArguments
	}
	matches := FilterVerbs(args[0])
	switch len(matches) {
	case 1:
		v := matches[0]
		v.Flags.Raw.Usage = func() {
			Usage(ctx, "usage of verb %s:", v.Name)
			v.Flags.Raw.PrintDefaults()
		}
		if err := v.Flags.Parse(args[1:]...); err != nil {
			return ErrInvalidArguments
		}
		if action, ok := v.Action.(VerbAction); ok {
			return action.Run(ctx, v.Flags.Raw)
		}
		return nil
	case 0:
		Usage(ctx, "Verb '%s' is unknown", args[0])
	default:
		Usage(ctx, "Verb '%s' is ambiguous", args[0])
	}
	return ErrInvalidArguments
}
