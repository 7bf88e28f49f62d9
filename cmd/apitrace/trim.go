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

package main

import (
	"context"
	"flag"

	"github.com/Gurten/apitrace/core/app"
	"github.com/Gurten/apitrace/trace"
	"github.com/Gurten/apitrace/trim"
)

type trimVerb struct {
	Calls  trace.CallSet `help:"include the specified calls in the trimmed output"`
	Frames trace.CallSet `help:"include the specified frames in the trimmed output"`
	Thread []uint        `help:"only retain calls from the specified thread (repeatable)"`
	Squash uint          `name:"squash-until-frame" help:"collapse resource state built over the first N frames"`
	Out    string        `name:"output" help:"the output trace file"`
}

func init() {
	verb := &trimVerb{}
	v := &app.Verb{
		Name:       "trim",
		ShortHelp:  "Create a new trace by trimming an existing trace",
		ShortUsage: "[flags] <trace file>",
		Action:     verb,
	}
	app.AddVerb(v)
	v.Flags.Raw.StringVar(&verb.Out, "o", "", "short form of -output")
}

func (v *trimVerb) Run(ctx context.Context, flags flag.FlagSet) error {
	if flags.NArg() != 1 {
		app.Usage(ctx, "trim requires exactly one trace file, got %d arguments", flags.NArg())
		return app.ErrInvalidArguments
	}
	threads := make([]uint32, len(v.Thread))
	for i, id := range v.Thread {
		threads[i] = uint32(id)
	}
	return trim.Trim(ctx, flags.Arg(0), &trim.Options{
		Calls:            v.Calls,
		Frames:           v.Frames,
		Threads:          threads,
		SquashUntilFrame: uint32(v.Squash),
		Output:           v.Out,
	})
}
