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
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/Gurten/apitrace/core/app"
	"github.com/Gurten/apitrace/core/log"
	"github.com/Gurten/apitrace/trace"
)

type infoVerb struct{}

func init() {
	app.AddVerb(&app.Verb{
		Name:       "info",
		ShortHelp:  "Print summary information about a trace file",
		ShortUsage: "<trace file>",
		Action:     &infoVerb{},
	})
}

func (infoVerb) Run(ctx context.Context, flags flag.FlagSet) error {
	if flags.NArg() != 1 {
		app.Usage(ctx, "info requires exactly one trace file, got %d arguments", flags.NArg())
		return app.ErrInvalidArguments
	}
	parser, err := trace.Open(flags.Arg(0))
	if err != nil {
		return err
	}
	defer parser.Close()

	calls, frames := uint64(0), uint64(0)
	byThread := map[uint32]uint64{}
	for {
		call, err := parser.ParseCall()
		if err == io.EOF {
			break
		}
		if err == trace.ErrUnexpectedEOF {
			log.W(ctx, "trace is truncated after %d calls", calls)
			break
		}
		if err != nil {
			return err
		}
		calls++
		byThread[call.ThreadID]++
		if call.Flags&trace.CallFlagEndFrame != 0 {
			frames++
		}
	}

	w := os.Stdout
	fmt.Fprintf(w, "Version: %d\n", parser.Version())
	props := parser.Properties()
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s: %s\n", k, props[k])
	}
	fmt.Fprintf(w, "Calls: %d\n", calls)
	fmt.Fprintf(w, "Frames: %d\n", frames)
	threads := make([]uint32, 0, len(byThread))
	for id := range byThread {
		threads = append(threads, id)
	}
	sort.Slice(threads, func(i, j int) bool { return threads[i] < threads[j] })
	for _, id := range threads {
		fmt.Fprintf(w, "Thread %d: %d calls\n", id, byThread[id])
	}
	return nil
}
