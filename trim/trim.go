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

package trim

import (
	"context"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/Gurten/apitrace/core/log"
	"github.com/Gurten/apitrace/d3d9"
	"github.com/Gurten/apitrace/trace"
)

// Options selects what the trimmed trace keeps.
type Options struct {
	// Calls are the call numbers to include in the output.
	Calls trace.CallSet
	// Frames are the frame numbers to include in the output.
	Frames trace.CallSet
	// Threads restricts emission to the listed thread ids. Empty means all
	// threads.
	Threads []uint32
	// SquashUntilFrame is the number of leading frames to collapse into
	// per-resource state reconstruction sequences.
	SquashUntilFrame uint32
	// Output is the path of the trimmed trace. Empty derives
	// <input>-trim.trace from the input path.
	Output string
}

// OutputPath returns the output path, deriving it from the input path when
// unset.
func (o *Options) OutputPath(input string) string {
	if o.Output != "" {
		return o.Output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "-trim.trace"
}

// Trim reads the trace at path and writes the trimmed trace selected by
// opts.
//
// The prefix up to the squash cutover is read once into an aggregator,
// recording per call whether the aggregator absorbed it. The trace is then
// rewound and re-read; absorbed calls are dropped except at the positions
// of the aggregator's chosen survivors, and everything emitted must also
// pass the call, frame and thread selection.
func Trim(ctx context.Context, path string, opts *Options) error {
	parser, err := trace.Open(path)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", path)
	}
	defer parser.Close()

	output := opts.OutputPath(path)
	writer, err := trace.Create(output, parser.Version(), parser.Properties())
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", output)
	}

	calls, frames := opts.Calls, opts.Frames
	if calls.Empty() && frames.Empty() {
		calls.Merge("*")
	}
	threads := map[uint32]bool{}
	for _, id := range opts.Threads {
		threads[id] = true
	}

	aggregator := NewAggregator(d3d9.ClassifierForVersion(parser.Version()))
	bookmark := parser.Bookmark()

	// Phase A: sweep the prefix into the aggregator.
	var absorbed []bool
	frame := uint32(0)
	for frame < opts.SquashUntilFrame {
		call, err := parser.ParseCall()
		if err == io.EOF {
			break
		}
		if err != nil {
			writer.Close()
			return errors.Wrap(err, "parsing prefix")
		}
		flags := call.Flags
		absorbed = append(absorbed, aggregator.AddCall(ctx, call))
		if flags&trace.CallFlagEndFrame != 0 {
			frame++
		}
	}

	// Phase B: collect survivors, ordered by descending sequence number so
	// they pop from the back in trace order.
	var survivors []*trace.Call
	for _, call := range aggregator.SquashedCalls() {
		if call != nil {
			survivors = append(survivors, call)
		}
	}
	sort.Slice(survivors, func(i, j int) bool {
		return survivors[i].No > survivors[j].No
	})
	if opts.SquashUntilFrame > 0 {
		log.I(ctx, "squashed %d prefix calls down to %d", len(absorbed), len(survivors))
	}

	// Phase C: rewind and emit.
	if err := parser.SetBookmark(bookmark); err != nil {
		writer.Close()
		return errors.Wrap(err, "rewinding trace")
	}
	frame = 0
	callIndex := -1
	for {
		call, err := parser.ParseCall()
		if err == io.EOF {
			break
		}
		if err != nil {
			writer.Close()
			return errors.Wrap(err, "parsing trace")
		}
		callIndex++

		// Nothing past the last call and frame the user asked for matters.
		if (calls.Empty() || call.No > calls.Last()) &&
			(frames.Empty() || uint64(frame) > frames.Last()) {
			break
		}

		if len(threads) > 0 && !threads[call.ThreadID] {
			if call.Flags&trace.CallFlagEndFrame != 0 {
				frame++
			}
			continue
		}

		okToWrite := true
		if callIndex < len(absorbed) && absorbed[callIndex] && len(survivors) > 0 {
			next := survivors[len(survivors)-1]
			if call.No < next.No {
				okToWrite = false
			} else if call.No == next.No {
				survivors = survivors[:len(survivors)-1]
			}
		}

		if okToWrite &&
			(calls.ContainsCall(call.No) || frames.ContainsFrame(uint64(frame), call.Flags)) {
			if err := writer.WriteCall(call); err != nil {
				writer.Close()
				return errors.Wrap(err, "writing trimmed call")
			}
		}

		if call.Flags&trace.CallFlagEndFrame != 0 {
			frame++
		}
	}

	if len(survivors) > 0 {
		log.W(ctx, "%d survivors were never re-encountered", len(survivors))
	}
	if err := writer.Close(); err != nil {
		return errors.Wrapf(err, "failed to finish %s", output)
	}
	log.I(ctx, "Trimmed trace is available as %s", output)
	return nil
}
