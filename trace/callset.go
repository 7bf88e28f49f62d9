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

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CallSet is a set of call or frame numbers, expressed as a union of
// inclusive ranges. The textual form is a comma separated list of
// NUMBER, LO-HI or * items.
type CallSet struct {
	ranges []callRange
}

type callRange struct {
	first, last uint64
}

// String returns the textual form of the set.
func (c *CallSet) String() string {
	parts := make([]string, 0, len(c.ranges))
	for _, r := range c.ranges {
		switch {
		case r.first == 0 && r.last == math.MaxUint64:
			parts = append(parts, "*")
		case r.first == r.last:
			parts = append(parts, strconv.FormatUint(r.first, 10))
		default:
			parts = append(parts, strconv.FormatUint(r.first, 10)+"-"+strconv.FormatUint(r.last, 10))
		}
	}
	return strings.Join(parts, ",")
}

// Set parses s and adds its ranges to the set, implementing flag.Value.
func (c *CallSet) Set(s string) error {
	return c.Merge(s)
}

// Merge parses s and adds its ranges to the set.
func (c *CallSet) Merge(s string) error {
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.ContainsRune(item, '/') {
			return errors.Errorf("frequency modifiers are not supported: %q", item)
		}
		r, err := parseRange(item)
		if err != nil {
			return err
		}
		c.ranges = append(c.ranges, r)
	}
	c.normalize()
	return nil
}

func parseRange(item string) (callRange, error) {
	if item == "*" {
		return callRange{first: 0, last: math.MaxUint64}, nil
	}
	if lo, hi, ok := strings.Cut(item, "-"); ok {
		first, err := strconv.ParseUint(lo, 10, 64)
		if err != nil {
			return callRange{}, errors.Errorf("invalid range start %q", lo)
		}
		last, err := strconv.ParseUint(hi, 10, 64)
		if err != nil {
			return callRange{}, errors.Errorf("invalid range end %q", hi)
		}
		if last < first {
			return callRange{}, errors.Errorf("range %q is reversed", item)
		}
		return callRange{first: first, last: last}, nil
	}
	n, err := strconv.ParseUint(item, 10, 64)
	if err != nil {
		return callRange{}, errors.Errorf("invalid call number %q", item)
	}
	return callRange{first: n, last: n}, nil
}

// normalize sorts the ranges and coalesces any that touch or overlap.
func (c *CallSet) normalize() {
	if len(c.ranges) < 2 {
		return
	}
	sort.Slice(c.ranges, func(i, j int) bool {
		return c.ranges[i].first < c.ranges[j].first
	})
	out := c.ranges[:1]
	for _, r := range c.ranges[1:] {
		top := &out[len(out)-1]
		if top.last != math.MaxUint64 && r.first <= top.last+1 {
			if r.last > top.last {
				top.last = r.last
			}
		} else if r.first <= top.last {
			if r.last > top.last {
				top.last = r.last
			}
		} else {
			out = append(out, r)
		}
	}
	c.ranges = out
}

// Empty reports whether the set contains no numbers.
func (c *CallSet) Empty() bool {
	return len(c.ranges) == 0
}

// Last returns the highest number in the set, or 0 if the set is empty.
func (c *CallSet) Last() uint64 {
	if len(c.ranges) == 0 {
		return 0
	}
	return c.ranges[len(c.ranges)-1].last
}

// ContainsCall reports whether the call number is in the set.
func (c *CallSet) ContainsCall(no uint64) bool {
	return c.contains(no)
}

// ContainsFrame reports whether the frame number is in the set. The flags
// argument mirrors the capture grammar where per-frame frequencies would
// consult it; without frequency modifiers only the frame number matters.
func (c *CallSet) ContainsFrame(frame uint64, flags CallFlags) bool {
	return c.contains(frame)
}

func (c *CallSet) contains(n uint64) bool {
	i := sort.Search(len(c.ranges), func(i int) bool {
		return c.ranges[i].last >= n
	})
	return i < len(c.ranges) && c.ranges[i].first <= n
}
