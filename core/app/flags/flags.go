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

// Package flags binds command line flags to structure fields by reflection.
package flags

import (
	"flag"
	"fmt"
	"reflect"
	"strings"
)

// Set wraps a flag.FlagSet with structure binding support.
type Set struct {
	// Raw is the underlying flag set.
	Raw flag.FlagSet
}

// Parse parses the given arguments into the bound flags.
func (s *Set) Parse(args ...string) error {
	return s.Raw.Parse(args)
}

// Args returns the non-flag arguments.
func (s *Set) Args() []string {
	return s.Raw.Args()
}

// Bind uses reflection to bind flag values to the fields of value.
// It recurses into nested structures adding all leaf fields, naming each
// flag after the lower-cased field path joined with '-'. Field tags may
// override the name (`name:"..."`, `fullname:"..."`) and supply the usage
// text (`help:"..."`).
func (s *Set) Bind(name string, value interface{}, help string) {
	switch val := value.(type) {
	case *bool:
		s.Raw.BoolVar(val, name, *val, help)
		return
	case *int:
		s.Raw.IntVar(val, name, *val, help)
		return
	case *int64:
		s.Raw.Int64Var(val, name, *val, help)
		return
	case *uint:
		s.Raw.UintVar(val, name, *val, help)
		return
	case *uint64:
		s.Raw.Uint64Var(val, name, *val, help)
		return
	case *string:
		s.Raw.StringVar(val, name, *val, help)
		return
	case flag.Value:
		s.Raw.Var(val, name, help)
		return
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("Flag value not a pointer: %v", rv.Type()))
	}

	switch e := rv.Elem(); e.Kind() {
	case reflect.Slice:
		s.Raw.Var(newRepeatedFlag(e), name, help)
	case reflect.Struct:
		t := e.Type()
		for i := 0; i < e.NumField(); i++ {
			tf := t.Field(i)
			if tf.PkgPath != "" {
				continue // Unexported.
			}
			field := e.Field(i)
			tags := tf.Tag
			fname := strings.ToLower(tf.Name)
			fullname := tags.Get("fullname")
			usage := tags.Get("help")
			if tf.Anonymous {
				fname = ""
			}
			if partial := tags.Get("name"); partial != "" {
				fname = partial
			}
			switch {
			case fullname != "":
				// all done
			case fname == "":
				fullname = name
			case name == "":
				fullname = fname
			default:
				fullname = name + "-" + fname
			}
			s.Bind(fullname, field.Addr().Interface(), usage)
		}
	default:
		panic(fmt.Sprintf("Unhandled flag type: %v", rv.Type()))
	}
}
