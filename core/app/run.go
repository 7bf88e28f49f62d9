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

// Package app provides the verb dispatching framework used by the command
// line tools.
package app

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Gurten/apitrace/core/log"
)

var (
	// Name is the full name of the application.
	Name string
	// ShortHelp should be set to add a help message to the usage text.
	ShortHelp = ""
	// ShortUsage is usage text for the additional non-flag arguments.
	ShortUsage = ""
	// Verbose enables debug level logging when set.
	Verbose bool
	// ExitFuncForTesting can be set to change the behaviour on a fatal
	// failure. It defaults to os.Exit.
	ExitFuncForTesting = os.Exit
)

// Run performs all the work needed to start up an application, invokes main,
// and exits with an appropriate status code.
func Run(main func(ctx context.Context) error) {
	if Name == "" {
		Name = file(os.Args[0])
	}

	flag.CommandLine.Usage = func() { Usage(context.Background(), "") }
	flag.BoolVar(&Verbose, "verbose", false, "enable debug level logging")
	flag.Parse()

	ctx := log.PutHandler(context.Background(), log.Std())
	if !Verbose {
		ctx = log.PutFilter(ctx, log.SeverityFilter(log.Info))
	}
	ctx = log.PutTag(ctx, Name)

	if err := main(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", Name, err)
		ExitFuncForTesting(1)
	}
	ExitFuncForTesting(0)
}

func file(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}

// Usage prints the usage text and the message to stderr.
func Usage(ctx context.Context, message string, args ...interface{}) {
	w := os.Stderr
	if message != "" {
		fmt.Fprintf(w, message, args...)
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "usage: %s", Name)
	if ShortUsage != "" {
		fmt.Fprintf(w, " %s", ShortUsage)
	}
	fmt.Fprintln(w)
	if ShortHelp != "" {
		fmt.Fprintln(w, ShortHelp)
	}
	verbs := FilterVerbs("")
	if len(verbs) > 0 {
		fmt.Fprintln(w, "The available verbs are:")
		for _, v := range verbs {
			fmt.Fprintf(w, "    %-15s %s\n", v.Name, v.ShortHelp)
		}
	}
}
