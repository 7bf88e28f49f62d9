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

package log

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Handler is the interface implemented by types that consume log messages.
type Handler interface {
	Handle(*Message)
	Close()
}

type handler struct {
	handle func(*Message)
	close  func()
}

func (h handler) Handle(m *Message) { h.handle(m) }
func (h handler) Close() {
	if h.close != nil {
		h.close()
	}
}

// NewHandler returns a Handler that calls handle for each message and close
// when the handler is closed.
func NewHandler(handle func(*Message), close func()) Handler {
	return handler{handle, close}
}

// Writer returns a Handler that writes each message as a line to w.
func Writer(w io.Writer) Handler {
	mutex := &sync.Mutex{}
	return NewHandler(func(m *Message) {
		mutex.Lock()
		defer mutex.Unlock()
		if m.Tag != "" {
			fmt.Fprintf(w, "%s: [%s] %s\n", m.Severity.Short(), m.Tag, m.Text)
		} else {
			fmt.Fprintf(w, "%s: %s\n", m.Severity.Short(), m.Text)
		}
	}, nil)
}

// Std returns a Handler that writes warnings and errors to os.Stderr and all
// other messages to os.Stdout.
func Std() Handler {
	out, errs := Writer(os.Stdout), Writer(os.Stderr)
	return NewHandler(func(m *Message) {
		if m.Severity >= Warning {
			errs.Handle(m)
		} else {
			out.Handle(m)
		}
	}, nil)
}

// Stderr returns a Handler that writes all messages to os.Stderr.
func Stderr() Handler {
	return Writer(os.Stderr)
}
