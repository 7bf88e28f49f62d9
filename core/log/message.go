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
	"time"
)

// Message is a single log entry.
type Message struct {
	// Text is the message body.
	Text string
	// Time is the time the message was logged.
	Time time.Time
	// Severity is the importance of the message.
	Severity Severity
	// Tag is the tag associated with the logger that emitted the message.
	Tag string
	// StopProcess indicates that the process should stop after handling the
	// message.
	StopProcess bool
}

// Message returns a new Message with the given text.
func (l *Logger) Message(s Severity, stopProcess bool, text string) *Message {
	return &Message{
		Text:        text,
		Time:        l.clock(),
		Severity:    s,
		Tag:         l.tag,
		StopProcess: stopProcess,
	}
}

// Messagef returns a new Message with the given printf-style text.
func (l *Logger) Messagef(s Severity, stopProcess bool, f string, args ...interface{}) *Message {
	return l.Message(s, stopProcess, fmt.Sprintf(f, args...))
}
