// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package report

import (
	"sync"
)

// 📼 Recorder keeps every entry in memory. A display can poll it while a
// batch is running.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Report(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

// Entries returns a snapshot of the recorded entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Lines returns the recorded entries rendered as plain lines.
func (r *Recorder) Lines() []string {
	entries := r.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.String()
	}
	return out
}

// Since returns the entries recorded after the first n, for incremental polling.
func (r *Recorder) Since(n int) []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n >= len(r.entries) {
		return nil
	}
	return append([]Entry(nil), r.entries[n:]...)
}

// 📡 Stream hands entries to a subscriber over a channel. Report blocks when
// the buffer is full, so the subscriber sets the pace. Close must be called
// once by the writer after its last Report.
type Stream struct {
	ch        chan Entry
	closeOnce sync.Once
}

// NewStream creates a Stream with the given buffer size.
func NewStream(buffer int) *Stream {
	return &Stream{ch: make(chan Entry, buffer)}
}

func (s *Stream) Report(e Entry) {
	s.ch <- e
}

// C returns the channel the subscriber reads from.
func (s *Stream) C() <-chan Entry {
	return s.ch
}

// Close ends the stream. Further calls are no-ops.
func (s *Stream) Close() {
	s.closeOnce.Do(func() { close(s.ch) })
}

// Drain forwards every entry to r until the stream is closed.
func (s *Stream) Drain(r Reporter) {
	for e := range s.ch {
		r.Report(e)
	}
}
