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

package operation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/walteh/roundtrip/pkg/config"
)

// 🚦 State is a step of the per-file round trip
type State int

const (
	StateDiscovered State = iota
	StateConvertingToIntermediate
	StateConvertFailed
	StateIntermediateReady
	StateMutating
	StateMutateFailed
	StateNoMatch
	StateConvertingBack
	StateConvertBackFailed
	StateModified
	StateCleanup
	StateDone
)

var stateNames = [...]string{
	StateDiscovered:               "DISCOVERED",
	StateConvertingToIntermediate: "CONVERTING_TO_INTERMEDIATE",
	StateConvertFailed:            "CONVERT_FAILED",
	StateIntermediateReady:        "INTERMEDIATE_READY",
	StateMutating:                 "MUTATING",
	StateMutateFailed:             "MUTATE_FAILED",
	StateNoMatch:                  "NO_MATCH",
	StateConvertingBack:           "CONVERTING_BACK",
	StateConvertBackFailed:        "CONVERT_BACK_FAILED",
	StateModified:                 "MODIFIED",
	StateCleanup:                  "CLEANUP",
	StateDone:                     "DONE",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// 🏷️ Outcome is the classification a file ends up with
type Outcome string

const (
	OutcomeModified  Outcome = "modified"
	OutcomeUnmatched Outcome = "unmatched"
	OutcomeRenamed   Outcome = "renamed"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeErrored   Outcome = "errored"
)

// Changed reports whether the outcome counts towards Summary.Changed.
func (o Outcome) Changed() bool {
	return o == OutcomeModified || o == OutcomeRenamed
}

// 📄 FileResult records what happened to one discovered file
type FileResult struct {
	Path         string
	To           string // New path of a renamed file
	State        State  // Last round-trip state reached, unused by renames
	Outcome      Outcome
	Replacements int
	Err          error
	Warnings     []string
}

// 📊 Summary is the auditable result of one batch
type Summary struct {
	ID        uuid.UUID
	Kind      config.Kind
	Label     string
	Root      string
	Total     int
	Changed   int // modified or renamed
	Unchanged int // unmatched or skipped
	Errored   int
	Results   []FileResult
	Started   time.Time
	Finished  time.Time
}

func newSummary(req config.BatchRequest) *Summary {
	return &Summary{
		ID:      uuid.New(),
		Kind:    req.Kind,
		Label:   req.Label(),
		Root:    req.AbsRoot(),
		Started: time.Now(),
	}
}

func (s *Summary) add(res FileResult) {
	s.Total++
	switch {
	case res.Outcome == OutcomeErrored:
		s.Errored++
	case res.Outcome.Changed():
		s.Changed++
	default:
		s.Unchanged++
	}
	s.Results = append(s.Results, res)
}

func (s *Summary) finish() {
	s.Finished = time.Now()
}

// Reconciles reports whether every discovered file was counted exactly once.
func (s *Summary) Reconciles() bool {
	return s.Total == s.Changed+s.Unchanged+s.Errored && s.Total == len(s.Results)
}

// Duration is the wall time of the batch.
func (s *Summary) Duration() time.Duration {
	if s.Finished.IsZero() {
		return 0
	}
	return s.Finished.Sub(s.Started)
}

// Failed returns the results that ended in an error.
func (s *Summary) Failed() []FileResult {
	var out []FileResult
	for _, r := range s.Results {
		if r.Outcome == OutcomeErrored {
			out = append(out, r)
		}
	}
	return out
}

// ChangedLabel and UnchangedLabel name the counters for the batch kind.
func (s *Summary) ChangedLabel() string {
	if s.Kind == config.KindRename {
		return string(OutcomeRenamed)
	}
	return string(OutcomeModified)
}

func (s *Summary) UnchangedLabel() string {
	if s.Kind == config.KindRename {
		return string(OutcomeSkipped)
	}
	return string(OutcomeUnmatched)
}

// String is the final summary line of a batch.
func (s *Summary) String() string {
	return fmt.Sprintf("%d files: %d %s, %d %s, %d errored",
		s.Total, s.Changed, s.ChangedLabel(), s.Unchanged, s.UnchangedLabel(), s.Errored)
}
