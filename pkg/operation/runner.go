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
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/roundtrip/pkg/config"
	"github.com/walteh/roundtrip/pkg/errkind"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 📝 Recorder keeps the summaries of finished batches
type Recorder interface {
	Record(ctx context.Context, s *Summary) error
}

// 🔧 RunnerOptions wires the pipelines a Runner dispatches to
type RunnerOptions struct {
	RoundTrip Pipeline
	Rename    Pipeline
	// Recorder is optional. A failure to record is logged, not returned.
	Recorder Recorder
}

// 🏃 Runner executes batches on a worker goroutine, away from the caller
// that renders progress.
type Runner struct {
	pipelines map[config.Kind]Pipeline
	recorder  Recorder
}

// 🏗️ NewRunner creates a new runner
func NewRunner(opts RunnerOptions) *Runner {
	r := &Runner{
		pipelines: map[config.Kind]Pipeline{},
		recorder:  opts.Recorder,
	}
	if opts.RoundTrip != nil {
		r.pipelines[config.KindReplace] = opts.RoundTrip
	}
	if opts.Rename != nil {
		r.pipelines[config.KindRename] = opts.Rename
	}
	return r
}

// ⏳ Job is a batch running on its worker
type Job struct {
	Request config.BatchRequest

	done    chan struct{}
	summary *Summary
	err     error
}

// Done is closed when the batch has finished.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the batch finishes or ctx is done. The batch itself keeps
// running when only the wait is abandoned.
func (j *Job) Wait(ctx context.Context) (*Summary, error) {
	select {
	case <-ctx.Done():
		return nil, errors.Errorf("waiting for batch %s: %w", j.Request.Label(), ctx.Err())
	case <-j.done:
		return j.summary, j.err
	}
}

// ⚡ Start launches req on its own goroutine.
func (r *Runner) Start(ctx context.Context, req config.BatchRequest) *Job {
	job := &Job{Request: req, done: make(chan struct{})}

	go func() {
		defer close(job.done)
		job.summary, job.err = r.execute(ctx, req)
	}()

	return job
}

// 🔄 Run starts req and waits for it.
func (r *Runner) Run(ctx context.Context, req config.BatchRequest) (*Summary, error) {
	return r.Start(ctx, req).Wait(ctx)
}

func (r *Runner) execute(ctx context.Context, req config.BatchRequest) (*Summary, error) {
	logger := zerolog.Ctx(ctx)

	p, ok := r.pipelines[req.Kind]
	if !ok {
		return nil, errkind.Validationf("no pipeline for %q batches", req.Kind)
	}

	summary, err := p.Run(ctx, req)
	if err != nil {
		return nil, errors.Errorf("running batch %s: %w", req.Label(), err)
	}

	if r.recorder != nil {
		if err := r.recorder.Record(ctx, summary); err != nil {
			logger.Warn().Err(err).Str("batch", summary.Label).Msg("recording batch history")
		}
	}
	return summary, nil
}

// 📦 BatchResult pairs a request with how it ended
type BatchResult struct {
	Request config.BatchRequest
	Summary *Summary
	Err     error
}

// 🚀 RunAll runs independent batches concurrently. It returns only after every
// batch goroutine has exited, including when ctx is cancelled, so the caller
// may release the reporter and recorder as soon as it returns. The returned
// error is the first batch that failed as a whole.
func (r *Runner) RunAll(ctx context.Context, reqs []config.BatchRequest) ([]BatchResult, error) {
	results := make([]BatchResult, len(reqs))

	var g errgroup.Group
	for i, req := range reqs {
		g.Go(func() error {
			job := r.Start(ctx, req)
			<-job.Done()
			results[i] = BatchResult{Request: req, Summary: job.summary, Err: job.err}
			return job.err
		})
	}

	err := g.Wait()
	return results, err
}
