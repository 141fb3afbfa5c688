// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"io"

	"golang.org/x/sync/singleflight"
)

// Runner serializes runs per user: a second request for a user whose run
// is still in flight joins the existing run instead of starting another.
type Runner struct {
	pipeline *Pipeline
	group    singleflight.Group
}

// NewRunner wraps a pipeline for concurrent use.
func NewRunner(p *Pipeline) *Runner {
	return &Runner{pipeline: p}
}

// Run executes the pipeline for opts.UserID, collapsing concurrent
// requests for the same user onto one run. shared reports whether the
// result came from a run another caller started.
func (r *Runner) Run(ctx context.Context, opts Options, w io.Writer) (result *RunResult, shared bool, err error) {
	v, err, shared := r.group.Do(opts.UserID, func() (any, error) {
		return r.pipeline.Run(ctx, opts, w)
	})
	if err != nil {
		return nil, shared, err
	}
	return v.(*RunResult), shared, nil
}
