// Package job adapts closures to shardqueue jobs.
package job

import (
	"context"
	"errors"
	"fmt"
)

// ErrNilFunc is returned when a nil Func is run.
var ErrNilFunc = errors.New("nil job func")

// Func lets plain closures be submitted to the shard executor.
type Func func(context.Context) error

// Run implements shardqueue.Job.
func (f Func) Run(ctx context.Context) error {
	if f == nil {
		return fmt.Errorf("job: %w", ErrNilFunc)
	}
	return f(ctx)
}

// New wraps fn as a Func.
func New(fn func(context.Context) error) Func {
	return Func(fn)
}
