// Package resilience bounds tool executions using fortify.
package resilience

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/felixgeelhaar/fortify/bulkhead"

	"github.com/felixgeelhaar/time-server/domain/tool"
)

// Executor runs tools behind a concurrency bulkhead and a per-call timeout.
// Tool errors are never retried: every time computation is deterministic.
type Executor struct {
	bulkhead bulkhead.Bulkhead[tool.Result]
	timeout  time.Duration
}

// ExecutorConfig configures the executor.
type ExecutorConfig struct {
	// MaxConcurrent limits concurrent tool executions (0 = unbounded).
	MaxConcurrent int

	// Timeout bounds a single execution (0 = none).
	Timeout time.Duration
}

// DefaultExecutorConfig returns a configuration with sensible defaults.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		MaxConcurrent: 64,
		Timeout:       5 * time.Second,
	}
}

// NewExecutor creates a new executor.
func NewExecutor(config ExecutorConfig) *Executor {
	e := &Executor{timeout: config.Timeout}
	if config.MaxConcurrent > 0 {
		e.bulkhead = bulkhead.New[tool.Result](bulkhead.Config{
			MaxConcurrent: config.MaxConcurrent,
		})
	}
	return e
}

// NewDefaultExecutor creates an executor with default configuration.
func NewDefaultExecutor() *Executor {
	return NewExecutor(DefaultExecutorConfig())
}

// Execute runs t with the configured guards and stamps the result duration.
// A call rejected by the bulkhead fails with tool.ErrOverloaded; a call that
// outlives the timeout fails with tool.ErrExecutionTimeout.
func (e *Executor) Execute(ctx context.Context, t tool.Tool, input json.RawMessage) (tool.Result, error) {
	start := time.Now()

	if e.bulkhead == nil {
		result, err := e.run(ctx, t, input)
		return result.WithDuration(time.Since(start)), err
	}

	var entered atomic.Bool
	result, err := e.bulkhead.Execute(ctx, func(ctx context.Context) (tool.Result, error) {
		entered.Store(true)
		return e.run(ctx, t, input)
	})
	if err != nil && !entered.Load() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return tool.Result{}, ctxErr
		}
		return tool.Result{}, fmt.Errorf("%w: %v", tool.ErrOverloaded, err)
	}
	return result.WithDuration(time.Since(start)), err
}

func (e *Executor) run(ctx context.Context, t tool.Tool, input json.RawMessage) (tool.Result, error) {
	if e.timeout <= 0 {
		return t.Execute(ctx, input)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type outcome struct {
		result tool.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := t.Execute(ctx, input)
		done <- outcome{r, err}
	}()

	select {
	case o := <-done:
		return o.result, o.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return tool.Result{}, fmt.Errorf("%w after %s", tool.ErrExecutionTimeout, e.timeout)
		}
		return tool.Result{}, ctx.Err()
	}
}

// Timeout returns the per-call timeout.
func (e *Executor) Timeout() time.Duration {
	return e.timeout
}
