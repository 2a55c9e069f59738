// Package scheduler runs named periodic jobs on a goroutine.Runner.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/stacktrace"
	"go.uber.org/atomic"
)

var (
	ErrAlreadyRunning  = errors.New("scheduler: job already running")
	ErrInvalidInterval = errors.New("scheduler: interval must be positive")
	ErrNotScheduled    = errors.New("scheduler: runner refused the job")
)

// Task is one execution of a job.
type Task func(ctx context.Context) error

// Job runs its task once at Start and then on every interval tick until Stop.
// Ticks never overlap: a slow run delays the next tick.
type Job struct {
	name     string
	interval time.Duration
	task     Task

	running  *atomic.Bool
	runs     *atomic.Int64
	failures *atomic.Int64

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewJob validates the interval; the job does nothing until Start.
func NewJob(name string, interval time.Duration, task Task) (*Job, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}

	return &Job{
		name:     name,
		interval: interval,
		task:     task,
		running:  atomic.NewBool(false),
		runs:     atomic.NewInt64(0),
		failures: atomic.NewInt64(0),
	}, nil
}

// Name identifies the job in logs.
func (j *Job) Name() string { return j.name }

// Running reports whether the loop is active.
func (j *Job) Running() bool { return j.running.Load() }

// Runs and Failures count completed executions.
func (j *Job) Runs() int64 { return j.runs.Load() }

// Failures counts runs that returned an error or panicked.
func (j *Job) Failures() int64 { return j.failures.Load() }

// Start schedules the loop on r. The loop ends when ctx is canceled or Stop is called.
func (j *Job) Start(ctx context.Context, r goroutine.Runner) error {
	if !j.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	j.mu.Lock()
	j.cancel, j.done = cancel, done
	j.mu.Unlock()

	// the runner skips work whose context is already canceled; done must
	// still be closed in that case, so the loop context is captured instead
	accepted := r.Go(context.WithoutCancel(ctx), func(context.Context) error {
		defer close(done)
		defer j.running.Store(false)

		j.loop(loopCtx)
		return nil
	})
	if !accepted {
		cancel()
		close(done)
		j.running.Store(false)
		return ErrNotScheduled
	}

	slog.InfoContext(ctx, "scheduler job started", "job", j.name, "interval", j.interval.String())
	return nil
}

// Stop cancels the loop and waits for the current run to return or ctx to end.
func (j *Job) Stop(ctx context.Context) error {
	j.mu.Lock()
	cancel, done := j.cancel, j.done
	j.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
		slog.InfoContext(ctx, "scheduler job stopped", "job", j.name, "runs", j.runs.Load())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *Job) loop(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.execute(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.execute(ctx)
		}
	}
}

// execute runs the task once. A panic counts as a failure and the loop keeps
// ticking.
func (j *Job) execute(ctx context.Context) {
	defer j.runs.Inc()
	defer func() {
		if rvr := recover(); rvr != nil {
			j.failures.Inc()
			logPanic(ctx, j.name, rvr)
		}
	}()

	if err := j.task(ctx); err != nil {
		j.failures.Inc()
		if !errors.Is(err, context.Canceled) {
			slog.ErrorContext(ctx, "scheduler job failed", "job", j.name, "error", err)
		}
	}
}

func logPanic(ctx context.Context, name string, rvr any) {
	stack := debug.Stack()
	if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
		slog.ErrorContext(ctx, "scheduler job panicked", "job", name, "panic", rvr, "stack", paths)
		return
	}
	slog.ErrorContext(ctx, "scheduler job panicked", "job", name, "panic", rvr, "stack", string(stack))
}
