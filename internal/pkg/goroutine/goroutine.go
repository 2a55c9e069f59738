// Package goroutine runs background work with a concurrency cap, panic
// recovery and a single place to wait for everything on shutdown.
package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/otpgate/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is multiplied by NumCPU when no limit is configured.
const DefaultMaxGoroutine int = 100

// Runner schedules fire-and-forget work.
type Runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error) bool
}

// Manager implements Runner. Once Wait is called it refuses new work.
type Manager struct {
	wg   sync.WaitGroup
	sema chan struct{}

	mu   sync.Mutex
	errs []error

	stateMu sync.RWMutex
	closed  bool
}

// NewManager limits concurrent goroutines to maxGoroutine.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU() * DefaultMaxGoroutine
	}
	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go runs f unless the manager is closed or full; both cases are logged, f is
// dropped and false is returned. Errors returned by f are collected for Wait.
func (g *Manager) Go(ctx context.Context, f func(ctx context.Context) error) bool {
	g.stateMu.RLock()
	defer g.stateMu.RUnlock()

	if g.closed {
		slog.WarnContext(ctx, "goroutine manager is closed, skipping new goroutine")
		return false
	}

	select {
	case g.sema <- struct{}{}:
	default:
		slog.WarnContext(ctx, "maximum goroutine limit reached, failed to start new goroutine")
		return false
	}

	g.wg.Go(func() {
		defer func() {
			<-g.sema
			if rvr := recover(); rvr != nil {
				logPanic(ctx, rvr)
			}
		}()

		if err := ctx.Err(); err != nil {
			slog.WarnContext(ctx, "goroutine canceled before start", "because", err)
			return
		}

		if err := f(ctx); err != nil {
			g.mu.Lock()
			g.errs = append(g.errs, err)
			g.mu.Unlock()
		}
	})

	return true
}

// Wait closes the manager, blocks until all running work returns and joins
// their errors.
func (g *Manager) Wait() error {
	g.stateMu.Lock()
	g.closed = true
	g.stateMu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}

func logPanic(ctx context.Context, rvr any) {
	stack := debug.Stack()
	if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
		slog.ErrorContext(ctx, "panic occurred in goroutine", "panic", rvr, "stack", paths)
		return
	}
	slog.ErrorContext(ctx, "panic occurred in goroutine", "panic", rvr, "stack", string(stack))
}
