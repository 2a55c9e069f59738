package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/shandysiswandi/otpgate/internal/pkg/stacktrace"
)

func callHandler(ctx context.Context, driver string, handler Handler, msg Message) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "topic", msg.Topic(), "panic", rvr, "stack", paths)
			} else {
				slog.ErrorContext(ctx, "panic in messaging handler", "driver", driver, "topic", msg.Topic(), "panic", rvr, "stack", string(stack))
			}
			err = fmt.Errorf("messaging: panic in %s handler: %v", driver, rvr)
		}
	}()

	return handler(ctx, msg)
}

// dispatch runs the handler and settles the message unless the handler did.
// Only a failure to settle is returned.
func dispatch(ctx context.Context, driver string, handler Handler, msg Message, r *responder, autoAck bool) error {
	herr := callHandler(ctx, driver, handler, msg)
	if !autoAck || r.responded() {
		return nil
	}
	if err := settle(ctx, msg, herr); err != nil {
		slog.WarnContext(ctx, "failed to settle message", "driver", driver, "topic", msg.Topic(), "error", err)
		return err
	}
	return nil
}
