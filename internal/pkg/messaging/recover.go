package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/shandysiswandi/passcode/internal/pkg/stacktrace"
)

// dispatch runs handler and converts a panic into an error.
func dispatch(ctx context.Context, handler Handler, msg Message) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			stack := debug.Stack()
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				slog.ErrorContext(ctx, "panic in messaging handler", "subject", msg.Subject(), "panic", rvr, "stack", paths)
			} else {
				slog.ErrorContext(ctx, "panic in messaging handler", "subject", msg.Subject(), "panic", rvr, "stack", string(stack))
			}
			err = fmt.Errorf("messaging: panic in handler: %v", rvr)
		}
	}()

	return handler(ctx, msg)
}

// settle acks or nacks msg according to the handler result.
func settle(ctx context.Context, msg Message, handlerErr error) error {
	if handlerErr == nil {
		return msg.Ack(ctx)
	}
	return msg.Nack(ctx)
}
