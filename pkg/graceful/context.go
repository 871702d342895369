// Package graceful ties process lifetime to OS termination signals.
package graceful

import (
	"context"
	"os/signal"
	"syscall"
)

// Context returns a context that is canceled when an OS interrupt signal is
// received, allowing a clean shutdown of the application.
func Context(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}
