package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// New returns a context that is cancelled on SIGINT or SIGTERM.
func New() (context.Context, func()) {
	return InterruptContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func InterruptContext(ctx context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, signals...)
}
