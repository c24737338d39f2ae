package shutdown

import (
	"context"
	"syscall"
	"testing"
)

func TestInterruptContext(t *testing.T) {
	ctx, cancel := InterruptContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	cancel()
	<-ctx.Done()
}

func TestNew(t *testing.T) {
	ctx, done := New()
	if ctx.Err() != nil {
		t.Fatalf("expected live context, got %v", ctx.Err())
	}

	done()
	<-ctx.Done()
}
