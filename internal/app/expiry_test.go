package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yotip/homestead/internal/profile"
)

type countingExpirer struct {
	calls atomic.Int32
}

func (c *countingExpirer) ExpireOverdue() []profile.Task {
	c.calls.Add(1)
	return nil
}

func TestStartExpiry_TicksUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	e := &countingExpirer{}

	StartExpiry(ctx, e, 5*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for e.calls.Load() < 3 {
		if time.Now().After(deadline) {
			t.Fatalf("calls = %d after 2s, want >= 3", e.calls.Load())
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	time.Sleep(20 * time.Millisecond)
	stopped := e.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if got := e.calls.Load(); got != stopped {
		t.Fatalf("calls went from %d to %d after cancel", stopped, got)
	}
}

func TestStartExpiry_CancelledContextRunsNoPass(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := &countingExpirer{}

	StartExpiry(ctx, e, time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	if got := e.calls.Load(); got != 0 {
		t.Fatalf("calls = %d with a cancelled context, want 0", got)
	}
}
