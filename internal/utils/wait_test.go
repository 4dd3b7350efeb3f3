package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitForCompletes(t *testing.T) {
	original := sleep
	defer func() { sleep = original }()

	var slept time.Duration
	sleep = func(d time.Duration) { slept = d }

	if err := WaitFor(context.Background(), 5*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if slept != 5*time.Millisecond {
		t.Fatalf("expected to sleep 5ms, slept %s", slept)
	}
}

func TestWaitForNonPositiveDuration(t *testing.T) {
	original := sleep
	defer func() { sleep = original }()

	sleep = func(time.Duration) { t.Fatal("sleep should not be called") }

	if err := WaitFor(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWaitForCanceledContext(t *testing.T) {
	original := sleep
	defer func() { sleep = original }()

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	sleep = func(time.Duration) { <-release }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := WaitFor(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
