package hub

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robo-ep/sdk/worker"
)

// TestGracefulShutdownWithinDeadline verifies a Hub running two workers,
// each blocking until cancellation, exits within the graceful deadline once
// Close is called, and both workers observe cancellation.
func TestGracefulShutdownWithinDeadline(t *testing.T) {
	h := New(WithGracefulDeadline(2 * time.Second))

	var exited1, exited2 bool
	err := h.Register(worker.Config{
		Name: "push-listener",
		Tick: func(c worker.Context, _ any) (worker.ControlFlow, error) {
			<-c.Done()
			exited1 = true
			return worker.Break, nil
		},
		Loop: true,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	err = h.Register(worker.Config{
		Name: "mind",
		Tick: func(c worker.Context, _ any) (worker.ControlFlow, error) {
			<-c.Done()
			exited2 = true
			return worker.Break, nil
		},
		Loop: true,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	runDone := make(chan error, 1)
	go func() { runDone <- h.Run(context.Background()) }()

	time.Sleep(50 * time.Millisecond)
	h.Close()

	select {
	case err := <-runDone:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return within the graceful deadline")
	}

	if !exited1 || !exited2 {
		t.Fatalf("expected both workers to observe cancellation: exited1=%v exited2=%v", exited1, exited2)
	}
	if h.State() != Stopped {
		t.Fatalf("expected final state Stopped, got %v", h.State())
	}
}

func TestSetupFailureAbortsStartup(t *testing.T) {
	h := New(WithGracefulDeadline(time.Second))
	if err := h.Register(worker.Config{
		Name: "bad",
		Setup: func(worker.Context) (any, error) {
			return nil, errors.New("boom")
		},
		Tick: func(worker.Context, any) (worker.ControlFlow, error) { return worker.Break, nil },
		Loop: false,
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- h.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after a setup failure")
	}
	if h.State() != Stopped {
		t.Fatalf("expected Stopped, got %v", h.State())
	}
}

func TestRegisterAfterRunIsRejected(t *testing.T) {
	h := New()
	if err := h.Register(worker.Config{Name: "a", Tick: func(worker.Context, any) (worker.ControlFlow, error) { return worker.Break, nil }}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	go h.Run(context.Background())
	time.Sleep(20 * time.Millisecond)

	if err := h.Register(worker.Config{Name: "b"}); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	h.Close()
}
