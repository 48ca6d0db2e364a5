package worker

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWorkerSetupTeardownRunOnce(t *testing.T) {
	var setupRan, teardownRan bool
	w := Start(context.Background(), Config{
		Name: "once",
		Setup: func(Context) (any, error) {
			setupRan = true
			return "state", nil
		},
		Tick: func(c Context, state any) (ControlFlow, error) {
			if state != "state" {
				t.Fatalf("unexpected state: %v", state)
			}
			return Break, nil
		},
		Teardown: func(Context, any) error {
			teardownRan = true
			return nil
		},
		Loop: false,
	})

	select {
	case <-w.Done():
		if err := w.DoneErr(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("worker did not exit")
	}
	if !setupRan || !teardownRan {
		t.Fatalf("setupRan=%v teardownRan=%v", setupRan, teardownRan)
	}
}

func TestWorkerSetupErrorAbortsBeforeTick(t *testing.T) {
	ticked := false
	w := Start(context.Background(), Config{
		Name: "bad-setup",
		Setup: func(Context) (any, error) {
			return nil, errors.New("boom")
		},
		Tick: func(Context, any) (ControlFlow, error) {
			ticked = true
			return Break, nil
		},
		Loop: false,
	})

	<-w.Done()
	if w.DoneErr() == nil {
		t.Fatalf("expected setup error to propagate")
	}
	if ticked {
		t.Fatalf("tick should not run after setup failure")
	}
}

func TestWorkerLoopStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ticks := 0
	w := Start(ctx, Config{
		Name: "looping",
		Tick: func(c Context, _ any) (ControlFlow, error) {
			ticks++
			return Continue, nil
		},
		Loop: true,
	})

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-w.Done():
		if err := w.DoneErr(); err != nil {
			t.Fatalf("unexpected error on cancellation: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("worker did not exit after cancellation")
	}
	if ticks == 0 {
		t.Fatalf("expected at least one tick before cancellation")
	}
}

func TestWorkerIntervalPacesNonBlockingTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var ticks int
	start := time.Now()
	w := Start(ctx, Config{
		Name: "paced",
		Tick: func(c Context, _ any) (ControlFlow, error) {
			ticks++
			return Continue, nil
		},
		Loop:     true,
		Interval: 50 * time.Millisecond,
	})

	time.Sleep(170 * time.Millisecond)
	cancel()

	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("worker did not exit after cancellation")
	}
	elapsed := time.Since(start)
	// at 50ms/tick, ~170ms should yield on the order of 3-4 ticks, never the
	// hundreds a busy-spinning loop would produce.
	if ticks == 0 || ticks > 6 {
		t.Fatalf("expected a handful of paced ticks over %s, got %d", elapsed, ticks)
	}
}

func TestWorkerPrematureBreakIsFatal(t *testing.T) {
	w := Start(context.Background(), Config{
		Name: "early-break",
		Tick: func(Context, any) (ControlFlow, error) {
			return Break, nil
		},
		Loop: true,
	})

	<-w.Done()
	if !errors.Is(w.DoneErr(), ErrPrematureBreak) {
		t.Fatalf("expected ErrPrematureBreak, got %v", w.DoneErr())
	}
}

func TestWorkerTeardownErrorDoesNotPropagate(t *testing.T) {
	w := Start(context.Background(), Config{
		Name: "bad-teardown",
		Tick: func(Context, any) (ControlFlow, error) {
			return Break, nil
		},
		Teardown: func(Context, any) error {
			return errors.New("teardown blew up")
		},
		Loop: false,
	})

	<-w.Done()
	if err := w.DoneErr(); err != nil {
		t.Fatalf("teardown errors must not surface from Done: %v", err)
	}
}

func TestWorkerStartedClosesBeforeDoneOnSuccess(t *testing.T) {
	w := Start(context.Background(), Config{
		Name: "ready",
		Setup: func(Context) (any, error) {
			return nil, nil
		},
		Tick: func(Context, any) (ControlFlow, error) {
			return Break, nil
		},
		Loop: false,
	})

	select {
	case <-w.Started():
	case <-time.After(time.Second):
		t.Fatal("Started never closed")
	}
	if w.StartedErr() != nil {
		t.Fatalf("unexpected StartedErr: %v", w.StartedErr())
	}
	<-w.Done()
}
