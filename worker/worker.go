// Package worker implements the supervised tick-loop engine that both the
// Commander-facing listeners and user control logic run under. Its
// single-goroutine fan-in shape is modeled on the CAN transmitter's
// AsyncTx: one loop, a cancellable context, and hooks the caller uses to
// observe errors without the engine knowing about metrics; its only logging
// is a warning when Teardown fails.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ControlFlow is the tick return signalling whether the worker should run
// again or stop.
type ControlFlow int

const (
	// Continue asks the engine to invoke Tick again.
	Continue ControlFlow = iota
	// Break ends the worker; teardown still runs. A looping worker whose Tick
	// returns Break before shutdown is signalled ends with ErrPrematureBreak.
	Break
)

// Context is handed to Setup/Tick/Teardown. It carries the worker's
// identity, a cancellation signal observed between ticks, and a shared
// logger; host-specific queue handles travel in the state value a worker
// returns from Setup, not here, since their type varies per worker.
type Context struct {
	Name   string
	Logger *slog.Logger

	ctx context.Context
}

// Done reports whether shutdown has been requested.
func (c Context) Done() <-chan struct{} { return c.ctx.Done() }

// Err returns the cancellation cause, or nil if still running.
func (c Context) Err() error { return c.ctx.Err() }

// Config parameterizes one worker. Setup runs once; Tick runs repeatedly
// (or exactly once if Loop is false); Teardown always runs on exit.
type Config struct {
	Name string

	// Setup runs once after the worker starts. Its returned state is passed
	// to every Tick and to Teardown. A non-nil error aborts the Hub.
	Setup func(Context) (any, error)

	// Tick runs repeatedly until it returns Break or a non-nil error, or the
	// worker is cancelled. A non-nil error (other than context.Canceled)
	// aborts the Hub.
	Tick func(Context, any) (ControlFlow, error)

	// Teardown always runs on exit, regardless of how the worker stopped.
	// Its error is logged but never re-triggers shutdown.
	Teardown func(Context, any) error

	// Loop, if false, runs Tick exactly once regardless of its return value.
	Loop bool

	// Interval is the delay observed between successive Ticks when Loop is
	// true; zero ticks back-to-back. A Tick that doesn't itself block on a
	// socket or queue read (the reactive-control case) needs a non-zero
	// Interval so it doesn't busy-spin a CPU.
	Interval time.Duration

	// Logger overrides the worker's structured logger; defaults to slog.Default().
	Logger *slog.Logger
}

// Worker is one running instance of a Config, reporting its outcome on Done.
// Done and Started are both close-based broadcasts so any number of
// goroutines (the Hub's fatal-exit watcher and its shutdown waiter alike)
// can observe them independently.
type Worker struct {
	cfg    Config
	cancel context.CancelFunc

	started    chan struct{}
	startedErr error

	done    chan struct{}
	doneErr error
}

// Start spawns the worker's goroutine and returns immediately; read from
// Done to observe its terminal error (nil on a clean Break or cancellation).
func Start(parent context.Context, cfg Config) *Worker {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(parent)
	w := &Worker{cfg: cfg, cancel: cancel, started: make(chan struct{}), done: make(chan struct{})}
	go w.run(ctx)
	return w
}

// Name returns the worker's registered name.
func (w *Worker) Name() string { return w.cfg.Name }

// Stop raises the worker's cancellation token; it does not wait for exit.
func (w *Worker) Stop() { w.cancel() }

// Started closes once Setup has returned; read StartedErr afterward for its
// outcome. The Hub's Starting state reads this to know when a worker is
// ready to be considered live.
func (w *Worker) Started() <-chan struct{} { return w.started }

// StartedErr is only meaningful after Started has closed: nil on a
// successful (or absent) Setup, otherwise the fatal startup error.
func (w *Worker) StartedErr() error { return w.startedErr }

// Done closes once the worker has fully exited (Teardown included); read
// DoneErr afterward for its outcome.
func (w *Worker) Done() <-chan struct{} { return w.done }

// DoneErr is only meaningful after Done has closed: nil on a clean Break or
// cancellation, otherwise the fatal error that ended the worker.
func (w *Worker) DoneErr() error { return w.doneErr }

func (w *Worker) run(ctx context.Context) {
	wctx := Context{Name: w.cfg.Name, Logger: w.cfg.Logger, ctx: ctx}

	var state any
	var fatal error

	if w.cfg.Setup != nil {
		s, err := w.cfg.Setup(wctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			fatal = err
		}
		state = s
	}
	w.startedErr = fatal
	close(w.started)

	if fatal == nil && w.cfg.Tick != nil {
		fatal = w.loop(wctx, state)
	}

	if w.cfg.Teardown != nil {
		if err := w.cfg.Teardown(wctx, state); err != nil {
			wctx.Logger.Warn("worker_teardown_error", "worker", w.cfg.Name, "error", err)
		}
	}

	w.doneErr = fatal
	close(w.done)
}

// ErrPrematureBreak is the fatal error reported when a looping worker's Tick
// returns Break before shutdown was ever signalled, per the liveness rule: a
// looping worker is expected to keep ticking until cancelled.
var ErrPrematureBreak = errors.New("worker: tick returned Break before shutdown was signalled")

func (w *Worker) loop(ctx Context, state any) error {
	if !w.cfg.Loop {
		_, err := w.cfg.Tick(ctx, state)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		flow, err := w.cfg.Tick(ctx, state)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if flow == Break {
			if ctx.Err() != nil {
				return nil
			}
			return ErrPrematureBreak
		}

		if w.cfg.Interval > 0 {
			t := time.NewTimer(w.cfg.Interval)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil
			case <-t.C:
			}
		}
	}
}
