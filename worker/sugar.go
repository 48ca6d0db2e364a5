package worker

import (
	"context"
	"log/slog"
	"time"
)

// Runnable is satisfied by any component whose entire lifecycle is a single
// blocking Run call that returns when ctx is cancelled: push.Listener,
// event.Listener and vision.Source all already have this shape, so wrapping
// them as a worker needs no per-field glue.
type Runnable interface {
	Run(ctx context.Context) error
}

// FromRunnable builds a Config around a Runnable's blocking Run method: Tick
// calls Run exactly once and reports Break when it returns, so the engine's
// Loop=false path runs it to completion while still observing cancellation.
func FromRunnable(name string, r Runnable, logger *slog.Logger) Config {
	return Config{
		Name: name,
		Tick: func(c Context, _ any) (ControlFlow, error) {
			if err := r.Run(c.ctx); err != nil {
				return Break, err
			}
			return Break, nil
		},
		Loop:   false,
		Logger: logger,
	}
}

// Vision wraps a vision.Source (or anything satisfying Runnable) as a
// worker that runs until the frame stream ends or the Hub shuts down.
func Vision(name string, source Runnable, logger *slog.Logger) Config {
	return FromRunnable(name, source, logger)
}

// PushListener wraps a push.Listener as a worker.
func PushListener(name string, listener Runnable, logger *slog.Logger) Config {
	return FromRunnable(name, listener, logger)
}

// EventListener wraps an event.Listener as a worker.
func EventListener(name string, listener Runnable, logger *slog.Logger) Config {
	return FromRunnable(name, listener, logger)
}

// Mind wraps arbitrary user control logic: tick runs repeatedly (the usual
// "read a queue, maybe call the Commander" shape for reactive control) until
// it returns Break or the Hub shuts down. interval is the delay observed
// between ticks when the control function doesn't itself block on a queue
// read; pass 0 to tick back-to-back.
func Mind(name string, setup func(Context) (any, error), tick func(Context, any) (ControlFlow, error), teardown func(Context, any) error, interval time.Duration, logger *slog.Logger) Config {
	return Config{
		Name:     name,
		Setup:    setup,
		Tick:     tick,
		Teardown: teardown,
		Loop:     true,
		Interval: interval,
		Logger:   logger,
	}
}
