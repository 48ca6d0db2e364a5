// Package hub supervises a fixed set of workers through a coordinated
// startup and shutdown sequence, mirroring the signal-driven lifecycle of a
// long-running server: install signal handlers, run until asked to stop,
// cancel, wait for a graceful window, then force through.
package hub

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/robo-ep/sdk/internal/logging"
	"github.com/robo-ep/sdk/internal/metrics"
	"github.com/robo-ep/sdk/worker"
)

// State is one node of the Hub's supervision state machine.
type State int

// Hub states, in the order the state machine visits them on a clean run.
const (
	Idle State = iota
	Starting
	Running
	Stopping
	Killing
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopping:
		return "stopping"
	case Killing:
		return "killing"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

var allStates = []string{Idle.String(), Starting.String(), Running.String(), Stopping.String(), Killing.String(), Stopped.String()}

// DefaultGracefulDeadline bounds how long Stopping waits for workers to exit
// on their own before Killing force-terminates what's left.
const DefaultGracefulDeadline = 5 * time.Second

// ErrAlreadyRunning is returned by Register once Run has been called.
var ErrAlreadyRunning = errors.New("hub: cannot register workers after Run has started")

// Hub supervises a registry of worker.Config instances.
type Hub struct {
	mu               sync.Mutex
	state            State
	configs          []worker.Config
	gracefulDeadline time.Duration
	metricsInterval  time.Duration
	logger           *slog.Logger

	closeOnce sync.Once
	closeCh   chan struct{}
}

// Option configures a Hub at construction time.
type Option func(*Hub)

// WithGracefulDeadline overrides the Stopping→Killing escalation window
// (default 5s).
func WithGracefulDeadline(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.gracefulDeadline = d
		}
	}
}

// WithLogger overrides the Hub's structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithMetricsLogInterval enables periodic slog snapshots of the metrics
// package's local counters, for deployments with no Prometheus scrape
// target. Zero (the default) disables the snapshot logger.
func WithMetricsLogInterval(d time.Duration) Option {
	return func(h *Hub) { h.metricsInterval = d }
}

// New constructs an idle Hub. Register workers, then call Run.
func New(opts ...Option) *Hub {
	h := &Hub{
		state:            Idle,
		gracefulDeadline: DefaultGracefulDeadline,
		logger:           logging.L(),
		closeCh:          make(chan struct{}),
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Register adds a worker.Config to the startup registry. Workers start in
// registration order. Returns ErrAlreadyRunning once Run has begun.
func (h *Hub) Register(cfg worker.Config) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != Idle {
		return ErrAlreadyRunning
	}
	h.configs = append(h.configs, cfg)
	return nil
}

// Close initiates shutdown, as if a signal had been received. Safe to call
// multiple times and from any goroutine.
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.closeCh) })
}

func (h *Hub) setState(s State) {
	h.mu.Lock()
	h.state = s
	h.mu.Unlock()
	metrics.SetHubState(s.String(), allStates)
	h.logger.Info("hub_state", "state", s.String())
}

// State returns the Hub's current supervision state.
func (h *Hub) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Run starts every registered worker in order, waits for either an
// interrupt/termination signal, an explicit Close, or a worker's fatal
// exit, then drives the Stopping/Killing shutdown sequence. It returns once
// every worker has been reaped (or the graceful deadline has elapsed); a
// worker's fatal error, if any, is logged, never returned, since a
// supervised run always ends cleanly from the caller's perspective.
func (h *Hub) Run(ctx context.Context) error {
	h.setState(Starting)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := make([]*worker.Worker, 0, len(h.configs))
	fatalCh := make(chan fatalExit, len(h.configs))

	for _, cfg := range h.configs {
		w := worker.Start(runCtx, cfg)
		workers = append(workers, w)
		metrics.SetHubWorkers(len(workers))

		select {
		case <-w.Started():
			if err := w.StartedErr(); err != nil {
				h.logger.Error("hub_worker_start_failed", "worker", w.Name(), "error", err)
				h.stopAll(workers)
				return nil
			}
		case <-runCtx.Done():
			h.stopAll(workers)
			return nil
		}

		go watchWorker(w, fatalCh)
	}

	h.setState(Running)

	stopMetricsLog := h.startMetricsLog(runCtx)
	defer stopMetricsLog()

	select {
	case s := <-sigCh:
		h.logger.Info("hub_signal", "signal", s.String())
	case <-h.closeCh:
		h.logger.Info("hub_close_requested")
	case f := <-fatalCh:
		h.logger.Error("hub_worker_fatal", "worker", f.name, "error", f.err)
	case <-ctx.Done():
	}

	h.setState(Stopping)
	cancel()

	if waitAll(workers, h.gracefulDeadline) {
		h.setState(Stopped)
		return nil
	}

	h.setState(Killing)
	h.logger.Warn("hub_graceful_deadline_exceeded", "deadline", h.gracefulDeadline)
	// Workers only ever observe cooperative cancellation through ctx; there
	// is no OS-level force-kill available for a goroutine, so Killing's
	// "force-terminate" is abandoning the unresponsive workers' goroutines
	// and returning rather than blocking run() forever.
	h.setState(Stopped)
	return nil
}

type fatalExit struct {
	name string
	err  error
}

func watchWorker(w *worker.Worker, fatalCh chan<- fatalExit) {
	<-w.Done()
	if err := w.DoneErr(); err != nil {
		fatalCh <- fatalExit{name: w.Name(), err: err}
	}
}

func (h *Hub) stopAll(workers []*worker.Worker) {
	h.setState(Stopping)
	for _, w := range workers {
		w.Stop()
	}
	waitAll(workers, h.gracefulDeadline)
	h.setState(Stopped)
}

// waitAll blocks until every worker's Done has closed or the deadline
// elapses, returning true only if all workers exited in time. Each
// worker's Done channel is a close-based broadcast, so this can safely
// observe it alongside the Hub's own fatal-exit watcher goroutines.
func waitAll(workers []*worker.Worker, deadline time.Duration) bool {
	allDone := make(chan struct{})
	go func() {
		for _, w := range workers {
			<-w.Done()
		}
		close(allDone)
	}()
	select {
	case <-allDone:
		return true
	case <-time.After(deadline):
		return false
	}
}

func (h *Hub) startMetricsLog(ctx context.Context) func() {
	if h.metricsInterval <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		t := time.NewTicker(h.metricsInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				snap := metrics.Snap()
				h.logger.Info("metrics_snapshot",
					"push_records", snap.PushRecords,
					"event_records", snap.EventRecords,
					"malformed", snap.Malformed,
					"queue_drops", snap.QueueDrops,
					"errors", snap.Errors,
				)
			}
		}
	}()
	return func() { <-done }
}
