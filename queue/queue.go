// Package queue provides the bounded, drop-on-overflow channel wrapper
// shared by the push and event listeners and the vision source.
package queue

import (
	"log/slog"

	"github.com/robo-ep/sdk/internal/logging"
	"github.com/robo-ep/sdk/internal/metrics"
)

// Policy selects what a full queue does with an incoming record.
type Policy int

const (
	// DropNewest discards the record being pushed, keeping everything
	// already queued. Used by push/event listeners: a stale telemetry
	// record already queued is still informative.
	DropNewest Policy = iota
	// DropOldest discards the oldest queued record to make room, so the
	// record being pushed is always kept. Used by the vision source
	// (capacity 1), which never wants to show a stale frame.
	DropOldest
)

func (p Policy) String() string {
	if p == DropOldest {
		return "drop_oldest"
	}
	return "drop_newest"
}

// Queue is a bounded FIFO of capacity Cap with the configured overflow
// Policy. The zero value is not usable; construct with New.
type Queue[T any] struct {
	name   string
	policy Policy
	ch     chan T
	logger *slog.Logger
}

// New creates a bounded queue. capacity must be >= 1. logger is used to warn
// on overflow drops, per the queue discipline's "logs at warning" contract;
// a nil logger defaults to logging.L().
func New[T any](name string, capacity int, policy Policy, logger *slog.Logger) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	if logger == nil {
		logger = logging.L()
	}
	return &Queue[T]{name: name, policy: policy, ch: make(chan T, capacity), logger: logger}
}

// Push enqueues v, applying the configured overflow policy when full.
// It never blocks.
func (q *Queue[T]) Push(v T) {
	switch q.policy {
	case DropOldest:
		for {
			select {
			case q.ch <- v:
				metrics.SetQueueDepth(q.name, len(q.ch))
				return
			default:
			}
			select {
			case <-q.ch:
				q.logDrop()
			default:
			}
		}
	default: // DropNewest
		select {
		case q.ch <- v:
		default:
			q.logDrop()
		}
		metrics.SetQueueDepth(q.name, len(q.ch))
	}
}

func (q *Queue[T]) logDrop() {
	metrics.IncQueueDrop(q.name, q.policy.String())
	q.logger.Warn("queue_drop", "queue", q.name, "policy", q.policy.String())
}

// C exposes the receive side for select statements and range loops.
func (q *Queue[T]) C() <-chan T { return q.ch }

// Len reports the current queue depth (best effort, racy by nature of channels).
func (q *Queue[T]) Len() int { return len(q.ch) }

// Cap reports the configured capacity.
func (q *Queue[T]) Cap() int { return cap(q.ch) }
