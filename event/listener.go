package event

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/robo-ep/sdk/commander"
	"github.com/robo-ep/sdk/internal/logging"
	"github.com/robo-ep/sdk/queue"
)

const (
	// DefaultPort is the robot's event-telegram UDP port.
	DefaultPort      = 40925
	recvPollInterval = 250 * time.Millisecond
	// DefaultQueueCapacity is the default bounded-queue size for event records.
	DefaultQueueCapacity = 16
)

// EnrichFunc optionally re-queries a companion Commander to attach context to
// a freshly decoded record before it's queued. Enrichment failures degrade
// to emission of the un-enriched record plus a logged warning.
type EnrichFunc func(ctx context.Context, cmd *commander.Commander, rec Record) (Record, error)

// Listener binds the event UDP socket, decodes telegrams, optionally
// enriches them via a companion Commander, and queues them.
type Listener struct {
	port     int
	logger   *slog.Logger
	queueCap int
	queue    *queue.Queue[Record]
	cmd      *commander.Commander
	enrich   EnrichFunc
	warnOnce sync.Map
}

// Option configures a Listener.
type Option func(*Listener)

// WithPort overrides the UDP port (default 40925).
func WithPort(port int) Option {
	return func(l *Listener) {
		if port > 0 {
			l.port = port
		}
	}
}

// WithLogger overrides the listener's structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Listener) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithQueueCapacity overrides the bounded queue's capacity (default 16).
func WithQueueCapacity(capacity int) Option {
	return func(l *Listener) {
		if capacity > 0 {
			l.queueCap = capacity
		}
	}
}

// WithCommander attaches a private companion Commander used for enrichment.
func WithCommander(cmd *commander.Commander) Option {
	return func(l *Listener) { l.cmd = cmd }
}

// WithEnrich sets the enrichment hook invoked when a companion Commander is
// attached via WithCommander. Defaults to a no-op passthrough.
func WithEnrich(fn EnrichFunc) Option {
	return func(l *Listener) {
		if fn != nil {
			l.enrich = fn
		}
	}
}

// NewListener constructs an event Listener; call Run to start receiving.
func NewListener(opts ...Option) *Listener {
	l := &Listener{
		port:     DefaultPort,
		logger:   logging.L(),
		queueCap: DefaultQueueCapacity,
		enrich:   func(_ context.Context, _ *commander.Commander, rec Record) (Record, error) { return rec, nil },
	}
	for _, o := range opts {
		o(l)
	}
	l.queue = queue.New[Record]("event", l.queueCap, queue.DropNewest, l.logger)
	return l
}

// Records exposes the downstream queue consumers read from.
func (l *Listener) Records() *queue.Queue[Record] { return l.queue }

// Run binds the UDP socket and decodes datagrams until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: l.port})
	if err != nil {
		return fmt.Errorf("event: listen :%d: %w", l.port, err)
	}
	defer conn.Close()

	go func() { <-ctx.Done(); _ = conn.Close() }()

	buf := make([]byte, 2048)
	for {
		if ctx.Err() != nil {
			return nil
		}
		_ = conn.SetReadDeadline(time.Now().Add(recvPollInterval))
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return fmt.Errorf("event: read: %w", err)
		}
		l.handleDatagram(ctx, string(buf[:n]), time.Now())
	}
}

func (l *Listener) handleDatagram(ctx context.Context, line string, now time.Time) {
	records, errs := Parse(line, now)
	for _, err := range errs {
		l.logMalformedOnce(err)
	}
	for _, rec := range records {
		if l.cmd != nil {
			enriched, err := l.enrich(ctx, l.cmd, rec)
			if err != nil {
				l.logger.Warn("event_enrich_failed", "error", err)
				// degrade to the un-enriched record.
			} else {
				rec = enriched
			}
		}
		l.queue.Push(rec)
	}
}

func (l *Listener) logMalformedOnce(err error) {
	me, ok := err.(*MalformedError)
	if !ok || !me.Unknown {
		l.logger.Warn("event_malformed", "error", err)
		return
	}
	if _, loaded := l.warnOnce.LoadOrStore(me.Reason, struct{}{}); loaded {
		return
	}
	l.logger.Warn("event_unknown_key", "error", err)
}
