package push

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/robo-ep/sdk/internal/logging"
	"github.com/robo-ep/sdk/queue"
)

const (
	// DefaultPort is the robot's push-telegram UDP port.
	DefaultPort = 40924
	// recvPollInterval bounds how often the read loop checks for cancellation.
	recvPollInterval = 250 * time.Millisecond
	// DefaultQueueCapacity is the default bounded-queue size for push records.
	DefaultQueueCapacity = 16
)

// Listener binds the push UDP socket and decodes telegrams onto a bounded
// queue. The socket read is the only suspension point; parsing is CPU-bound.
type Listener struct {
	port     int
	logger   *slog.Logger
	queueCap int
	queue    *queue.Queue[Record]
	warnOnce sync.Map // dedup key -> struct{}, one warning per distinct unknown (subsystem,group)
}

// Option configures a Listener.
type Option func(*Listener)

// WithPort overrides the UDP port (default 40924).
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

// NewListener constructs a push Listener; call Run to start receiving.
func NewListener(opts ...Option) *Listener {
	l := &Listener{
		port:     DefaultPort,
		logger:   logging.L(),
		queueCap: DefaultQueueCapacity,
	}
	for _, o := range opts {
		o(l)
	}
	l.queue = queue.New[Record]("push", l.queueCap, queue.DropNewest, l.logger)
	return l
}

// Records exposes the downstream queue consumers read from.
func (l *Listener) Records() *queue.Queue[Record] { return l.queue }

// Run binds the UDP socket and decodes datagrams until ctx is cancelled.
// Malformed segments are dropped; the listener never panics and never exits
// because of them. An unrecognised (subsystem, group) pair is logged once per
// distinct key; any other malformed segment is logged every time.
func (l *Listener) Run(ctx context.Context) error {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: l.port})
	if err != nil {
		return fmt.Errorf("push: listen :%d: %w", l.port, err)
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
			return fmt.Errorf("push: read: %w", err)
		}
		l.handleDatagram(string(buf[:n]), time.Now())
	}
}

func (l *Listener) handleDatagram(line string, now time.Time) {
	records, errs := Parse(line, now)
	for _, err := range errs {
		l.logMalformedOnce(err)
	}
	for _, rec := range records {
		l.queue.Push(rec)
	}
}

func (l *Listener) logMalformedOnce(err error) {
	var me *MalformedError
	if e, ok := err.(*MalformedError); ok {
		me = e
	}
	if me == nil || !me.Unknown {
		l.logger.Warn("push_malformed", "error", err)
		return
	}
	if _, loaded := l.warnOnce.LoadOrStore(me.Reason, struct{}{}); loaded {
		return
	}
	l.logger.Warn("push_unknown_key", "error", err)
}
