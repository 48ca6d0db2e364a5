// Package commander implements the synchronous, single-flight TCP text
// client for the robot's line-oriented command protocol.
package commander

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/robo-ep/sdk/discovery"
	"github.com/robo-ep/sdk/internal/metrics"

	"log/slog"
)

// Commander is a connected session to one robot. At most one request is ever
// in flight at a time, enforced by mu; callers that need parallel commands
// construct additional Commanders against the same robot (the robot
// linearises across all of them).
type Commander struct {
	mu       sync.Mutex
	conn     net.Conn
	codec    *lineCodec
	host     string
	port     int
	timeout  time.Duration
	logger   *slog.Logger
	poisoned bool
}

// New dials the robot (discovering its IP first if no WithHost was given),
// performs the "command;" handshake, and returns a ready Commander.
func New(ctx context.Context, opts ...Option) (*Commander, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(cfg)
	}

	host := cfg.host
	if host == "" {
		ip, err := discovery.Discover(ctx, discovery.Config{Port: cfg.discoveryPort, Timeout: cfg.discoveryDur})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDiscovery, err)
		}
		host = ip
	}

	addr := net.JoinHostPort(host, strconv.Itoa(cfg.port))
	dialCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()
	conn, err := cfg.dialer(dialCtx, "tcp", addr)
	if err != nil {
		metrics.IncError(metrics.ErrIo)
		return nil, fmt.Errorf("%w: dial %s: %v", ErrIo, addr, err)
	}

	c := &Commander{
		conn:    conn,
		codec:   newLineCodec(conn),
		host:    host,
		port:    cfg.port,
		timeout: cfg.timeout,
		logger:  cfg.logger.With("robot", host),
	}

	if err := c.handshake(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	c.logger.Info("commander_connected", "addr", addr)
	return c, nil
}

func (c *Commander) handshake() error {
	if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return fmt.Errorf("%w: set deadline: %v", ErrIo, err)
	}
	defer func() { _ = c.conn.SetDeadline(time.Time{}) }()

	if err := c.codec.writeLine("command;"); err != nil {
		metrics.IncError(mapErrToMetric(err))
		return classifyTimeout(err)
	}
	resp, err := c.codec.readLine()
	if err != nil {
		metrics.IncError(mapErrToMetric(err))
		return classifyTimeout(err)
	}
	if resp != "ok" {
		err := &HandshakeError{Got: resp}
		metrics.IncError(mapErrToMetric(err))
		return err
	}
	return nil
}

// Host returns the robot's address this Commander is connected to.
func (c *Commander) Host() string { return c.host }

// Close closes the underlying socket without sending "quit;", so that other
// Commanders connected to the same robot are left undisturbed. Use Quit if
// you explicitly want the robot to end the session.
func (c *Commander) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.poisoned = true
	return c.conn.Close()
}

// Quit explicitly asks the robot to end the session, then closes the socket.
func (c *Commander) Quit() error {
	_, err := c.do("quit", nil)
	closeErr := c.Close()
	if err != nil {
		return err
	}
	return closeErr
}

// do sends "cmd arg1 arg2 ...;" and returns the robot's response body with
// the trailing ";" stripped. No retries: the protocol is not idempotent
// across robot motion.
func (c *Commander) do(cmd string, args []Arg) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.poisoned {
		return "", fmt.Errorf("%w: %s", ErrClosed, cmd)
	}

	start := time.Now()
	if err := c.conn.SetDeadline(start.Add(c.timeout)); err != nil {
		return "", fmt.Errorf("%w: set deadline: %v", ErrIo, err)
	}
	defer func() { _ = c.conn.SetDeadline(time.Time{}) }()

	req := encodeRequest(cmd, args)
	if err := c.codec.writeLine(req); err != nil {
		werr := classifyTimeout(err)
		c.poisonOn(werr)
		metrics.IncError(mapErrToMetric(werr))
		return "", werr
	}

	resp, err := c.codec.readLine()
	metrics.ObserveCommanderRequest(cmd, time.Since(start).Seconds())
	if err != nil {
		rerr := classifyTimeout(err)
		c.poisonOn(rerr)
		metrics.IncError(mapErrToMetric(rerr))
		return "", rerr
	}

	if isErrorBody(resp) {
		metrics.IncCommanderRemoteError(cmd)
		rerr := &RemoteError{Body: resp}
		metrics.IncError(mapErrToMetric(rerr))
		return "", rerr
	}
	return resp, nil
}

// poisonOn marks the session unusable after a timeout or I/O error: the wire
// is left in an unknown state, so every later call fails fast with Closed
// rather than risk reading a stale or misaligned response.
func (c *Commander) poisonOn(err error) {
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrIo) {
		c.poisoned = true
	}
}

func isErrorBody(body string) bool {
	if body == "ok" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(body), "error")
}

func classifyTimeout(err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
