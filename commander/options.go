package commander

import (
	"context"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/robo-ep/sdk/internal/logging"
)

const (
	// DefaultPort is the robot's TCP text-protocol port.
	DefaultPort = 40923
	// DefaultTimeout bounds both the handshake and each subsequent request.
	DefaultTimeout = 30 * time.Second
	// DefaultDiscoveryPort is the UDP broadcast port the robot announces its IP on.
	DefaultDiscoveryPort = 40926
)

// Dialer opens the transport connection; overridable for tests.
type Dialer func(ctx context.Context, network, addr string) (net.Conn, error)

type config struct {
	host          string
	port          int
	timeout       time.Duration
	dialer        Dialer
	logger        *slog.Logger
	discoveryPort int
	discoveryDur  time.Duration
}

func defaultConfig() *config {
	return &config{
		port:          DefaultPort,
		timeout:       DefaultTimeout,
		dialer:        (&net.Dialer{}).DialContext,
		logger:        logging.L(),
		discoveryPort: DefaultDiscoveryPort,
		discoveryDur:  5 * time.Second,
	}
}

// Option configures a Commander at construction time.
type Option func(*config)

// WithHost pins the robot's address, skipping IP discovery.
func WithHost(host string) Option { return func(c *config) { c.host = host } }

// WithPort overrides the TCP text-protocol port (default 40923).
func WithPort(port int) Option {
	return func(c *config) {
		if port > 0 {
			c.port = port
		}
	}
}

// WithTimeout overrides the handshake/request timeout (default 30s).
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithDialer overrides the transport dialer, primarily for tests.
func WithDialer(d Dialer) Option {
	return func(c *config) {
		if d != nil {
			c.dialer = d
		}
	}
}

// WithLogger overrides the Commander's structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDiscovery overrides the broadcast port and listen duration used when
// no host is pinned via WithHost.
func WithDiscovery(port int, timeout time.Duration) Option {
	return func(c *config) {
		if port > 0 {
			c.discoveryPort = port
		}
		if timeout > 0 {
			c.discoveryDur = timeout
		}
	}
}

// FromEnv overlays ROBOMASTER_HOST, ROBOMASTER_PORT and ROBOMASTER_TIMEOUT onto
// the config. New applies Options in the order given, so an Option listed
// after FromEnv overrides the environment and one listed before it is
// overridden by it.
func FromEnv() Option {
	return func(c *config) {
		if v := os.Getenv("ROBOMASTER_HOST"); v != "" {
			c.host = v
		}
		if v := os.Getenv("ROBOMASTER_PORT"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.port = n
			}
		}
		if v := os.Getenv("ROBOMASTER_TIMEOUT"); v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				c.timeout = d
			}
		}
	}
}
