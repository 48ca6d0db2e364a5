package commander

import (
	"errors"
	"fmt"

	"github.com/robo-ep/sdk/internal/metrics"
)

// Sentinel errors, wrapped with %w so callers classify via errors.Is.
var (
	ErrIo        = errors.New("commander: io")
	ErrTimeout   = errors.New("commander: timeout")
	ErrHandshake = errors.New("commander: handshake")
	ErrRemote    = errors.New("commander: remote")
	ErrInvalid   = errors.New("commander: invalid argument")
	ErrClosed    = errors.New("commander: closed")
	ErrDiscovery = errors.New("commander: discovery timeout")
)

// HandshakeError reports an unexpected response to the "command;" handshake.
type HandshakeError struct {
	Got string
}

func (e *HandshakeError) Error() string { return fmt.Sprintf("handshake: unexpected response %q", e.Got) }
func (e *HandshakeError) Unwrap() error { return ErrHandshake }

// RemoteError reports a command the robot rejected.
type RemoteError struct {
	Body string
}

func (e *RemoteError) Error() string { return fmt.Sprintf("remote: %s", e.Body) }
func (e *RemoteError) Unwrap() error { return ErrRemote }

// InvalidArgError reports a host-side range check failure; the wire is never touched.
type InvalidArgError struct {
	Field  string
	Reason string
}

func (e *InvalidArgError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Reason)
}
func (e *InvalidArgError) Unwrap() error { return ErrInvalid }

// mapErrToMetric maps a wrapped sentinel error to a bounded-cardinality metric label.
func mapErrToMetric(err error) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return metrics.ErrTimeout
	case errors.Is(err, ErrHandshake):
		return metrics.ErrHandshake
	case errors.Is(err, ErrRemote):
		return metrics.ErrRemote
	case errors.Is(err, ErrInvalid):
		return metrics.ErrInvalid
	case errors.Is(err, ErrClosed):
		return metrics.ErrClosed
	case errors.Is(err, ErrIo):
		return metrics.ErrIo
	default:
		return "other"
	}
}
