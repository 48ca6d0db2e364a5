package commander

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// TestHandshakeSuccess verifies a successful "command;" handshake yields a
// usable Commander.
func TestHandshakeSuccess(t *testing.T) {
	m := newMockRobot(t, okHandler)
	c, err := New(context.Background(), WithHost("127.0.0.1"), WithPort(m.port(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()
}

func TestHandshakeFailure(t *testing.T) {
	m := newMockRobot(t, func(req string) string { return "nope" })
	_, err := New(context.Background(), WithHost("127.0.0.1"), WithPort(m.port(t)))
	if !errors.Is(err, ErrHandshake) {
		t.Fatalf("expected ErrHandshake, got %v", err)
	}
}

// TestVersionQuery exercises a version query round-trip.
func TestVersionQuery(t *testing.T) {
	m := newMockRobot(t, func(req string) string {
		if req == "version" {
			return "version 00.00.00.60"
		}
		return "ok"
	})
	c, err := New(context.Background(), WithHost("127.0.0.1"), WithPort(m.port(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	v, err := c.Version()
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if v != "version 00.00.00.60" {
		t.Fatalf("got %q", v)
	}
}

// TestChassisMoveInvalidArgAndRemoteError verifies an out-of-range move
// fails host-side without touching the socket, then an in-range move that
// the mock rejects surfaces as a RemoteError while the session stays usable.
func TestChassisMoveInvalidArgAndRemoteError(t *testing.T) {
	m := newMockRobot(t, func(req string) string {
		if strings.HasPrefix(req, "chassis move") {
			return "error"
		}
		return "ok"
	})
	c, err := New(context.Background(), WithHost("127.0.0.1"), WithPort(m.port(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	before := m.requestCount()
	err = c.ChassisMove(MoveX(100))
	var invalid *InvalidArgError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidArgError, got %v", err)
	}
	if m.requestCount() != before {
		t.Fatalf("expected no wire traffic for an invalid move")
	}

	err = c.ChassisMove(MoveX(1))
	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected RemoteError, got %v", err)
	}

	// session remains usable
	if _, err := c.Version(); err != nil {
		t.Fatalf("session should remain usable after a RemoteError: %v", err)
	}
}

// TestArmorSensitivityBoundary checks the 1-10 sensitivity range is enforced
// host-side before any wire traffic is sent.
func TestArmorSensitivityBoundary(t *testing.T) {
	m := newMockRobot(t, okHandler)
	c, err := New(context.Background(), WithHost("127.0.0.1"), WithPort(m.port(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	before := m.requestCount()
	if err := c.ArmorSensitivity(0); err == nil {
		t.Fatalf("expected error for n=0")
	}
	if err := c.ArmorSensitivity(11); err == nil {
		t.Fatalf("expected error for n=11")
	}
	if m.requestCount() != before {
		t.Fatalf("expected no wire traffic for out-of-range sensitivity")
	}
	if err := c.ArmorSensitivity(5); err != nil {
		t.Fatalf("ArmorSensitivity(5): %v", err)
	}
}

// TestTimeoutPoisonsSession verifies a read that times out leaves the
// session Closed for subsequent calls.
func TestTimeoutPoisonsSession(t *testing.T) {
	m := newMockRobot(t, func(req string) string {
		if req == "command" {
			return "ok"
		}
		return "" // never respond: forces a read timeout
	})
	c, err := New(context.Background(), WithHost("127.0.0.1"), WithPort(m.port(t)), WithTimeout(100*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	_, err = c.Version()
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}

	_, err = c.Version()
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed on subsequent call, got %v", err)
	}
}

// TestChassisPushOnOffLeavesNoSubscription verifies push_on followed by
// push_off issues the matching wire requests.
func TestChassisPushOnOffLeavesNoSubscription(t *testing.T) {
	m := newMockRobot(t, okHandler)
	c, err := New(context.Background(), WithHost("127.0.0.1"), WithPort(m.port(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if err := c.ChassisPushOn(5, 5, 5); err != nil {
		t.Fatalf("ChassisPushOn: %v", err)
	}
	if err := c.ChassisPushOff(); err != nil {
		t.Fatalf("ChassisPushOff: %v", err)
	}
	if last := m.lastRequest(); last != "chassis push position off attitude off status off" {
		t.Fatalf("unexpected last request: %q", last)
	}
}

func TestChassisPushOnRejectsUnlistedFrequency(t *testing.T) {
	m := newMockRobot(t, okHandler)
	c, err := New(context.Background(), WithHost("127.0.0.1"), WithPort(m.port(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if err := c.ChassisPushOn(7, 5, 5); err == nil {
		t.Fatalf("expected rejection of an unlisted push frequency")
	}
}
