package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
)

// ServiceType is the mDNS/DNS-SD service type a control station advertises
// itself under, so companion tooling on the LAN (a second control seat, a
// browser dashboard) can find the running process without a fixed address.
// This advertises the host's own control process; it never advertises the
// robot itself, and absence of it never gates command execution.
const ServiceType = "_robomaster._tcp"

// Advertise registers an mDNS service record for this control station and
// returns a cleanup func. It is safe to ignore the returned error's effect
// on control flow: advertisement is strictly additive.
func Advertise(ctx context.Context, instance string, port int, meta []string) (func(), error) {
	if instance == "" {
		instance = "robomaster-control"
	}
	svc, err := zeroconf.Register(instance, ServiceType, "local.", port, meta, nil)
	if err != nil {
		return nil, fmt.Errorf("discovery: mdns register: %w", err)
	}
	done := make(chan struct{})
	var shutdownOnce sync.Once
	shutdown := func() { shutdownOnce.Do(svc.Shutdown) }

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		shutdown()
	}()
	return func() {
		close(done)
		shutdown()
		time.Sleep(50 * time.Millisecond)
	}, nil
}
