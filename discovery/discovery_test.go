package discovery

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"
)

func TestDiscoverParsesBeacon(t *testing.T) {
	pc, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := pc.LocalAddr().(*net.UDPAddr).Port
	pc.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		addr, err := net.ResolveUDPAddr("udp4", "127.0.0.1:"+strconv.Itoa(port))
		if err != nil {
			return
		}
		for i := 0; i < 50; i++ {
			conn, err := net.DialUDP("udp4", nil, addr)
			if err == nil {
				_, _ = conn.Write([]byte("robot ip 192.168.2.1"))
				conn.Close()
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ip, err := Discover(ctx, Config{Port: port, Timeout: 2 * time.Second})
	<-done
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if ip != "192.168.2.1" {
		t.Fatalf("expected 192.168.2.1, got %q", ip)
	}
}

func TestDiscoverTimesOut(t *testing.T) {
	pc, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := pc.LocalAddr().(*net.UDPAddr).Port
	pc.Close()

	ctx := context.Background()
	_, err = Discover(ctx, Config{Port: port, Timeout: 100 * time.Millisecond})
	if err == nil {
		t.Fatal("expected timeout error")
	}
}
