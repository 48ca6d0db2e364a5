package vision

import (
	"bytes"
	"context"
	"net"
	"strconv"
	"testing"
	"time"
)

func TestRawFrameDecoderYieldsFrames(t *testing.T) {
	r := bytes.NewReader([]byte("abcdef"))
	it, err := RawFrameDecoder{BufSize: 3}.Open(r)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f1, err := it.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if string(f1.Pixels) != "abc" {
		t.Fatalf("unexpected frame 1: %q", f1.Pixels)
	}
	f2, err := it.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if string(f2.Pixels) != "def" {
		t.Fatalf("unexpected frame 2: %q", f2.Pixels)
	}
	if _, err := it.Next(); err == nil {
		t.Fatalf("expected EOF after stream exhausted")
	}
}

func TestSourceDropsOldestUnderBackpressure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		for i := 0; i < 10; i++ {
			conn.Write([]byte{byte(i)})
		}
	}()

	_, portStr, _ := net.SplitHostPort(ln.Addr().String())
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}

	src := New("127.0.0.1", RawFrameDecoder{BufSize: 1}, WithPort(port))

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	done := make(chan struct{})
	go func() {
		src.Run(ctx)
		close(done)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()
	<-done

	if src.Frames().Len() > 1 {
		t.Fatalf("expected at most 1 queued frame, got %d", src.Frames().Len())
	}
}
