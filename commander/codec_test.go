package commander

import (
	"bytes"
	"testing"
)

func TestEncodeRequestNoArgs(t *testing.T) {
	if got := encodeRequest("version", nil); got != "version;" {
		t.Fatalf("got %q", got)
	}
}

func TestEncodeRequestWithArgs(t *testing.T) {
	got := encodeRequest("chassis speed", []Arg{Token("x"), Float(1.5), Token("z"), Int(10)})
	want := "chassis speed x 1.5 z 10;"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

type loopback struct {
	bytes.Buffer
}

func TestLineCodecRoundTrip(t *testing.T) {
	buf := &loopback{}
	codec := newLineCodec(buf)
	if err := codec.writeLine("version;"); err != nil {
		t.Fatalf("writeLine: %v", err)
	}
	line, err := codec.readLine()
	if err != nil {
		t.Fatalf("readLine: %v", err)
	}
	if line != "version" {
		t.Fatalf("got %q", line)
	}
}
