// Package vision pulls the robot's video stream and hands decoded frames to
// a drop-oldest, single-slot queue. The actual H.264/RTP decode is an
// external collaborator: this package only defines the frame-producing
// contract the Vision worker drains.
package vision

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"

	"github.com/robo-ep/sdk/internal/logging"
	"github.com/robo-ep/sdk/queue"
)

// DefaultPort is the robot's video-stream TCP port.
const DefaultPort = 40921

// Frame is an opaque decoded frame handle.
type Frame struct {
	Width, Height int
	// Pixels holds the decoded pixel data; layout is decoder-defined.
	Pixels []byte
}

// FrameIterator yields decoded frames in order. Next blocks until a frame is
// available, the stream ends (io.EOF), or the stream errors.
type FrameIterator interface {
	Next() (Frame, error)
}

// Decoder opens a frame-producing iterator over a raw byte stream. Real
// implementations wrap an H.264/RTP decoder; supplied by the caller.
type Decoder interface {
	Open(r io.Reader) (FrameIterator, error)
}

// Source pulls the robot's video stream and drains it into a drop-oldest
// single-slot queue so a slow consumer never sees a stale frame.
type Source struct {
	host    string
	port    int
	dialer  func(ctx context.Context, network, addr string) (net.Conn, error)
	decoder Decoder
	logger  *slog.Logger
	queue   *queue.Queue[Frame]
}

// Option configures a Source.
type Option func(*Source)

// WithPort overrides the video TCP port (default 40921).
func WithPort(port int) Option {
	return func(s *Source) {
		if port > 0 {
			s.port = port
		}
	}
}

// WithDialer overrides the transport dialer, primarily for tests.
func WithDialer(d func(ctx context.Context, network, addr string) (net.Conn, error)) Option {
	return func(s *Source) {
		if d != nil {
			s.dialer = d
		}
	}
}

// WithLogger overrides the Source's structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a video Source for host using decoder to produce frames.
func New(host string, decoder Decoder, opts ...Option) *Source {
	s := &Source{
		host:    host,
		port:    DefaultPort,
		dialer:  (&net.Dialer{}).DialContext,
		decoder: decoder,
		logger:  logging.L(),
	}
	for _, o := range opts {
		o(s)
	}
	s.queue = queue.New[Frame]("vision", 1, queue.DropOldest, s.logger)
	return s
}

// Frames exposes the drop-oldest single-slot queue consumers read from.
func (s *Source) Frames() *queue.Queue[Frame] { return s.queue }

// Run dials the video stream, opens the decoder, and pulls frames until ctx
// is cancelled or the stream ends. Cancellation is observed between frames.
func (s *Source) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))
	conn, err := s.dialer(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("vision: dial %s: %w", addr, err)
	}
	defer conn.Close()

	go func() { <-ctx.Done(); _ = conn.Close() }()

	it, err := s.decoder.Open(conn)
	if err != nil {
		return fmt.Errorf("vision: open decoder: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		frame, err := it.Next()
		if err != nil {
			if err == io.EOF || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("vision: decode: %w", err)
		}
		s.queue.Push(frame)
	}
}

// RawFrameDecoder is a trivial Decoder useful in tests: each Read call is
// treated as one opaque frame, with no real codec involved.
type RawFrameDecoder struct {
	BufSize int
}

// Open returns a FrameIterator that performs one Read per Next call.
func (d RawFrameDecoder) Open(r io.Reader) (FrameIterator, error) {
	bufSize := d.BufSize
	if bufSize <= 0 {
		bufSize = 4096
	}
	return &rawIterator{r: r, buf: make([]byte, bufSize)}, nil
}

type rawIterator struct {
	r   io.Reader
	buf []byte
}

func (it *rawIterator) Next() (Frame, error) {
	n, err := it.r.Read(it.buf)
	if n > 0 {
		data := make([]byte, n)
		copy(data, it.buf[:n])
		return Frame{Pixels: data}, nil
	}
	if err != nil {
		return Frame{}, err
	}
	return Frame{}, io.EOF
}
