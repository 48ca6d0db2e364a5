package commander

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// terminator is the wire line terminator for both requests and responses.
const terminator = ";"

// encodeRequest composes "cmd arg1 arg2 ...;" from a verb and its Args.
func encodeRequest(cmd string, args []Arg) string {
	var b strings.Builder
	b.WriteString(cmd)
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteString(string(a))
	}
	b.WriteString(terminator)
	return b.String()
}

// lineCodec reads and writes terminator-delimited ASCII lines over a stream.
// Stateless aside from the buffered reader it wraps; safe to reuse across
// calls on the same connection but not safe for concurrent use (the
// Commander's session mutex is what enforces that).
type lineCodec struct {
	r *bufio.Reader
	w io.Writer
}

func newLineCodec(rw io.ReadWriter) *lineCodec {
	return &lineCodec{r: bufio.NewReader(rw), w: rw}
}

// writeLine writes raw (already ";"-terminated) bytes to the wire. The
// underlying error is wrapped alongside ErrIo, not just stringified, so a
// caller's errors.As for net.Error (timeout detection) still sees through it.
func (c *lineCodec) writeLine(line string) error {
	_, err := io.WriteString(c.w, line)
	if err != nil {
		return fmt.Errorf("%w: write: %w", ErrIo, err)
	}
	return nil
}

// readLine reads up to and including the next terminator, and returns the
// body with the terminator stripped.
func (c *lineCodec) readLine() (string, error) {
	line, err := c.r.ReadString(';')
	if err != nil {
		return "", fmt.Errorf("%w: read: %w", ErrIo, err)
	}
	return strings.TrimSuffix(line, terminator), nil
}
