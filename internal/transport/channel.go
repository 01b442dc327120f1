// Package transport implements the byte-channel layer: a symmetric
// duplex of length-delimited frames, plus
// the party-triangle wiring that hands each party exactly one channel
// to its next neighbour and one channel from its previous neighbour.
package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/luxfi/aby3/internal/errs"
)

// maxFrameSize bounds a single frame so a corrupt or adversarial
// length prefix can't make us allocate unbounded memory. The largest
// legitimate frame is a packed vector of IRIS_CODE_SIZE 128-bit
// elements, far below this.
const maxFrameSize = 64 << 20

// Conn is the minimal transport this package frames: a bidirectional
// byte stream, satisfied by both a net.Conn and a quic.Stream.
type Conn interface {
	io.Reader
	io.Writer
	io.Closer
}

// ErrConnectionAborted is matched by the error Receive returns once the
// peer has closed the stream, and by the error it returns when a frame
// arrives after this side's own Shutdown (a protocol violation).
var ErrConnectionAborted = errors.New("transport: connection aborted")

// Channel is a length-delimited duplex over Conn. Messages on a single
// Channel are delivered in FIFO order because the underlying stream
// is ordered; Send and Receive are the only two hot-path operations a
// protocol gate uses.
type Channel struct {
	conn Conn

	mu     sync.Mutex
	closed bool
}

// NewChannel wraps an established connection.
func NewChannel(conn Conn) *Channel {
	return &Channel{conn: conn}
}

// Send writes one length-delimited frame.
func (c *Channel) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errs.Wrap(errs.ErrIO, "send on closed channel")
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	if _, err := c.conn.Write(lenBuf[:]); err != nil {
		return errs.Wrap(errs.ErrIO, "write frame length")
	}
	if len(data) == 0 {
		return nil
	}
	if _, err := c.conn.Write(data); err != nil {
		return errs.Wrap(errs.ErrIO, "write frame body")
	}
	return nil
}

// Receive reads one length-delimited frame. A graceful peer close
// (end of stream before a frame length) surfaces as an error matching
// both errs.ErrIO and ErrConnectionAborted.
func (c *Channel) Receive() ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(c.conn, lenBuf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %w", ErrConnectionAborted, errs.ErrIO)
		}
		return nil, errs.Wrap(errs.ErrIO, "read frame length")
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxFrameSize {
		return nil, errs.Wrap(errs.ErrInvalidSize, "frame exceeds maximum size")
	}
	var buf []byte
	if n > 0 {
		buf = make([]byte, n)
		if _, err := io.ReadFull(c.conn, buf); err != nil {
			return nil, errs.Wrap(errs.ErrIO, "read frame body")
		}
	}
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil, fmt.Errorf("%w: frame received after shutdown: %w", ErrConnectionAborted, errs.ErrIO)
	}
	return buf, nil
}

// Shutdown flushes (implicit in Conn.Close for the stream types we
// wrap) and half-closes the channel. A subsequent Receive observing
// more data is the abort case; callers that
// need to detect this explicitly should call Receive once more and
// check for ErrConnectionAborted.
func (c *Channel) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.conn.Close(); err != nil {
		return errs.Wrap(errs.ErrIO, "close channel")
	}
	return nil
}
