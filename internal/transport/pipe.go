package transport

import (
	"bytes"
	"io"
	"sync"

	"github.com/luxfi/aby3/internal/party"
)

// memBuffer is one direction of an in-memory pipe. Unlike net.Pipe it
// buffers writes, which matters here: all three parties of a protocol
// gate send before they receive, and with rendezvous semantics that
// pattern deadlocks the triangle.
type memBuffer struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    bytes.Buffer
	closed bool
}

func newMemBuffer() *memBuffer {
	b := &memBuffer{}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *memBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return 0, io.ErrClosedPipe
	}
	n, err := b.buf.Write(p)
	b.cond.Broadcast()
	return n, err
}

func (b *memBuffer) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.buf.Len() == 0 {
		if b.closed {
			return 0, io.EOF
		}
		b.cond.Wait()
	}
	return b.buf.Read(p)
}

func (b *memBuffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.cond.Broadcast()
	return nil
}

// memConn glues a read buffer and a write buffer into the Conn shape
// Channel frames over.
type memConn struct {
	r *memBuffer
	w *memBuffer
}

func (c memConn) Read(p []byte) (int, error)  { return c.r.Read(p) }
func (c memConn) Write(p []byte) (int, error) { return c.w.Write(p) }
func (c memConn) Close() error                { return c.w.Close() }

// LocalTriangle wires three in-process Channels in a ring, one
// buffered pipe per directed edge (self -> next). It is the local
// simulation mode used by protocol tests and the CLI's simulate
// path: no sockets, no certificates, just
// enough of the Conn interface to exercise a full protocol run in a
// single process.
func LocalTriangle() map[party.ID]*Network {
	ids := [3]party.ID{party.ID0, party.ID1, party.ID2}

	// edge[i] carries traffic from ids[i] to ids[i+1 mod 3].
	var edge [3]*memBuffer
	for i := range edge {
		edge[i] = newMemBuffer()
	}

	nets := make(map[party.ID]*Network, 3)
	for i, id := range ids {
		nets[id] = &Network{
			Self:        id,
			channelNext: NewChannel(memConn{w: edge[i], r: newMemBuffer()}),
			channelPrev: NewChannel(memConn{r: edge[(i+2)%3], w: newMemBuffer()}),
		}
	}
	return nets
}
