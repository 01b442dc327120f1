// Package wire implements the two frame payload shapes: fixed-width
// little-endian ring payloads on the interactive gates'
// hot path, and a small CBOR-encoded control frame used once per
// connection to confirm both ends agree on which parties they are
// before any secret material crosses the wire.
package wire

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/luxfi/aby3/internal/errs"
	"github.com/luxfi/aby3/internal/party"
	"github.com/luxfi/aby3/internal/ring"
)

// Hello is exchanged once, immediately after a channel is dialed or
// accepted, so each side can confirm the party identity its
// counterpart believes it is talking to before any protocol gate
// consumes the channel.
type Hello struct {
	From party.ID
	To   party.ID
}

// EncodeHello serializes a Hello as CBOR. Control frames use CBOR
// rather than the hot-path's raw little-endian layout because the
// handshake is a one-off, low-volume exchange where self-describing
// structure is worth a few extra bytes.
func EncodeHello(h Hello) ([]byte, error) {
	b, err := cbor.Marshal(h)
	if err != nil {
		return nil, errs.Wrap(errs.ErrConversion, "encode hello frame")
	}
	return b, nil
}

// DecodeHello parses a Hello control frame.
func DecodeHello(b []byte) (Hello, error) {
	var h Hello
	if err := cbor.Unmarshal(b, &h); err != nil {
		return Hello{}, errs.Wrap(errs.ErrConversion, "decode hello frame")
	}
	return h, nil
}

// EncodeScalar serializes a single ring element for a mul/and/open
// gate: fixed-width little-endian, no envelope.
func EncodeScalar(e ring.Element) []byte {
	return e.ToBytes()
}

// DecodeScalar parses a single ring element of the given kind.
func DecodeScalar(k ring.Kind, b []byte) (ring.Element, error) {
	return ring.FromBytes(k, b)
}

// EncodeVector serializes a batched gate's ring-element vector:
// concatenated fixed-width little-endian elements.
func EncodeVector(xs []ring.Element) []byte {
	if len(xs) == 0 {
		return nil
	}
	width := xs[0].Kind.Bytes()
	buf := make([]byte, 0, width*len(xs))
	for _, x := range xs {
		buf = append(buf, x.ToBytes()...)
	}
	return buf
}

// DecodeVector parses a packed ring-element vector of n elements of
// kind k.
func DecodeVector(k ring.Kind, n int, b []byte) ([]ring.Element, error) {
	width := k.Bytes()
	if len(b) != width*n {
		return nil, errs.Wrap(errs.ErrInvalidSize, fmt.Sprintf("expected %d bytes for %d elements of width %d, got %d", width*n, n, width, len(b)))
	}
	out := make([]ring.Element, n)
	for i := range out {
		e, err := ring.FromBytes(k, b[i*width:(i+1)*width])
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
