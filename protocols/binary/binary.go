// Package binary implements the binary-share MPC gates: local XOR,
// interactive AND shaped identically to arithmetic
// multiply, and the packed Kogge-Stone adder used by arithmetic-to-
// binary conversion.
package binary

import (
	"fmt"

	"github.com/luxfi/aby3/internal/errs"
	"github.com/luxfi/aby3/internal/prf"
	"github.com/luxfi/aby3/internal/ring"
	"github.com/luxfi/aby3/internal/share"
	"github.com/luxfi/aby3/internal/wire"
)

// Channel is the narrow transport surface a Protocol needs.
type Channel interface {
	SendNext([]byte) error
	ReceivePrev() ([]byte, error)
}

// Protocol runs the binary MPC gates for one party over one ring
// width, sharing its PRF pair with the arithmetic protocol that
// preprocessed it (both gates draw from the same paired keystreams).
type Protocol struct {
	kind ring.Kind
	ch   Channel
	prf  *prf.Pair
}

// New builds a Protocol from an already-established PRF pair, as
// produced once per party by prf.Setup and handed to both the
// arithmetic and binary protocol objects.
func New(k ring.Kind, ch Channel, pair *prf.Pair) *Protocol {
	return &Protocol{kind: k, ch: ch, prf: pair}
}

// Xor is local and error-free.
func (p *Protocol) Xor(x, y share.Binary) share.Binary {
	return x.Xor(y)
}

// XorMany applies Xor elementwise to two equal-length vectors.
func (p *Protocol) XorMany(xs, ys []share.Binary) ([]share.Binary, error) {
	return share.XorMany(xs, ys)
}

func localAnd(x, y share.Binary) ring.Element {
	t1 := x.A.And(y.A)
	t2 := x.A.And(y.B)
	t3 := x.B.And(y.A)
	return t1.Xor(t2).Xor(t3)
}

// And runs the one-round AND gate: identical shape to arithmetic Mul
// but with a binary zero-share and XOR re-randomisation.
func (p *Protocol) And(x, y share.Binary) (share.Binary, error) {
	local := localAnd(x, y)
	ra := p.prf.GenBinaryZeroShare(p.kind)
	masked := local.Xor(ra)

	if err := p.ch.SendNext(wire.EncodeScalar(masked)); err != nil {
		return share.Binary{}, errs.Wrap(errs.ErrIO, "send and share")
	}
	raw, err := p.ch.ReceivePrev()
	if err != nil {
		return share.Binary{}, errs.Wrap(errs.ErrIO, "receive and share")
	}
	received, err := wire.DecodeScalar(p.kind, raw)
	if err != nil {
		return share.Binary{}, err
	}
	// Received first, matching the share layout's (a_i, a_{i+1})
	// orientation; see the arithmetic multiply.
	return share.NewBinary(received, masked), nil
}

// AndMany packs parallel ANDs of two equal-length vectors into a
// single round.
func (p *Protocol) AndMany(xs, ys []share.Binary) ([]share.Binary, error) {
	if len(xs) != len(ys) {
		return nil, errs.Wrap(errs.ErrInvalidSize, fmt.Sprintf("and_many: mismatched vector lengths %d and %d", len(xs), len(ys)))
	}
	n := len(xs)
	masked := make([]ring.Element, n)
	for i := range xs {
		ra := p.prf.GenBinaryZeroShare(p.kind)
		masked[i] = localAnd(xs[i], ys[i]).Xor(ra)
	}
	if err := p.ch.SendNext(wire.EncodeVector(masked)); err != nil {
		return nil, errs.Wrap(errs.ErrIO, "send and_many batch")
	}
	raw, err := p.ch.ReceivePrev()
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, "receive and_many batch")
	}
	received, err := wire.DecodeVector(p.kind, n, raw)
	if err != nil {
		return nil, err
	}
	out := make([]share.Binary, n)
	for i := range out {
		out[i] = share.NewBinary(received[i], masked[i])
	}
	return out, nil
}

// Or computes x|y as xor(xor(x,y), and(x,y)): one AND gate per OR.
func (p *Protocol) Or(x, y share.Binary) (share.Binary, error) {
	a, err := p.And(x, y)
	if err != nil {
		return share.Binary{}, err
	}
	return x.Xor(y).Xor(a), nil
}

// OrMany applies Or elementwise using a single batched AND round.
func (p *Protocol) OrMany(xs, ys []share.Binary) ([]share.Binary, error) {
	ands, err := p.AndMany(xs, ys)
	if err != nil {
		return nil, err
	}
	xors, err := share.XorMany(xs, ys)
	if err != nil {
		return nil, err
	}
	return share.XorMany(xors, ands)
}
