// Package arithmetic implements the additive-share MPC gates:
// one-round multiply and batched inner product, built on
// top of the paired-PRF zero-shares and the single next/previous
// channel every interactive gate uses.
package arithmetic

import (
	"fmt"

	"github.com/luxfi/aby3/internal/errs"
	"github.com/luxfi/aby3/internal/prf"
	"github.com/luxfi/aby3/internal/ring"
	"github.com/luxfi/aby3/internal/share"
	"github.com/luxfi/aby3/internal/wire"
)

// Channel is the narrow transport surface a Protocol needs: the
// send/receive pair any interactive gate drives.
type Channel interface {
	SendNext([]byte) error
	ReceivePrev() ([]byte, error)
}

// Protocol runs the arithmetic MPC gates for one party over one ring
// width. Construct with Preprocess, which performs the PRF seed
// exchange before any gate can run.
type Protocol struct {
	kind ring.Kind
	ch   Channel
	prf  *prf.Pair
}

// Preprocess performs the PRF seed exchange over ch and returns a
// ready-to-use Protocol for ring width k.
func Preprocess(k ring.Kind, ch Channel) (*Protocol, error) {
	pair, err := prf.Setup(ch)
	if err != nil {
		return nil, err
	}
	return New(k, ch, pair), nil
}

// New builds a Protocol from an already-established PRF pair, for
// callers that ran the seed exchange themselves.
func New(k ring.Kind, ch Channel, pair *prf.Pair) *Protocol {
	return &Protocol{kind: k, ch: ch, prf: pair}
}

// PRF exposes the paired keystreams established during preprocessing
// so the binary protocol can share them: both gate families draw from
// the same per-party correlated randomness.
func (p *Protocol) PRF() *prf.Pair {
	return p.prf
}

// Add is local and error-free.
func (p *Protocol) Add(x, y share.Additive) share.Additive {
	return x.Add(y)
}

// Sub is local and error-free.
func (p *Protocol) Sub(x, y share.Additive) share.Additive {
	return x.Sub(y)
}

// Mul runs the one-round multiplication gate: compute the local
// cross-product sum, mask it with a fresh zero-share, and exchange one
// ring element with the neighbours to produce a replicated result.
func (p *Protocol) Mul(x, y share.Additive) (share.Additive, error) {
	local := localProduct(x, y)
	ra := p.prf.GenZeroShare(p.kind)
	masked := local.Add(ra)

	if err := p.ch.SendNext(wire.EncodeScalar(masked)); err != nil {
		return share.Additive{}, errs.Wrap(errs.ErrIO, "send mul share")
	}
	raw, err := p.ch.ReceivePrev()
	if err != nil {
		return share.Additive{}, errs.Wrap(errs.ErrIO, "receive mul share")
	}
	received, err := wire.DecodeScalar(p.kind, raw)
	if err != nil {
		return share.Additive{}, err
	}
	// The received summand takes the first slot: with party i holding
	// (a_i, a_{i+1}), the value from the previous party is this
	// party's own summand under the re-indexed decomposition and the
	// locally masked one belongs to the next position.
	return share.NewAdditive(received, masked), nil
}

// localProduct computes x.a*y.a + x.a*y.b + x.b*y.a, the single
// party's contribution to the product's replicated sum.
func localProduct(x, y share.Additive) ring.Element {
	t1 := x.A.Mul(y.A)
	t2 := x.A.Mul(y.B)
	t3 := x.B.Mul(y.A)
	return t1.Add(t2).Add(t3)
}

// Dot batches an inner product of equal-length vectors into a single
// round: every pairwise product is summed locally before the one
// zero-share re-randomisation and one round-trip exchange.
func (p *Protocol) Dot(xs, ys []share.Additive) (share.Additive, error) {
	if len(xs) != len(ys) {
		return share.Additive{}, errs.Wrap(errs.ErrInvalidSize, fmt.Sprintf("dot: mismatched vector lengths %d and %d", len(xs), len(ys)))
	}
	sum := ring.FromUint64(p.kind, 0)
	for i := range xs {
		sum = sum.Add(localProduct(xs[i], ys[i]))
	}
	ra := p.prf.GenZeroShare(p.kind)
	masked := sum.Add(ra)

	if err := p.ch.SendNext(wire.EncodeScalar(masked)); err != nil {
		return share.Additive{}, errs.Wrap(errs.ErrIO, "send dot share")
	}
	raw, err := p.ch.ReceivePrev()
	if err != nil {
		return share.Additive{}, errs.Wrap(errs.ErrIO, "receive dot share")
	}
	received, err := wire.DecodeScalar(p.kind, raw)
	if err != nil {
		return share.Additive{}, err
	}
	return share.NewAdditive(received, masked), nil
}

// Open reconstructs the plaintext ring value of x: each party sends
// its own summand to next and receives one from previous, then sums
// all three summands.
func (p *Protocol) Open(x share.Additive) (ring.Element, error) {
	if err := p.ch.SendNext(wire.EncodeScalar(x.A)); err != nil {
		return ring.Element{}, errs.Wrap(errs.ErrIO, "send open share")
	}
	raw, err := p.ch.ReceivePrev()
	if err != nil {
		return ring.Element{}, errs.Wrap(errs.ErrIO, "receive open share")
	}
	third, err := wire.DecodeScalar(p.kind, raw)
	if err != nil {
		return ring.Element{}, err
	}
	return x.A.Add(x.B).Add(third), nil
}
