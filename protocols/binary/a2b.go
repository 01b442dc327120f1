package binary

import (
	"github.com/luxfi/aby3/internal/errs"
	"github.com/luxfi/aby3/internal/party"
	"github.com/luxfi/aby3/internal/ring"
	"github.com/luxfi/aby3/internal/share"
	"github.com/luxfi/aby3/internal/wire"
)

// inject lifts one party's view of an additive share into the three
// binary shares the 3-to-1 adder consumes. The additive secret is
// a_0 + a_1 + a_2; summand a_j is reinterpreted as a binary sharing
// whose component at position j is a_j and zero elsewhere. Party i
// holds positions (i, i+1) of every sharing, and it knows exactly the
// two summands that land in those positions: its own (x.A = a_i) and
// its next neighbour's (x.B = a_{i+1}). The all-zero components are
// consistent across parties, so the replicated invariant holds without
// any communication; the adder's AND gates re-randomise from there.
func inject(self party.ID, x share.Additive) [3]share.Binary {
	zero := ring.Element{Kind: x.Kind()}
	var out [3]share.Binary
	for j := range out {
		out[j] = share.NewBinary(zero, zero)
	}
	i := self.Int()
	out[i] = share.NewBinary(x.A, zero)
	out[(i+1)%party.NumParties] = share.NewBinary(zero, x.B)
	return out
}

// ArithmeticToBinary converts an additive share of a k-bit value into
// a binary share of the same value, bitwise, in 2 + ceil(log2(k))
// rounds: each party locally injects its summands as binary shares and
// the three injected sharings are summed with the packed Kogge-Stone
// adder.
func (p *Protocol) ArithmeticToBinary(self party.ID, x share.Additive) (share.Binary, error) {
	xs := inject(self, x)
	return p.BinaryAdd3(xs[0], xs[1], xs[2])
}

// Open reconstructs the plaintext value of a binary share: each party
// sends its own summand to next, receives one from previous, and XORs
// all three.
func (p *Protocol) Open(x share.Binary) (ring.Element, error) {
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
	return x.A.Xor(x.B).Xor(third), nil
}
