package binary

import "github.com/luxfi/aby3/internal/share"

// ceilLog2 returns ceil(log2(n)) for n >= 1.
func ceilLog2(n int) int {
	if n <= 1 {
		return 0
	}
	bits := 0
	for (1 << bits) < n {
		bits++
	}
	return bits
}

// BinaryAdd3 is a packed Kogge-Stone adder: given three binary
// shares of k-bit ring elements, it returns a binary
// share of their sum mod 2^k in exactly 2 + ceil(log2(k)) rounds, one
// AND-round per step.
func (p *Protocol) BinaryAdd3(x1, x2, x3 share.Binary) (share.Binary, error) {
	// Step 1: bitwise full adder.
	s := x1.Xor(x2).Xor(x3)
	x1x3 := x1.Xor(x3)
	x2x3 := x2.Xor(x3)
	and1, err := p.And(x1x3, x2x3)
	if err != nil {
		return share.Binary{}, err
	}
	c := and1.Xor(x3)

	// Step 2: propagate/generate setup for the remaining s + 2c sum.
	c = c.Shl(1)
	pBit := s.Xor(c)
	g, err := p.And(s, c)
	if err != nil {
		return share.Binary{}, err
	}
	// The prefix loop consumes pBit; the final sum needs the initial
	// propagate vector s ^ c, not the full-adder s alone.
	sum := pBit

	// Step 3: Kogge-Stone prefix loop.
	k := p.kind.Bits()
	levels := ceilLog2(k)
	for i := 0; i < levels; i++ {
		shift := uint(1) << uint(i)
		pPrime := pBit.Shl(shift)
		gPrime := g.Shl(shift)

		products, err := p.AndMany(
			[]share.Binary{pBit, pBit},
			[]share.Binary{gPrime, pPrime},
		)
		if err != nil {
			return share.Binary{}, err
		}
		g = g.Xor(products[0])
		pBit = products[1]
	}

	// Step 4: final carry-in.
	return sum.Xor(g.Shl(1)), nil
}
