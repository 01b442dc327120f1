// Package share implements the replicated share containers: an
// additive share over (+, mod 2^k) and a binary share
// over (^, bitwise), both laid out identically as a pair of ring
// elements. Party i holds (a, b) where a is its own summand and b is
// the summand that must equal party i+1's own summand (the replicated
// invariant).
package share

import (
	"github.com/luxfi/aby3/internal/party"
	"github.com/luxfi/aby3/internal/ring"
)

// Additive is a replicated additive share: summed across all three
// parties' "a" summands (each party contributing the summand it holds
// at its own position) the result is the secret mod 2^k.
type Additive struct {
	A ring.Element
	B ring.Element
}

// NewAdditive builds a share from its two held summands.
func NewAdditive(a, b ring.Element) Additive {
	return Additive{A: a, B: b}
}

// Add is local: (a,b)+(c,d) = (a+c, b+d).
func (s Additive) Add(other Additive) Additive {
	return Additive{A: s.A.Add(other.A), B: s.B.Add(other.B)}
}

// Sub is local: (a,b)-(c,d) = (a-c, b-d).
func (s Additive) Sub(other Additive) Additive {
	return Additive{A: s.A.Sub(other.A), B: s.B.Sub(other.B)}
}

// Neg negates both summands.
func (s Additive) Neg() Additive {
	return Additive{A: s.A.Neg(), B: s.B.Neg()}
}

// MulPublic multiplies both summands by a public constant; local,
// error-free, and does not change the share's shape.
func (s Additive) MulPublic(c ring.Element) Additive {
	return Additive{A: s.A.MulPublic(c), B: s.B.MulPublic(c)}
}

// Shl shifts both summands left by n bits, local.
func (s Additive) Shl(n uint) Additive {
	return Additive{A: s.A.Shl(n), B: s.B.Shl(n)}
}

// AddPublic folds a public constant into the sharing without
// communication. The constant joins summand a_0 by convention, which
// party 0 holds in its first position and party 2 in its second; every
// party must call this with the same constant for the sharing to stay
// consistent.
func (s Additive) AddPublic(self party.ID, c ring.Element) Additive {
	switch self {
	case party.ID0:
		s.A = s.A.Add(c)
	case party.ID2:
		s.B = s.B.Add(c)
	}
	return s
}

// Binary is the XOR analogue of Additive: a_0 ^ a_1 ^ a_2 = secret.
type Binary struct {
	A ring.Element
	B ring.Element
}

// NewBinary builds a share from its two held summands.
func NewBinary(a, b ring.Element) Binary {
	return Binary{A: a, B: b}
}

// Xor is local: (a,b)^(c,d) = (a^c, b^d).
func (s Binary) Xor(other Binary) Binary {
	return Binary{A: s.A.Xor(other.A), B: s.B.Xor(other.B)}
}

// Shl shifts both summands left by n bits, local.
func (s Binary) Shl(n uint) Binary {
	return Binary{A: s.A.Shl(n), B: s.B.Shl(n)}
}

// Shr shifts both summands right by n bits, local. Unlike the
// additive container this is well-defined on a binary sharing because
// XOR acts independently per bit position.
func (s Binary) Shr(n uint) Binary {
	return Binary{A: s.A.Shr(n), B: s.B.Shr(n)}
}

// Kind returns the ring width both summands share.
func (s Binary) Kind() ring.Kind {
	return s.A.Kind
}

// Kind returns the ring width both summands share.
func (s Additive) Kind() ring.Kind {
	return s.A.Kind
}
