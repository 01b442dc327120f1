// Package iriscode implements the plaintext iris record and the
// reference match predicate the MPC circuit is checked against: two
// equal-length bit-vectors (code and valid-bit mask) match when their
// Hamming distance over the combined mask stays below a fixed ratio of
// the common mask weight.
package iriscode

import (
	"fmt"
	"math/bits"
	"math/rand"

	"github.com/luxfi/aby3/internal/errs"
)

const (
	// CodeSize is the number of bits in an iris code and its mask.
	CodeSize = 12800

	// CodeBytes is the packed on-disk width of one bit-vector.
	CodeBytes = CodeSize / 8

	// MaskThreshold is the minimum combined mask weight below which a
	// comparison is refused rather than evaluated. Skipping the check
	// would leak information about low-weight masks, so it stays even
	// for the plaintext reference.
	MaskThreshold = 6400

	// MatchNum / MatchDenom is the match threshold ratio: a pair
	// matches when distance/maskweight < 3/8 = 0.375.
	MatchNum   = 3
	MatchDenom = 8
)

// Bits is a packed bit-vector of CodeSize bits, LSB-first within each
// byte, matching the raw BLOB layout of the sample database.
type Bits []byte

// NewBits returns an all-zero bit-vector of CodeSize bits.
func NewBits() Bits {
	return make(Bits, CodeBytes)
}

// BitsFromBytes validates the packed width and adopts b as a
// bit-vector.
func BitsFromBytes(b []byte) (Bits, error) {
	if len(b) != CodeBytes {
		return nil, errs.Wrap(errs.ErrInvalidCodeSize, fmt.Sprintf("bit-vector is %d bytes, want %d", len(b), CodeBytes))
	}
	return Bits(b), nil
}

// Bit returns bit i, LSB-first.
func (v Bits) Bit(i int) bool {
	return v[i/8]&(1<<(i%8)) != 0
}

// SetBit sets bit i to val.
func (v Bits) SetBit(i int, val bool) {
	if val {
		v[i/8] |= 1 << (i % 8)
	} else {
		v[i/8] &^= 1 << (i % 8)
	}
}

// FlipBit inverts bit i.
func (v Bits) FlipBit(i int) {
	v[i/8] ^= 1 << (i % 8)
}

// PopCount returns the number of set bits.
func (v Bits) PopCount() int {
	n := 0
	for _, b := range v {
		n += bits.OnesCount8(b)
	}
	return n
}

// And returns the bitwise intersection of two vectors.
func (v Bits) And(other Bits) Bits {
	out := NewBits()
	for i := range out {
		out[i] = v[i] & other[i]
	}
	return out
}

// Xor returns the bitwise difference of two vectors.
func (v Bits) Xor(other Bits) Bits {
	out := NewBits()
	for i := range out {
		out[i] = v[i] ^ other[i]
	}
	return out
}

// Clone returns an independent copy.
func (v Bits) Clone() Bits {
	out := NewBits()
	copy(out, v)
	return out
}

// IrisCode is one plaintext iris record: the hashed iris pattern and
// its valid-bit mask.
type IrisCode struct {
	Code Bits
	Mask Bits
}

// New returns an all-zero record (code zero, mask zero).
func New() IrisCode {
	return IrisCode{Code: NewBits(), Mask: NewBits()}
}

// maskDropRate is the fraction of mask bits cleared when sampling a
// random record; real masks are mostly valid with occlusions (eyelid,
// reflections) knocking out a minority of positions.
const maskDropRate = 0.10

// Random samples a record from rng: uniform code bits, mask mostly
// ones with maskDropRate of positions cleared.
func Random(rng *rand.Rand) IrisCode {
	c := IrisCode{Code: NewBits(), Mask: NewBits()}
	rng.Read(c.Code)
	for i := range c.Mask {
		c.Mask[i] = 0xFF
	}
	for i := 0; i < CodeSize; i++ {
		if rng.Float64() < maskDropRate {
			c.Mask.SetBit(i, false)
		}
	}
	return c
}

// Similar returns a copy of c with flipRate of its code and mask bits
// flipped independently, modelling a second capture of the same iris.
func Similar(rng *rand.Rand, c IrisCode, flipRate float64) IrisCode {
	out := IrisCode{Code: c.Code.Clone(), Mask: c.Mask.Clone()}
	for i := 0; i < CodeSize; i++ {
		if rng.Float64() < flipRate {
			out.Code.FlipBit(i)
		}
		if rng.Float64() < flipRate {
			out.Mask.FlipBit(i)
		}
	}
	return out
}

// Distance computes the masked Hamming distance d and the combined
// mask weight t for a pair of records. It refuses pairs whose common
// mask weight falls below MaskThreshold.
func Distance(a, b IrisCode) (d, t int, err error) {
	m := a.Mask.And(b.Mask)
	t = m.PopCount()
	if t < MaskThreshold {
		return 0, 0, errs.Wrap(errs.ErrMaskHW, fmt.Sprintf("combined mask weight %d below threshold %d", t, MaskThreshold))
	}
	d = a.Code.Xor(b.Code).And(m).PopCount()
	return d, t, nil
}

// IsClose is the plaintext reference predicate: true iff the masked
// distance is below MatchNum/MatchDenom of the combined mask weight.
func IsClose(a, b IrisCode) (bool, error) {
	d, t, err := Distance(a, b)
	if err != nil {
		return false, err
	}
	return d*MatchDenom < t*MatchNum, nil
}
