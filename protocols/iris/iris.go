// Package iris implements the secure match circuit: given additive
// shares of two iris codes and their public masks, the three parties
// jointly decide whether the pair matches without any party seeing the
// codes, the distance, or the mask-weight comparison — only the final
// one-bit result is opened.
package iris

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/luxfi/aby3/internal/errs"
	"github.com/luxfi/aby3/internal/iriscode"
	"github.com/luxfi/aby3/internal/party"
	"github.com/luxfi/aby3/internal/ring"
	"github.com/luxfi/aby3/internal/share"
	"github.com/luxfi/aby3/protocols/arithmetic"
	"github.com/luxfi/aby3/protocols/binary"
)

// Protocol drives the match circuit for one party. The arithmetic and
// binary protocols must share one PRF pair, established once by
// arithmetic.Preprocess.
type Protocol struct {
	self  party.ID
	kind  ring.Kind
	arith *arithmetic.Protocol
	bin   *binary.Protocol
	log   zerolog.Logger
}

func ceilLog2(n int) int {
	bits := 0
	for (1 << bits) < n {
		bits++
	}
	return bits
}

// New validates the circuit parameters and returns a ready Protocol.
// The ring must be wide enough that the threshold difference
// d*MatchDenom - t*MatchNum cannot overflow the signed interpretation
// its sign-bit test relies on.
func New(self party.ID, kind ring.Kind, arith *arithmetic.Protocol, bin *binary.Protocol, log zerolog.Logger) (*Protocol, error) {
	if iriscode.MatchNum <= 0 || iriscode.MatchNum >= iriscode.MatchDenom {
		return nil, errs.Wrap(errs.ErrConfig, "match threshold ratio must be strictly between 0 and 1")
	}
	if kind.Bits() <= ceilLog2(iriscode.CodeSize)+1 {
		return nil, errs.Wrap(errs.ErrConfig, fmt.Sprintf("ring width %d too small for %d-bit codes", kind.Bits(), iriscode.CodeSize))
	}
	return &Protocol{self: self, kind: kind, arith: arith, bin: bin, log: log}, nil
}

// CombineMasks intersects the two public masks and refuses pairs
// whose common weight falls below the mask threshold. The refusal
// happens before any interactive step, so it never requires channel
// teardown.
func (p *Protocol) CombineMasks(maskA, maskB iriscode.Bits) (iriscode.Bits, error) {
	if len(maskA) != iriscode.CodeBytes || len(maskB) != iriscode.CodeBytes {
		return nil, errs.Wrap(errs.ErrInvalidCodeSize, "mask length mismatch")
	}
	m := maskA.And(maskB)
	if hw := m.PopCount(); hw < iriscode.MaskThreshold {
		return nil, errs.Wrap(errs.ErrMaskHW, fmt.Sprintf("combined mask weight %d below threshold %d", hw, iriscode.MaskThreshold))
	}
	return m, nil
}

// ApplyMask zeroes the code shares outside the combined mask. The
// mask is public, so each bit is a local public-scalar multiply.
func (p *Protocol) ApplyMask(code []share.Additive, mask iriscode.Bits) ([]share.Additive, error) {
	if len(code) != iriscode.CodeSize {
		return nil, errs.Wrap(errs.ErrInvalidCodeSize, fmt.Sprintf("code has %d shares, want %d", len(code), iriscode.CodeSize))
	}
	masked := share.ReserveAdditive(iriscode.CodeSize)
	for i, c := range code {
		masked = append(masked, c.MulPublic(ring.FromBit(p.kind, mask.Bit(i))))
	}
	return masked, nil
}

// HammingDistance computes a share of popcount(a ^ b) over masked
// bit shares, using a + b - 2ab per bit: one batched dot product, one
// round.
func (p *Protocol) HammingDistance(a, b []share.Additive) (share.Additive, error) {
	if len(a) == 0 || len(a) != len(b) {
		return share.Additive{}, errs.Wrap(errs.ErrInvalidCodeSize, "mismatched code share vectors")
	}
	sumA := a[0]
	for _, s := range a[1:] {
		sumA = p.arith.Add(sumA, s)
	}
	sumB := b[0]
	for _, s := range b[1:] {
		sumB = p.arith.Add(sumB, s)
	}
	dot, err := p.arith.Dot(a, b)
	if err != nil {
		return share.Additive{}, err
	}
	twoDot := p.arith.Add(dot, dot)
	return p.arith.Sub(p.arith.Add(sumA, sumB), twoDot), nil
}

// CompareThreshold tests d * MatchDenom < t * MatchNum for a shared
// distance d and public mask weight t by forming the ring element
// z = d*MatchDenom - t*MatchNum and extracting its sign bit through
// arithmetic-to-binary conversion. The returned bit is still shared.
func (p *Protocol) CompareThreshold(d share.Additive, t int) (share.Binary, error) {
	z := d.MulPublic(ring.FromUint64(p.kind, iriscode.MatchDenom))
	offset := ring.FromUint64(p.kind, uint64(t)*iriscode.MatchNum).Neg()
	z = z.AddPublic(p.self, offset)

	zb, err := p.bin.ArithmeticToBinary(p.self, z)
	if err != nil {
		return share.Binary{}, err
	}
	// Keep only the sign bit; the lower bits of z stay hidden even
	// from the party that later opens the result.
	signBit := uint(p.kind.Bits() - 1)
	return zb.Shr(signBit), nil
}

// MatchPair runs the full circuit over one pair of shared codes and
// their public masks, opening only the final one-bit result.
func (p *Protocol) MatchPair(codeA, codeB []share.Additive, maskA, maskB iriscode.Bits) (bool, error) {
	start := time.Now()

	m, err := p.CombineMasks(maskA, maskB)
	if err != nil {
		return false, err
	}
	t := m.PopCount()

	a, err := p.ApplyMask(codeA, m)
	if err != nil {
		return false, err
	}
	b, err := p.ApplyMask(codeB, m)
	if err != nil {
		return false, err
	}

	d, err := p.HammingDistance(a, b)
	if err != nil {
		return false, err
	}

	bit, err := p.CompareThreshold(d, t)
	if err != nil {
		return false, err
	}
	opened, err := p.bin.Open(bit)
	if err != nil {
		return false, err
	}
	match := opened.Bit(0) == 1

	p.log.Info().
		Bool("match", match).
		Int("mask_weight", t).
		Dur("elapsed", time.Since(start)).
		Msg("iris pair compared")
	return match, nil
}
