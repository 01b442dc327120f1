// Package prf implements the paired correlated-randomness generator
// of the protocol: each party holds two independent ChaCha12
// streams, "mine" (shared with its next neighbour) and "theirs"
// (shared with its previous neighbour), letting any two adjacent
// parties derive a common random value that the third cannot see.
package prf

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/zeebo/blake3"

	"github.com/luxfi/aby3/internal/errs"
	"github.com/luxfi/aby3/internal/ring"
)

// SeedSize is the length in bytes of a PRF seed.
const SeedSize = seedSize

// Seed is a freshly sampled 32-byte key for one party's half of the
// paired PRF.
type Seed [SeedSize]byte

// Fingerprint returns a short blake3-derived hex tag for the seed.
// The tag is what gets logged during the preprocessing handshake: it
// lets an operator confirm two neighbouring parties agree on a shared
// seed without the seed bytes themselves ever reaching a log line.
func (s Seed) Fingerprint() string {
	sum := blake3.Sum256(s[:])
	return hex.EncodeToString(sum[:4])
}

// GenSeed draws a fresh random seed from the system CSPRNG. It is used
// once per party per protocol session, during the preprocessing
// handshake.
func GenSeed() (Seed, error) {
	var s Seed
	if _, err := rand.Read(s[:]); err != nil {
		return Seed{}, errs.Wrap(errs.ErrIO, "sample prf seed")
	}
	return s, nil
}

// Channel is the minimal duplex this package needs to run the seed
// exchange handshake. internal/transport.Channel satisfies it.
type Channel interface {
	SendNext([]byte) error
	ReceivePrev() ([]byte, error)
}

// Pair holds a party's two correlated keystreams.
type Pair struct {
	mine   *stream
	theirs *stream

	mineFP   string
	theirsFP string
}

// Fingerprints returns the log-safe tags of the two seeds backing
// this pair; the mine tag of party i must equal the theirs tag of
// party i+1.
func (p *Pair) Fingerprints() (mine, theirs string) {
	return p.mineFP, p.theirsFP
}

// NewPair constructs a Pair directly from two known seeds, bypassing
// the network handshake. Used by tests that want deterministic,
// pre-agreed randomness.
func NewPair(mine, theirs Seed) *Pair {
	return &Pair{
		mine:     newStream(mine),
		theirs:   newStream(theirs),
		mineFP:   mine.Fingerprint(),
		theirsFP: theirs.Fingerprint(),
	}
}

// Setup runs the seed-exchange handshake over ch: sample a fresh seed,
// send it to the next party, and receive one from the previous party.
// The caller now knows (mine = seed_self, theirs = seed_prev); by
// symmetry the next neighbour also learns mine and the previous
// neighbour also learns theirs, which is exactly the correlation the
// protocol's multiply and AND gates rely on.
func Setup(ch Channel) (*Pair, error) {
	mine, err := GenSeed()
	if err != nil {
		return nil, err
	}
	if err := ch.SendNext(mine[:]); err != nil {
		return nil, errs.Wrap(errs.ErrIO, "send prf seed to next party")
	}
	raw, err := ch.ReceivePrev()
	if err != nil {
		return nil, errs.Wrap(errs.ErrIO, "receive prf seed from previous party")
	}
	if len(raw) != SeedSize {
		return nil, errs.Wrap(errs.ErrConversion, "prf seed from previous party has wrong length")
	}
	var theirs Seed
	copy(theirs[:], raw)
	return NewPair(mine, theirs), nil
}

// GenRands draws one ring element of kind k from each stream. K128
// draws two limbs per stream, low then high.
func (p *Pair) GenRands(k ring.Kind) (mine, theirs ring.Element) {
	if k == ring.K128 {
		mine = ring.Element{Kind: ring.K128, Lo: p.mine.nextUint64(), Hi: p.mine.nextUint64()}
		theirs = ring.Element{Kind: ring.K128, Lo: p.theirs.nextUint64(), Hi: p.theirs.nextUint64()}
		return mine, theirs
	}
	mine = ring.FromUint64(k, p.mine.nextUint64())
	theirs = ring.FromUint64(k, p.theirs.nextUint64())
	return mine, theirs
}

// GenZeroShare draws an additive zero-share: summed across all three
// parties' Pairs (each wired to its neighbours) the result is 0 mod
// 2^k, because every sampled value is cancelled by the matching draw
// on the neighbouring party's Pair.
func (p *Pair) GenZeroShare(k ring.Kind) ring.Element {
	a, b := p.GenRands(k)
	return a.Sub(b)
}

// GenBinaryZeroShare is the XOR analogue of GenZeroShare, used by the
// binary MPC protocol's AND gate.
func (p *Pair) GenBinaryZeroShare(k ring.Kind) ring.Element {
	a, b := p.GenRands(k)
	return a.Xor(b)
}
