// Package commitment implements a SHA-512 hash-based commitment: a
// party binds to a vector of ring values before a
// later round reveals them. It is exported for malicious-security
// extensions; the plain iris match circuit never opens a commitment on
// its hot path.
package commitment

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"

	"github.com/luxfi/aby3/internal/errs"
	"github.com/luxfi/aby3/internal/ring"
)

// RandSize is the length in bytes of the commitment's blinding
// randomness.
const RandSize = 32

// Commitment is a party's binding to a vector of ring values: the
// SHA-512 digest of their serialized bytes concatenated with 32 bytes
// of randomness.
type Commitment struct {
	Values []ring.Element
	Rand   [RandSize]byte
	Digest []byte
}

// Opening reveals the committed values and randomness so a recipient
// can recompute and check the digest.
type Opening struct {
	Values []ring.Element
	Rand   [RandSize]byte
}

// DigestSize returns SHA-512's output size, exported so callers can
// size buffers without importing crypto/sha512 themselves.
func DigestSize() int {
	return sha512.Size
}

func valuesToBytes(values []ring.Element) []byte {
	var buf []byte
	for _, v := range values {
		buf = append(buf, v.ToBytes()...)
	}
	return buf
}

func digest(values []ring.Element, r [RandSize]byte) []byte {
	h := sha512.New()
	h.Write(valuesToBytes(values))
	h.Write(r[:])
	return h.Sum(nil)
}

// Commit draws fresh randomness and commits to values.
func Commit(values []ring.Element) (Commitment, error) {
	var r [RandSize]byte
	if _, err := rand.Read(r[:]); err != nil {
		return Commitment{}, errs.Wrap(errs.ErrIO, "sample commitment randomness")
	}
	return CommitWithRand(values, r), nil
}

// CommitWithRand commits to values using caller-supplied randomness;
// used by tests that need a reproducible commitment.
func CommitWithRand(values []ring.Element, r [RandSize]byte) Commitment {
	return Commitment{Values: values, Rand: r, Digest: digest(values, r)}
}

// Open discards the digest, keeping only what must be sent to the
// verifier.
func (c Commitment) Open() Opening {
	return Opening{Values: c.Values, Rand: c.Rand}
}

// Verify reports whether recomputing the digest from o matches the
// previously published digest. The comparison is constant-time since
// the digest may later gate a secret-dependent decision.
func (o Opening) Verify(publishedDigest []byte) bool {
	recomputed := digest(o.Values, o.Rand)
	return subtle.ConstantTimeCompare(recomputed, publishedDigest) == 1
}
