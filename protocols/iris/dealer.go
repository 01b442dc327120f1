package iris

import (
	"math/rand"

	"github.com/luxfi/aby3/internal/iriscode"
	"github.com/luxfi/aby3/internal/ring"
	"github.com/luxfi/aby3/internal/share"
)

// ShareBits deals a replicated additive sharing of every bit of a
// code: bit i becomes three summands over 2^k that sum to 0 or 1, with
// party j holding (a_j, a_{j+1}). This is the input phase of the demo
// driver and the tests; in a deployment the client that captured the
// iris plays the dealer and ships one share vector to each party.
func ShareBits(rng *rand.Rand, code iriscode.Bits, kind ring.Kind) [3][]share.Additive {
	var out [3][]share.Additive
	for j := range out {
		out[j] = share.ReserveAdditive(iriscode.CodeSize)
	}
	for i := 0; i < iriscode.CodeSize; i++ {
		bit := ring.FromBit(kind, code.Bit(i))
		a0 := randomElement(rng, kind)
		a1 := randomElement(rng, kind)
		a2 := bit.Sub(a0).Sub(a1)
		out[0] = append(out[0], share.NewAdditive(a0, a1))
		out[1] = append(out[1], share.NewAdditive(a1, a2))
		out[2] = append(out[2], share.NewAdditive(a2, a0))
	}
	return out
}

func randomElement(rng *rand.Rand, k ring.Kind) ring.Element {
	if k == ring.K128 {
		return ring.Element{Kind: ring.K128, Lo: rng.Uint64(), Hi: rng.Uint64()}
	}
	return ring.FromUint64(k, rng.Uint64())
}
