// Package test provides the in-process harness the protocol tests
// drive three parties with: a wired local triangle, secret-sharing
// dealers, and reconstruction helpers. Production code never imports
// this package.
package test

import (
	"fmt"
	"math/rand"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/luxfi/aby3/internal/party"
	"github.com/luxfi/aby3/internal/ring"
	"github.com/luxfi/aby3/internal/share"
	"github.com/luxfi/aby3/internal/transport"
)

// PartyIDs returns the three protocol parties in canonical order.
func PartyIDs() [3]party.ID {
	return [3]party.ID{party.ID0, party.ID1, party.ID2}
}

// RandomElement draws a uniform ring element of the given kind from
// rng.
func RandomElement(rng *rand.Rand, k ring.Kind) ring.Element {
	if k == ring.K128 {
		return ring.Element{Kind: ring.K128, Lo: rng.Uint64(), Hi: rng.Uint64()}
	}
	return ring.FromUint64(k, rng.Uint64())
}

// ShareAdditive deals a replicated additive sharing of x: three
// uniform summands constrained to sum to x mod 2^k, returned indexed
// by party, with party i holding (a_i, a_{i+1}).
func ShareAdditive(rng *rand.Rand, x ring.Element) [3]share.Additive {
	a0 := RandomElement(rng, x.Kind)
	a1 := RandomElement(rng, x.Kind)
	a2 := x.Sub(a0).Sub(a1)
	return [3]share.Additive{
		share.NewAdditive(a0, a1),
		share.NewAdditive(a1, a2),
		share.NewAdditive(a2, a0),
	}
}

// ShareBinary deals a replicated binary sharing of x: three uniform
// summands constrained to XOR to x.
func ShareBinary(rng *rand.Rand, x ring.Element) [3]share.Binary {
	a0 := RandomElement(rng, x.Kind)
	a1 := RandomElement(rng, x.Kind)
	a2 := x.Xor(a0).Xor(a1)
	return [3]share.Binary{
		share.NewBinary(a0, a1),
		share.NewBinary(a1, a2),
		share.NewBinary(a2, a0),
	}
}

// CombineAdditive reconstructs the secret from all three parties'
// shares by summing each party's own summand.
func CombineAdditive(shares [3]share.Additive) ring.Element {
	return shares[0].A.Add(shares[1].A).Add(shares[2].A)
}

// CombineBinary reconstructs the secret from all three parties'
// binary shares.
func CombineBinary(shares [3]share.Binary) ring.Element {
	return shares[0].A.Xor(shares[1].A).Xor(shares[2].A)
}

// RunParties executes fn once per party, each on its own goroutine
// over a freshly wired local triangle, and returns the per-party
// results. The first error wins; the remaining parties are still
// joined so no goroutine leaks into the next test.
func RunParties[T any](fn func(id party.ID, net *transport.Network) (T, error)) (map[party.ID]T, error) {
	nets := transport.LocalTriangle()

	var (
		mu      sync.Mutex
		results = make(map[party.ID]T, party.NumParties)
	)
	var g errgroup.Group
	for _, id := range PartyIDs() {
		id := id
		g.Go(func() error {
			res, err := fn(id, nets[id])
			if err != nil {
				return fmt.Errorf("party %s: %w", id, err)
			}
			mu.Lock()
			results[id] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
