package arithmetic_test

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/aby3/internal/errs"
	"github.com/luxfi/aby3/internal/party"
	"github.com/luxfi/aby3/internal/prf"
	"github.com/luxfi/aby3/internal/ring"
	"github.com/luxfi/aby3/internal/share"
	"github.com/luxfi/aby3/internal/test"
	"github.com/luxfi/aby3/internal/transport"
	"github.com/luxfi/aby3/protocols/arithmetic"
)

func TestAddOpenRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, k := range []ring.Kind{ring.K8, ring.K16, ring.K32, ring.K64} {
		const trials = 250
		xs := make([]ring.Element, trials)
		ys := make([]ring.Element, trials)
		dealtX := make([][3]share.Additive, trials)
		dealtY := make([][3]share.Additive, trials)
		for i := range xs {
			xs[i] = test.RandomElement(rng, k)
			ys[i] = test.RandomElement(rng, k)
			dealtX[i] = test.ShareAdditive(rng, xs[i])
			dealtY[i] = test.ShareAdditive(rng, ys[i])
		}

		results, err := test.RunParties(func(id party.ID, net *transport.Network) ([]ring.Element, error) {
			p, err := arithmetic.Preprocess(k, net)
			if err != nil {
				return nil, err
			}
			opened := make([]ring.Element, trials)
			for i := range opened {
				sum := p.Add(dealtX[i][id.Int()], dealtY[i][id.Int()])
				opened[i], err = p.Open(sum)
				if err != nil {
					return nil, err
				}
			}
			return opened, nil
		})
		require.NoError(t, err)
		for i := 0; i < trials; i++ {
			want := xs[i].Add(ys[i])
			for _, id := range test.PartyIDs() {
				require.True(t, results[id][i].Equal(want), "kind %v trial %d", k, i)
			}
		}
	}
}

func TestMulOpenRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for _, k := range []ring.Kind{ring.K8, ring.K16, ring.K32, ring.K64} {
		const trials = 250
		xs := make([]ring.Element, trials)
		ys := make([]ring.Element, trials)
		dealtX := make([][3]share.Additive, trials)
		dealtY := make([][3]share.Additive, trials)
		for i := range xs {
			xs[i] = test.RandomElement(rng, k)
			ys[i] = test.RandomElement(rng, k)
			dealtX[i] = test.ShareAdditive(rng, xs[i])
			dealtY[i] = test.ShareAdditive(rng, ys[i])
		}

		results, err := test.RunParties(func(id party.ID, net *transport.Network) ([]ring.Element, error) {
			p, err := arithmetic.Preprocess(k, net)
			if err != nil {
				return nil, err
			}
			opened := make([]ring.Element, trials)
			for i := range opened {
				prod, err := p.Mul(dealtX[i][id.Int()], dealtY[i][id.Int()])
				if err != nil {
					return nil, err
				}
				opened[i], err = p.Open(prod)
				if err != nil {
					return nil, err
				}
			}
			return opened, nil
		})
		require.NoError(t, err)
		for i := 0; i < trials; i++ {
			want := xs[i].Mul(ys[i])
			for _, id := range test.PartyIDs() {
				require.True(t, results[id][i].Equal(want), "kind %v trial %d", k, i)
			}
		}
	}
}

// countingChannel counts frames sent on the hot path so the scenario
// tests can pin down a gate's exact communication cost.
type countingChannel struct {
	inner arithmetic.Channel
	sends int
}

func (c *countingChannel) SendNext(b []byte) error {
	c.sends++
	return c.inner.SendNext(b)
}

func (c *countingChannel) ReceivePrev() ([]byte, error) {
	return c.inner.ReceivePrev()
}

// TestMulSevenTimesFive pins down the multiply scenario: 7 * 5 at
// k=16 opens to 35, and the re-randomisation step costs exactly one
// frame per party.
func TestMulSevenTimesFive(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	k := ring.K16
	xs := test.ShareAdditive(rng, ring.FromUint64(k, 7))
	ys := test.ShareAdditive(rng, ring.FromUint64(k, 5))

	type outcome struct {
		prod     share.Additive
		opened   ring.Element
		mulSends int
	}
	results, err := test.RunParties(func(id party.ID, net *transport.Network) (outcome, error) {
		pair, err := prf.Setup(net)
		if err != nil {
			return outcome{}, err
		}
		counted := &countingChannel{inner: net}
		p := arithmetic.New(k, counted, pair)

		prod, err := p.Mul(xs[id.Int()], ys[id.Int()])
		if err != nil {
			return outcome{}, err
		}
		mulSends := counted.sends

		opened, err := p.Open(prod)
		if err != nil {
			return outcome{}, err
		}
		return outcome{prod: prod, opened: opened, mulSends: mulSends}, nil
	})
	require.NoError(t, err)
	for _, id := range test.PartyIDs() {
		require.True(t, results[id].opened.Equal(ring.FromUint64(k, 35)))
		require.Equal(t, 1, results[id].mulSends, "mul must cost exactly one frame per party")
		// Replicated invariant: this party's second summand is the
		// next party's first.
		require.True(t, results[id].prod.B.Equal(results[id.Next()].prod.A))
	}
}

func TestDotMatchesSumOfProducts(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	k := ring.K32
	const n = 64

	xs := make([]ring.Element, n)
	ys := make([]ring.Element, n)
	dealtX := make([][3]share.Additive, n)
	dealtY := make([][3]share.Additive, n)
	want := ring.FromUint64(k, 0)
	for i := 0; i < n; i++ {
		xs[i] = test.RandomElement(rng, k)
		ys[i] = test.RandomElement(rng, k)
		dealtX[i] = test.ShareAdditive(rng, xs[i])
		dealtY[i] = test.ShareAdditive(rng, ys[i])
		want = want.Add(xs[i].Mul(ys[i]))
	}

	results, err := test.RunParties(func(id party.ID, net *transport.Network) (ring.Element, error) {
		p, err := arithmetic.Preprocess(k, net)
		if err != nil {
			return ring.Element{}, err
		}
		myX := make([]share.Additive, n)
		myY := make([]share.Additive, n)
		for i := 0; i < n; i++ {
			myX[i] = dealtX[i][id.Int()]
			myY[i] = dealtY[i][id.Int()]
		}
		dot, err := p.Dot(myX, myY)
		if err != nil {
			return ring.Element{}, err
		}
		return p.Open(dot)
	})
	require.NoError(t, err)
	for _, id := range test.PartyIDs() {
		require.True(t, results[id].Equal(want))
	}
}

func TestDotRejectsMismatchedLengths(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	k := ring.K16
	xs := test.ShareAdditive(rng, ring.FromUint64(k, 1))

	_, err := test.RunParties(func(id party.ID, net *transport.Network) (struct{}, error) {
		p, err := arithmetic.Preprocess(k, net)
		if err != nil {
			return struct{}{}, err
		}
		// Shape errors are rejected before any network I/O, so every
		// party fails locally and symmetrically.
		_, derr := p.Dot([]share.Additive{xs[id.Int()]}, nil)
		if !errors.Is(derr, errs.ErrInvalidSize) {
			return struct{}{}, fmt.Errorf("want ErrInvalidSize, got %v", derr)
		}
		return struct{}{}, nil
	})
	require.NoError(t, err)
}
