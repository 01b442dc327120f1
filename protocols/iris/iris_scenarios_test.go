package iris_test

import (
	"errors"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"

	"github.com/luxfi/aby3/internal/errs"
	"github.com/luxfi/aby3/internal/iriscode"
	"github.com/luxfi/aby3/internal/party"
	"github.com/luxfi/aby3/internal/ring"
	"github.com/luxfi/aby3/internal/test"
	"github.com/luxfi/aby3/internal/transport"
	"github.com/luxfi/aby3/protocols/arithmetic"
	"github.com/luxfi/aby3/protocols/binary"
	"github.com/luxfi/aby3/protocols/iris"
)

const circuitKind = ring.K32

// matchPair drives the full three-party circuit over one pair of
// plaintext records, dealing fresh shares and returning the opened
// result every party agreed on.
func matchPair(rng *rand.Rand, a, b iriscode.IrisCode) (bool, error) {
	sharesA := iris.ShareBits(rng, a.Code, circuitKind)
	sharesB := iris.ShareBits(rng, b.Code, circuitKind)

	results, err := test.RunParties(func(id party.ID, net *transport.Network) (bool, error) {
		arith, err := arithmetic.Preprocess(circuitKind, net)
		if err != nil {
			return false, err
		}
		bin := binary.New(circuitKind, net, arith.PRF())
		circuit, err := iris.New(id, circuitKind, arith, bin, zerolog.Nop())
		if err != nil {
			return false, err
		}
		return circuit.MatchPair(sharesA[id.Int()], sharesB[id.Int()], a.Mask, b.Mask)
	})
	if err != nil {
		return false, err
	}

	first := results[party.ID0]
	for _, id := range test.PartyIDs() {
		if results[id] != first {
			return false, errors.New("parties disagree on the opened match bit")
		}
	}
	return first, nil
}

var _ = Describe("Iris Match Circuit", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(GinkgoRandomSeed()))
	})

	Describe("construction", func() {
		It("rejects rings too narrow for the code size", func() {
			_, err := iris.New(party.ID0, ring.K8, nil, nil, zerolog.Nop())
			Expect(errors.Is(err, errs.ErrConfig)).To(BeTrue())
		})

		It("accepts a ring with headroom over the code size", func() {
			_, err := iris.New(party.ID0, circuitKind, nil, nil, zerolog.Nop())
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("mask combining", func() {
		It("refuses pairs whose combined mask weight is below the threshold", func() {
			circuit, err := iris.New(party.ID0, circuitKind, nil, nil, zerolog.Nop())
			Expect(err).NotTo(HaveOccurred())

			// Disjoint masks: the intersection is empty.
			maskA := iriscode.NewBits()
			maskB := iriscode.NewBits()
			for i := 0; i < iriscode.CodeSize/2; i++ {
				maskA.SetBit(i, true)
				maskB.SetBit(iriscode.CodeSize/2+i, true)
			}
			_, err = circuit.CombineMasks(maskA, maskB)
			Expect(errors.Is(err, errs.ErrMaskHW)).To(BeTrue())
		})

		It("intersects overlapping masks", func() {
			circuit, err := iris.New(party.ID0, circuitKind, nil, nil, zerolog.Nop())
			Expect(err).NotTo(HaveOccurred())

			full := iriscode.NewBits()
			for i := 0; i < iriscode.CodeSize; i++ {
				full.SetBit(i, true)
			}
			m, err := circuit.CombineMasks(full, full)
			Expect(err).NotTo(HaveOccurred())
			Expect(m.PopCount()).To(Equal(iriscode.CodeSize))
		})
	})

	Describe("matching", func() {
		It("declares a second capture of the same iris a match", func() {
			trials := 100
			matches := 0
			for i := 0; i < trials; i++ {
				a := iriscode.Random(rng)
				b := iriscode.Similar(rng, a, 0.05)
				got, err := matchPair(rng, a, b)
				Expect(err).NotTo(HaveOccurred())
				if got {
					matches++
				}
			}
			Expect(matches).To(BeNumerically(">=", trials*99/100))
		})

		It("declares two independent irises a non-match", func() {
			trials := 100
			matches := 0
			for i := 0; i < trials; i++ {
				a := iriscode.Random(rng)
				b := iriscode.Random(rng)
				got, err := matchPair(rng, a, b)
				Expect(err).NotTo(HaveOccurred())
				if got {
					matches++
				}
			}
			Expect(matches).To(BeNumerically("<=", trials/100))
		})

		It("agrees with the plaintext reference on every pair", func() {
			for i := 0; i < 10; i++ {
				a := iriscode.Random(rng)
				var b iriscode.IrisCode
				if i%2 == 0 {
					b = iriscode.Similar(rng, a, 0.05)
				} else {
					b = iriscode.Random(rng)
				}

				want, err := iriscode.IsClose(a, b)
				Expect(err).NotTo(HaveOccurred())
				got, err := matchPair(rng, a, b)
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(want))
			}
		})

		It("agrees with the plaintext reference near the threshold boundary", func() {
			// Flip rates straddling the 0.375 threshold exercise the
			// sign-bit comparison where a bias would actually show.
			for _, flipRate := range []float64{0.30, 0.36, 0.40, 0.45} {
				a := iriscode.Random(rng)
				b := iriscode.IrisCode{Code: a.Code.Clone(), Mask: a.Mask.Clone()}
				for i := 0; i < iriscode.CodeSize; i++ {
					if rng.Float64() < flipRate {
						b.Code.FlipBit(i)
					}
				}

				want, err := iriscode.IsClose(a, b)
				Expect(err).NotTo(HaveOccurred())
				got, err := matchPair(rng, a, b)
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(want), "flip rate %f", flipRate)
			}
		})
	})
})
