package ring_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/aby3/internal/ring"
)

var allKinds = []ring.Kind{ring.K1, ring.K8, ring.K16, ring.K32, ring.K64, ring.K128}

func TestBytesRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, k := range allKinds {
		for i := 0; i < 100; i++ {
			e := ring.FromUint64(k, rnd.Uint64())
			b := e.ToBytes()
			require.Len(t, b, k.Bytes())
			got, err := ring.FromBytes(k, b)
			require.NoError(t, err)
			require.True(t, e.Equal(got))
		}
	}
}

func TestFromBytesWrongLength(t *testing.T) {
	_, err := ring.FromBytes(ring.K32, []byte{1, 2, 3})
	require.Error(t, err)
}

func TestWrappingAddSub(t *testing.T) {
	for _, k := range allKinds {
		if k == ring.K1 {
			continue
		}
		mask := uint64(1)<<uint(k.Bits()) - 1
		if k.Bits() >= 64 {
			mask = ^uint64(0)
		}
		allOnes := ring.FromUint64(k, mask)
		if k == ring.K128 {
			allOnes.Hi = ^uint64(0)
		}
		one := ring.FromUint64(k, 1)
		sum := allOnes.Add(one)
		require.True(t, sum.Equal(ring.FromUint64(k, 0)), "wraparound add for kind %d", k)

		diff := ring.FromUint64(k, 0).Sub(one)
		require.True(t, diff.Equal(allOnes), "wraparound sub for kind %d", k)
	}
}

func TestMul128Wraps(t *testing.T) {
	big := ring.FromUint64(ring.K128, 0)
	big.Hi = 1 // 2^64
	sq := big.Mul(big)
	// (2^64)^2 = 2^128 == 0 mod 2^128
	require.True(t, sq.IsZero())
}

func TestShiftRoundTrip128(t *testing.T) {
	e := ring.Element{Kind: ring.K128, Lo: 0x1, Hi: 0}
	shifted := e.Shl(64)
	require.Equal(t, uint64(0), shifted.Lo)
	require.Equal(t, uint64(1), shifted.Hi)
	back := shifted.Shr(64)
	require.True(t, back.Equal(e))
}

func TestXorAndOrNot(t *testing.T) {
	k := ring.K8
	a := ring.FromUint64(k, 0b10101010)
	b := ring.FromUint64(k, 0b01010101)
	require.True(t, a.Xor(b).Equal(ring.FromUint64(k, 0xFF)))
	require.True(t, a.And(b).Equal(ring.FromUint64(k, 0)))
	require.True(t, a.Or(b).Equal(ring.FromUint64(k, 0xFF)))
	require.True(t, a.Not().Equal(b))
}

func TestBitLSBFirst(t *testing.T) {
	e := ring.FromUint64(ring.K16, 0b10)
	require.Equal(t, uint64(0), e.Bit(0))
	require.Equal(t, uint64(1), e.Bit(1))
}

func TestNegativeSignBit(t *testing.T) {
	k := ring.K8
	require.False(t, ring.FromUint64(k, 0x7F).Negative())
	require.True(t, ring.FromUint64(k, 0x80).Negative())
}

func TestFromBit(t *testing.T) {
	require.True(t, ring.FromBit(ring.K1, true).Equal(ring.FromUint64(ring.K1, 1)))
	require.True(t, ring.FromBit(ring.K1, false).Equal(ring.FromUint64(ring.K1, 0)))
}
