package iriscode_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/aby3/internal/errs"
	"github.com/luxfi/aby3/internal/iriscode"
)

func TestBitsRoundTrip(t *testing.T) {
	v := iriscode.NewBits()
	v.SetBit(0, true)
	v.SetBit(7, true)
	v.SetBit(8, true)
	v.SetBit(iriscode.CodeSize-1, true)

	require.True(t, v.Bit(0))
	require.True(t, v.Bit(7))
	require.True(t, v.Bit(8))
	require.True(t, v.Bit(iriscode.CodeSize-1))
	require.False(t, v.Bit(1))
	require.Equal(t, 4, v.PopCount())

	v.FlipBit(0)
	require.False(t, v.Bit(0))
	require.Equal(t, 3, v.PopCount())
}

func TestBitsFromBytesRejectsWrongLength(t *testing.T) {
	_, err := iriscode.BitsFromBytes(make([]byte, iriscode.CodeBytes-1))
	require.True(t, errors.Is(err, errs.ErrInvalidCodeSize))

	v, err := iriscode.BitsFromBytes(make([]byte, iriscode.CodeBytes))
	require.NoError(t, err)
	require.Equal(t, 0, v.PopCount())
}

func TestRandomRecordHasUsableMask(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		c := iriscode.Random(rng)
		require.GreaterOrEqual(t, c.Mask.PopCount(), iriscode.MaskThreshold,
			"a freshly sampled mask must clear the weight threshold")
	}
}

func TestSimilarIrisIsClose(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 50; i++ {
		a := iriscode.Random(rng)
		b := iriscode.Similar(rng, a, 0.05)
		got, err := iriscode.IsClose(a, b)
		require.NoError(t, err)
		require.True(t, got, "trial %d", i)
	}
}

func TestIndependentIrisesAreNotClose(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		a := iriscode.Random(rng)
		b := iriscode.Random(rng)
		got, err := iriscode.IsClose(a, b)
		require.NoError(t, err)
		require.False(t, got, "trial %d", i)
	}
}

func TestDistanceRefusesLowWeightMasks(t *testing.T) {
	a := iriscode.New()
	b := iriscode.New()
	_, _, err := iriscode.Distance(a, b)
	require.True(t, errors.Is(err, errs.ErrMaskHW))
}

func TestDistanceIgnoresBitsOutsideMask(t *testing.T) {
	a := iriscode.New()
	b := iriscode.New()
	for i := 0; i < iriscode.CodeSize; i++ {
		a.Mask.SetBit(i, true)
		b.Mask.SetBit(i, true)
	}
	// Differences only in the lower half; mask out that half on one side.
	for i := 0; i < iriscode.CodeSize/2; i++ {
		a.Code.SetBit(i, true)
		a.Mask.SetBit(i, false)
	}
	d, tw, err := iriscode.Distance(a, b)
	require.NoError(t, err)
	require.Equal(t, 0, d)
	require.Equal(t, iriscode.CodeSize/2, tw)
}
