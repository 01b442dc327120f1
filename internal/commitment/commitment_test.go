package commitment_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/luxfi/aby3/internal/commitment"
	"github.com/luxfi/aby3/internal/ring"
)

func TestVerifySucceedsOnHonestOpening(t *testing.T) {
	values := []ring.Element{ring.FromUint64(ring.K32, 42), ring.FromUint64(ring.K32, 7)}
	c, err := commitment.Commit(values)
	require.NoError(t, err)

	opening := c.Open()
	require.True(t, opening.Verify(c.Digest))
}

func TestVerifyFailsOnTamperedValue(t *testing.T) {
	values := []ring.Element{ring.FromUint64(ring.K32, 42)}
	c, err := commitment.Commit(values)
	require.NoError(t, err)

	opening := c.Open()
	opening.Values[0] = ring.FromUint64(ring.K32, 43)
	require.False(t, opening.Verify(c.Digest))
}

func TestVerifyFailsOnTamperedRand(t *testing.T) {
	values := []ring.Element{ring.FromUint64(ring.K32, 1)}
	c, err := commitment.Commit(values)
	require.NoError(t, err)

	opening := c.Open()
	opening.Rand[0] ^= 0xFF
	require.False(t, opening.Verify(c.Digest))
}

func TestDistinctValuesNeverCollideInSample(t *testing.T) {
	seen := make(map[string]bool)
	var fixedRand [commitment.RandSize]byte
	for i := uint64(0); i < 500; i++ {
		c := commitment.CommitWithRand([]ring.Element{ring.FromUint64(ring.K64, i)}, fixedRand)
		key := string(c.Digest)
		require.False(t, seen[key], "digest collision at i=%d", i)
		seen[key] = true
	}
}
