package share

import "github.com/luxfi/aby3/internal/errs"

// Vector operations over share slices (chunks, split-at, reserve,
// xor-assign, shl-assign) as plain slice helpers rather than a
// dedicated container type.

// ReserveBinary preallocates a binary-share slice.
func ReserveBinary(n int) []Binary {
	return make([]Binary, 0, n)
}

// ReserveAdditive preallocates an additive-share slice.
func ReserveAdditive(n int) []Additive {
	return make([]Additive, 0, n)
}

// ChunksBinary splits xs into consecutive chunks of size n (the last
// chunk may be shorter).
func ChunksBinary(xs []Binary, n int) [][]Binary {
	var out [][]Binary
	for len(xs) > 0 {
		if n > len(xs) {
			n = len(xs)
		}
		out = append(out, xs[:n])
		xs = xs[n:]
	}
	return out
}

// SplitAtBinary splits xs at index i into (xs[:i], xs[i:]).
func SplitAtBinary(xs []Binary, i int) ([]Binary, []Binary) {
	return xs[:i], xs[i:]
}

// XorAssignMany XORs b into a in place, elementwise. Returns
// errs.ErrInvalidSize if the lengths disagree.
func XorAssignMany(a []Binary, b []Binary) error {
	if len(a) != len(b) {
		return errs.ErrInvalidSize
	}
	for i := range a {
		a[i] = a[i].Xor(b[i])
	}
	return nil
}

// ShlAssignMany shifts every element of a left by n bits in place.
func ShlAssignMany(a []Binary, n uint) {
	for i := range a {
		a[i] = a[i].Shl(n)
	}
}

// XorMany returns the elementwise XOR of a and b without mutating
// either input.
func XorMany(a, b []Binary) ([]Binary, error) {
	if len(a) != len(b) {
		return nil, errs.ErrInvalidSize
	}
	out := make([]Binary, len(a))
	for i := range a {
		out[i] = a[i].Xor(b[i])
	}
	return out, nil
}
