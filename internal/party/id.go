// Package party implements the fixed three-party directed ring used by
// the replicated secret-sharing protocol: party i only ever sends to
// its "next" neighbour and only ever receives from its "previous" one.
package party

import (
	"fmt"

	"github.com/luxfi/aby3/internal/errs"
)

// ID identifies one of the three parties in the protocol triangle.
type ID uint8

const (
	ID0 ID = iota
	ID1
	ID2
)

// NumParties is the fixed size of the replicated secret-sharing
// triangle. The protocol is not generic over party count.
const NumParties = 3

// New validates n and returns the corresponding ID.
func New(n int) (ID, error) {
	if n < 0 || n >= NumParties {
		return 0, &errs.IDError{N: n}
	}
	return ID(n), nil
}

// Next returns the party this one sends to on the fast path.
func (id ID) Next() ID {
	return ID((int(id) + 1) % NumParties)
}

// Prev returns the party this one receives from on the fast path.
func (id ID) Prev() ID {
	return ID((int(id) + 2) % NumParties)
}

// Int returns the canonical integer form of the ID.
func (id ID) Int() int {
	return int(id)
}

func (id ID) String() string {
	return fmt.Sprintf("%d", uint8(id))
}

// Triangle bundles the three roles a running protocol instance needs:
// who am I, who do I send to, who do I receive from.
type Triangle struct {
	Self ID
	Next ID
	Prev ID
}

// NewTriangle builds a Triangle for the given self ID.
func NewTriangle(self ID) Triangle {
	return Triangle{Self: self, Next: self.Next(), Prev: self.Prev()}
}
