// Package ring implements the wrapping integer ring Z/2^k Z that every
// share, PRF sample, and circuit wire in this module is built from.
//
// Go has no zero-cost generics over bit width, so rather than
// monomorphising every protocol over a type parameter we use a tagged
// variant (Kind) plus a fixed two-limb element and dispatch the
// wrapping operations on Kind. Only wrapping arithmetic and shifts are
// needed, so a table-driven switch is cheap and keeps Element a flat,
// comparable value type.
package ring

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/luxfi/aby3/internal/errs"
)

// Kind tags the bit width of a ring element.
type Kind uint8

const (
	K1 Kind = iota
	K8
	K16
	K32
	K64
	K128
)

// Bits returns k, the ring's bit width.
func (k Kind) Bits() int {
	switch k {
	case K1:
		return 1
	case K8:
		return 8
	case K16:
		return 16
	case K32:
		return 32
	case K64:
		return 64
	case K128:
		return 128
	default:
		panic(fmt.Sprintf("ring: unknown kind %d", k))
	}
}

// Bytes returns ceil(k/8), the serialized width.
func (k Kind) Bytes() int {
	return (k.Bits() + 7) / 8
}

// mask64 returns the k-bit mask for kinds that fit in a single uint64
// limb (everything except K128, which needs no masking since it is
// exactly two limbs and wraps for free).
func (k Kind) mask64() uint64 {
	b := k.Bits()
	if b >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(b)) - 1
}

// Element is a value in Z/2^k Z. Lo holds the low 64 bits for every
// kind; Hi holds bits [64:128) and is only meaningful when Kind==K128.
type Element struct {
	Kind Kind
	Lo   uint64
	Hi   uint64
}

// FromUint64 builds an element of the given kind from a native value,
// reducing mod 2^k.
func FromUint64(k Kind, v uint64) Element {
	return Element{Kind: k, Lo: v & k.mask64()}
}

// FromBit builds the 0/1 element of kind k from a boolean.
func FromBit(k Kind, b bool) Element {
	if b {
		return FromUint64(k, 1)
	}
	return FromUint64(k, 0)
}

func (e Element) reduced() Element {
	if e.Kind != K128 {
		e.Lo &= e.Kind.mask64()
		e.Hi = 0
	}
	return e
}

// Add returns e + other mod 2^k.
func (e Element) Add(other Element) Element {
	if e.Kind == K128 {
		lo, carry := bits.Add64(e.Lo, other.Lo, 0)
		hi, _ := bits.Add64(e.Hi, other.Hi, carry)
		return Element{Kind: K128, Lo: lo, Hi: hi}
	}
	return Element{Kind: e.Kind, Lo: (e.Lo + other.Lo) & e.Kind.mask64()}
}

// Sub returns e - other mod 2^k.
func (e Element) Sub(other Element) Element {
	if e.Kind == K128 {
		lo, borrow := bits.Sub64(e.Lo, other.Lo, 0)
		hi, _ := bits.Sub64(e.Hi, other.Hi, borrow)
		return Element{Kind: K128, Lo: lo, Hi: hi}
	}
	return Element{Kind: e.Kind, Lo: (e.Lo - other.Lo) & e.Kind.mask64()}
}

// Neg returns -e mod 2^k.
func (e Element) Neg() Element {
	return Element{Kind: e.Kind}.Sub(e)
}

// Mul returns e * other mod 2^k.
func (e Element) Mul(other Element) Element {
	if e.Kind == K128 {
		// 128-bit schoolbook multiply keeping only the low 128 bits,
		// which is exactly the mod-2^128 wraparound we want.
		hiLo, lo := bits.Mul64(e.Lo, other.Lo)
		hi := hiLo + e.Lo*other.Hi + e.Hi*other.Lo
		return Element{Kind: K128, Lo: lo, Hi: hi}
	}
	return Element{Kind: e.Kind, Lo: (e.Lo * other.Lo) & e.Kind.mask64()}
}

// MulPublic multiplies by a public scalar constant; identical to Mul
// but named separately to mirror the protocol's distinction between a
// local public-scalar multiply and an interactive share-by-share one.
func (e Element) MulPublic(c Element) Element {
	return e.Mul(c)
}

// Shl returns e << s mod 2^k.
func (e Element) Shl(s uint) Element {
	if e.Kind == K128 {
		if s == 0 {
			return e
		}
		if s >= 128 {
			return Element{Kind: K128}
		}
		if s < 64 {
			hi := (e.Hi << s) | (e.Lo >> (64 - s))
			lo := e.Lo << s
			return Element{Kind: K128, Lo: lo, Hi: hi}
		}
		return Element{Kind: K128, Lo: 0, Hi: e.Lo << (s - 64)}
	}
	b := uint(e.Kind.Bits())
	if s >= b {
		return Element{Kind: e.Kind}
	}
	return Element{Kind: e.Kind, Lo: (e.Lo << s) & e.Kind.mask64()}
}

// Shr returns e >> s, a logical (unsigned) shift.
func (e Element) Shr(s uint) Element {
	if e.Kind == K128 {
		if s == 0 {
			return e
		}
		if s >= 128 {
			return Element{Kind: K128}
		}
		if s < 64 {
			lo := (e.Lo >> s) | (e.Hi << (64 - s))
			hi := e.Hi >> s
			return Element{Kind: K128, Lo: lo, Hi: hi}
		}
		return Element{Kind: K128, Lo: e.Hi >> (s - 64), Hi: 0}
	}
	b := uint(e.Kind.Bits())
	if s >= b {
		return Element{Kind: e.Kind}
	}
	return Element{Kind: e.Kind, Lo: e.Lo >> s}
}

// Xor returns e ^ other.
func (e Element) Xor(other Element) Element {
	return Element{Kind: e.Kind, Lo: e.Lo ^ other.Lo, Hi: e.Hi ^ other.Hi}.reduced()
}

// And returns e & other.
func (e Element) And(other Element) Element {
	return Element{Kind: e.Kind, Lo: e.Lo & other.Lo, Hi: e.Hi & other.Hi}
}

// Or returns e | other.
func (e Element) Or(other Element) Element {
	return Element{Kind: e.Kind, Lo: e.Lo | other.Lo, Hi: e.Hi | other.Hi}
}

// Not returns ^e mod 2^k.
func (e Element) Not() Element {
	if e.Kind == K128 {
		return Element{Kind: K128, Lo: ^e.Lo, Hi: ^e.Hi}
	}
	return Element{Kind: e.Kind, Lo: (^e.Lo) & e.Kind.mask64()}
}

// Bit returns the value (0 or 1) of bit i, LSB-first.
func (e Element) Bit(i uint) uint64 {
	if i < 64 {
		return (e.Lo >> i) & 1
	}
	return (e.Hi >> (i - 64)) & 1
}

// IsZero reports whether e is the additive identity.
func (e Element) IsZero() bool {
	return e.Lo == 0 && e.Hi == 0
}

// Equal reports value equality within the same Kind.
func (e Element) Equal(other Element) bool {
	return e.Kind == other.Kind && e.Lo == other.Lo && e.Hi == other.Hi
}

// Negative reinterprets e as its two's-complement signed companion and
// reports whether the sign bit (bit k-1) is set. This is the only
// operation the protocol needs on the signed form: the final
// comparison inspects the sign bit of a shared ring element.
func (e Element) Negative() bool {
	return e.Bit(uint(e.Kind.Bits()-1)) == 1
}

// ToBytes serializes e little-endian, fixed-width at Kind.Bytes().
func (e Element) ToBytes() []byte {
	n := e.Kind.Bytes()
	buf := make([]byte, n)
	switch {
	case n <= 8:
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], e.Lo)
		copy(buf, tmp[:n])
	default:
		binary.LittleEndian.PutUint64(buf[0:8], e.Lo)
		binary.LittleEndian.PutUint64(buf[8:16], e.Hi)
	}
	return buf
}

// FromBytes deserializes a little-endian fixed-width element of the
// given kind, returning errs.ErrConversion if the length disagrees
// with the declared width.
func FromBytes(k Kind, b []byte) (Element, error) {
	n := k.Bytes()
	if len(b) != n {
		return Element{}, errs.Wrap(errs.ErrConversion, fmt.Sprintf("expected %d bytes, got %d", n, len(b)))
	}
	var lo, hi uint64
	switch {
	case n <= 8:
		var tmp [8]byte
		copy(tmp[:], b)
		lo = binary.LittleEndian.Uint64(tmp[:])
	default:
		lo = binary.LittleEndian.Uint64(b[0:8])
		hi = binary.LittleEndian.Uint64(b[8:16])
	}
	return Element{Kind: k, Lo: lo & k.mask64(), Hi: hi}, nil
}
