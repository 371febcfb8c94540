package reg

import (
	"encoding/binary"
	"math"
)

// R32 is a 32-bit register stored as little-endian bytes.
type R32 [4]byte

func from32(v uint32) R32 {
	var r R32
	binary.LittleEndian.PutUint32(r[:], v)
	return r
}

func (r R32) u32() uint32 { return binary.LittleEndian.Uint32(r[:]) }
func (r R32) i32() int32  { return int32(r.u32()) }

// Width reports Bits32.
func (R32) Width() Width { return Bits32 }

// Unsigned returns the raw bits zero-extended to 64 bits.
func (r R32) Unsigned() uint64 { return uint64(r.u32()) }

// Signed returns the raw bits sign-extended to 64 bits.
func (r R32) Signed() int64 { return int64(r.i32()) }

// FromUnsigned builds a register from the low 32 bits of v.
func (R32) FromUnsigned(v uint64) R32 { return from32(uint32(v)) }

// FromSigned builds a register from the low 32 bits of v.
func (R32) FromSigned(v int64) R32 { return from32(uint32(v)) }

// AddSigned adds with wrapping two's-complement arithmetic.
func (r R32) AddSigned(other R32) R32 { return from32(uint32(r.i32() + other.i32())) }

// AddUnsigned adds with wrapping unsigned arithmetic.
func (r R32) AddUnsigned(other R32) R32 { return from32(r.u32() + other.u32()) }

// SubUnsigned subtracts other with wrapping unsigned arithmetic.
func (r R32) SubUnsigned(other R32) R32 { return from32(r.u32() - other.u32()) }

// Shl shifts left by the low 5 bits of other.
func (r R32) Shl(other R32) R32 { return from32(r.u32() << (other.u32() & 31)) }

// Shr shifts right logically by the low 5 bits of other.
func (r R32) Shr(other R32) R32 { return from32(r.u32() >> (other.u32() & 31)) }

// Sha shifts right arithmetically by the low 5 bits of other.
func (r R32) Sha(other R32) R32 { return from32(uint32(r.i32() >> (other.u32() & 31))) }

func (r R32) And(other R32) R32 { return from32(r.u32() & other.u32()) }
func (r R32) Or(other R32) R32  { return from32(r.u32() | other.u32()) }
func (r R32) Xor(other R32) R32 { return from32(r.u32() ^ other.u32()) }
func (r R32) Not() R32          { return from32(^r.u32()) }

func (r R32) Eq(other R32) bool          { return r.u32() == other.u32() }
func (r R32) Neq(other R32) bool         { return r.u32() != other.u32() }
func (r R32) LtSigned(other R32) bool    { return r.i32() < other.i32() }
func (r R32) LtUnsigned(other R32) bool  { return r.u32() < other.u32() }
func (r R32) GteSigned(other R32) bool   { return r.i32() >= other.i32() }
func (r R32) GteUnsigned(other R32) bool { return r.u32() >= other.u32() }

// Mul returns the low 32 bits of the product.
func (r R32) Mul(other R32) R32 {
	return from32(uint32(int64(r.i32()) * int64(other.i32())))
}

// Mulh returns the high 32 bits of the signed product.
func (r R32) Mulh(other R32) R32 {
	return from32(uint32((int64(r.i32()) * int64(other.i32())) >> 32))
}

// Mulhu returns the high 32 bits of the unsigned product.
func (r R32) Mulhu(other R32) R32 {
	return from32(uint32((uint64(r.u32()) * uint64(other.u32())) >> 32))
}

// Mulhsu returns the high 32 bits of the signed*unsigned product.
func (r R32) Mulhsu(other R32) R32 {
	return from32(uint32((int64(r.i32()) * int64(other.u32())) >> 32))
}

// Div is signed division rounding toward zero.
func (r R32) Div(other R32) R32 {
	switch {
	case other.i32() == 0:
		return from32(math.MaxUint32)
	case r.i32() == math.MinInt32 && other.i32() == -1:
		return r
	default:
		return from32(uint32(r.i32() / other.i32()))
	}
}

// Divu is unsigned division.
func (r R32) Divu(other R32) R32 {
	if other.u32() == 0 {
		return from32(math.MaxUint32)
	}
	return from32(r.u32() / other.u32())
}

// Rem is the signed remainder with the sign of the dividend.
func (r R32) Rem(other R32) R32 {
	switch {
	case other.i32() == 0:
		return r
	case r.i32() == math.MinInt32 && other.i32() == -1:
		return from32(0)
	default:
		return from32(uint32(r.i32() % other.i32()))
	}
}

// Remu is the unsigned remainder.
func (r R32) Remu(other R32) R32 {
	if other.u32() == 0 {
		return r
	}
	return from32(r.u32() % other.u32())
}

// SignExtendedByte places b in the low byte, replicating its sign bit.
func (R32) SignExtendedByte(b byte) R32 {
	e := byte(0)
	if b&0x80 != 0 {
		e = 0xFF
	}
	return R32{b, e, e, e}
}

// ZeroExtendedByte places b in the low byte with zeroed upper bits.
func (R32) ZeroExtendedByte(b byte) R32 { return R32{b, 0, 0, 0} }

// SignExtendedHalf places h in the low bytes, replicating its sign bit.
func (R32) SignExtendedHalf(h [2]byte) R32 {
	e := byte(0)
	if h[1]&0x80 != 0 {
		e = 0xFF
	}
	return R32{h[0], h[1], e, e}
}

// ZeroExtendedHalf places h in the low bytes with zeroed upper bits.
func (R32) ZeroExtendedHalf(h [2]byte) R32 { return R32{h[0], h[1], 0, 0} }

// SignExtendedWord is the identity at this width.
func (R32) SignExtendedWord(w [4]byte) R32 { return R32(w) }

// ZeroExtendedWord is the identity at this width.
func (R32) ZeroExtendedWord(w [4]byte) R32 { return R32(w) }

// SignExtendedDouble panics: a 64-bit value does not fit this width.
func (R32) SignExtendedDouble([8]byte) R32 {
	panic("reg: cannot place a 64-bit value in a 32-bit register")
}

// ZeroExtendedDouble panics: a 64-bit value does not fit this width.
func (R32) ZeroExtendedDouble([8]byte) R32 {
	panic("reg: cannot place a 64-bit value in a 32-bit register")
}

// Byte returns the lowest byte.
func (r R32) Byte() byte { return r[0] }

// Half returns the lowest two bytes.
func (r R32) Half() [2]byte { return [2]byte{r[0], r[1]} }

// Word returns all four bytes.
func (r R32) Word() [4]byte { return r }

// Double panics: a 32-bit register has no 64-bit view.
func (r R32) Double() [8]byte {
	panic("reg: cannot take a 64-bit value from a 32-bit register")
}

// Append returns the unsigned value plus offset, wrapped at 32 bits.
func (r R32) Append(offset uint64) uint64 {
	return uint64(r.u32() + uint32(offset))
}

// Usize returns the unsigned value as a host index.
func (r R32) Usize() uint { return uint(r.u32()) }

// TrapCause builds an mcause value: cause in the low bits, the interrupt
// flag in bit 31.
func (R32) TrapCause(cause uint8, interrupt bool) R32 {
	v := uint32(cause)
	if interrupt {
		v |= 1 << 31
	}
	return from32(v)
}
