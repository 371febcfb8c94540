package reg

import (
	"encoding/binary"
	"math"
	"math/bits"
)

// R64 is a 64-bit register stored as little-endian bytes.
type R64 [8]byte

func from64(v uint64) R64 {
	var r R64
	binary.LittleEndian.PutUint64(r[:], v)
	return r
}

func (r R64) u64() uint64 { return binary.LittleEndian.Uint64(r[:]) }
func (r R64) i64() int64  { return int64(r.u64()) }

// Width reports Bits64.
func (R64) Width() Width { return Bits64 }

// Unsigned returns the raw bits as an unsigned integer.
func (r R64) Unsigned() uint64 { return r.u64() }

// Signed returns the raw bits as a two's-complement integer.
func (r R64) Signed() int64 { return r.i64() }

// FromUnsigned builds a register from v.
func (R64) FromUnsigned(v uint64) R64 { return from64(v) }

// FromSigned builds a register from v.
func (R64) FromSigned(v int64) R64 { return from64(uint64(v)) }

// AddSigned adds with wrapping two's-complement arithmetic.
func (r R64) AddSigned(other R64) R64 { return from64(uint64(r.i64() + other.i64())) }

// AddUnsigned adds with wrapping unsigned arithmetic.
func (r R64) AddUnsigned(other R64) R64 { return from64(r.u64() + other.u64()) }

// SubUnsigned subtracts other with wrapping unsigned arithmetic.
func (r R64) SubUnsigned(other R64) R64 { return from64(r.u64() - other.u64()) }

// Shl shifts left by the low 6 bits of other.
func (r R64) Shl(other R64) R64 { return from64(r.u64() << (other.u64() & 63)) }

// Shr shifts right logically by the low 6 bits of other.
func (r R64) Shr(other R64) R64 { return from64(r.u64() >> (other.u64() & 63)) }

// Sha shifts right arithmetically by the low 6 bits of other.
func (r R64) Sha(other R64) R64 { return from64(uint64(r.i64() >> (other.u64() & 63))) }

func (r R64) And(other R64) R64 { return from64(r.u64() & other.u64()) }
func (r R64) Or(other R64) R64  { return from64(r.u64() | other.u64()) }
func (r R64) Xor(other R64) R64 { return from64(r.u64() ^ other.u64()) }
func (r R64) Not() R64          { return from64(^r.u64()) }

func (r R64) Eq(other R64) bool          { return r.u64() == other.u64() }
func (r R64) Neq(other R64) bool         { return r.u64() != other.u64() }
func (r R64) LtSigned(other R64) bool    { return r.i64() < other.i64() }
func (r R64) LtUnsigned(other R64) bool  { return r.u64() < other.u64() }
func (r R64) GteSigned(other R64) bool   { return r.i64() >= other.i64() }
func (r R64) GteUnsigned(other R64) bool { return r.u64() >= other.u64() }

// Mul returns the low 64 bits of the product.
func (r R64) Mul(other R64) R64 { return from64(r.u64() * other.u64()) }

// Mulh returns the high 64 bits of the signed product. The unsigned high
// half is corrected for each negative operand.
func (r R64) Mulh(other R64) R64 {
	hi, _ := bits.Mul64(r.u64(), other.u64())
	if r.i64() < 0 {
		hi -= other.u64()
	}
	if other.i64() < 0 {
		hi -= r.u64()
	}
	return from64(hi)
}

// Mulhu returns the high 64 bits of the unsigned product.
func (r R64) Mulhu(other R64) R64 {
	hi, _ := bits.Mul64(r.u64(), other.u64())
	return from64(hi)
}

// Mulhsu returns the high 64 bits of the signed*unsigned product.
func (r R64) Mulhsu(other R64) R64 {
	hi, _ := bits.Mul64(r.u64(), other.u64())
	if r.i64() < 0 {
		hi -= other.u64()
	}
	return from64(hi)
}

// Div is signed division rounding toward zero.
func (r R64) Div(other R64) R64 {
	switch {
	case other.i64() == 0:
		return from64(math.MaxUint64)
	case r.i64() == math.MinInt64 && other.i64() == -1:
		return r
	default:
		return from64(uint64(r.i64() / other.i64()))
	}
}

// Divu is unsigned division.
func (r R64) Divu(other R64) R64 {
	if other.u64() == 0 {
		return from64(math.MaxUint64)
	}
	return from64(r.u64() / other.u64())
}

// Rem is the signed remainder with the sign of the dividend.
func (r R64) Rem(other R64) R64 {
	switch {
	case other.i64() == 0:
		return r
	case r.i64() == math.MinInt64 && other.i64() == -1:
		return from64(0)
	default:
		return from64(uint64(r.i64() % other.i64()))
	}
}

// Remu is the unsigned remainder.
func (r R64) Remu(other R64) R64 {
	if other.u64() == 0 {
		return r
	}
	return from64(r.u64() % other.u64())
}

// SignExtendedByte places b in the low byte, replicating its sign bit.
func (R64) SignExtendedByte(b byte) R64 {
	e := byte(0)
	if b&0x80 != 0 {
		e = 0xFF
	}
	return R64{b, e, e, e, e, e, e, e}
}

// ZeroExtendedByte places b in the low byte with zeroed upper bits.
func (R64) ZeroExtendedByte(b byte) R64 { return R64{b} }

// SignExtendedHalf places h in the low bytes, replicating its sign bit.
func (R64) SignExtendedHalf(h [2]byte) R64 {
	e := byte(0)
	if h[1]&0x80 != 0 {
		e = 0xFF
	}
	return R64{h[0], h[1], e, e, e, e, e, e}
}

// ZeroExtendedHalf places h in the low bytes with zeroed upper bits.
func (R64) ZeroExtendedHalf(h [2]byte) R64 { return R64{h[0], h[1]} }

// SignExtendedWord places w in the low bytes, replicating bit 31. This
// is the narrowing step the W-suffixed RV64I instructions rely on.
func (R64) SignExtendedWord(w [4]byte) R64 {
	e := byte(0)
	if w[3]&0x80 != 0 {
		e = 0xFF
	}
	return R64{w[0], w[1], w[2], w[3], e, e, e, e}
}

// ZeroExtendedWord places w in the low bytes with zeroed upper bits.
func (R64) ZeroExtendedWord(w [4]byte) R64 { return R64{w[0], w[1], w[2], w[3]} }

// SignExtendedDouble is the identity at this width.
func (R64) SignExtendedDouble(d [8]byte) R64 { return R64(d) }

// ZeroExtendedDouble is the identity at this width.
func (R64) ZeroExtendedDouble(d [8]byte) R64 { return R64(d) }

// Byte returns the lowest byte.
func (r R64) Byte() byte { return r[0] }

// Half returns the lowest two bytes.
func (r R64) Half() [2]byte { return [2]byte{r[0], r[1]} }

// Word returns the lowest four bytes.
func (r R64) Word() [4]byte { return [4]byte{r[0], r[1], r[2], r[3]} }

// Double returns all eight bytes.
func (r R64) Double() [8]byte { return r }

// Append returns the unsigned value plus offset, wrapped at 64 bits.
func (r R64) Append(offset uint64) uint64 { return r.u64() + offset }

// Usize returns the unsigned value as a host index.
func (r R64) Usize() uint { return uint(r.u64()) }

// TrapCause builds an mcause value: cause in the low bits, the interrupt
// flag in bit 63.
func (R64) TrapCause(cause uint8, interrupt bool) R64 {
	v := uint64(cause)
	if interrupt {
		v |= 1 << 63
	}
	return from64(v)
}
