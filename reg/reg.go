// Package reg provides the XLEN-parameterized register values a hart
// computes with. A register is stored as a little-endian byte array of
// length XLEN/8, which makes byte-granular memory access trivial: the
// low-address byte is the least-significant byte.
//
// Two concrete widths exist: R32 for RV32 and R64 for RV64. Code that is
// generic over the width takes a type parameter constrained by Register:
//
//	func lowByte[R reg.Register[R]](v R) byte { return v.Byte() }
package reg

// Width is the number of bits in a register (XLEN).
type Width uint8

// The supported register widths.
const (
	Bits32 Width = 32
	Bits64 Width = 64
)

// Register is the constraint satisfied by the concrete register widths.
//
// No operation panics on any operand values: arithmetic wraps, shift
// amounts are masked to the low log2(XLEN) bits, and division follows
// the ISA-defined results for zero divisors and signed overflow
// (see Div, Rem).
//
// The extension constructors build a new register from a sub-word value;
// the receiver supplies only the width. Placing a value wider than the
// register (a Double into an R32) is a caller error and panics.
type Register[R any] interface {
	// Width reports the register width in bits.
	Width() Width

	// Unsigned returns the raw bits as an unsigned integer, zero-extended
	// into the 64-bit container.
	Unsigned() uint64
	// Signed returns the raw bits as a two's-complement integer,
	// sign-extended into the 64-bit container.
	Signed() int64
	// FromUnsigned builds a register from the low XLEN bits of v.
	FromUnsigned(v uint64) R
	// FromSigned builds a register from the low XLEN bits of v.
	FromSigned(v int64) R

	// AddSigned adds with two's-complement wrapping arithmetic.
	AddSigned(other R) R
	// AddUnsigned adds with unsigned wrapping arithmetic.
	AddUnsigned(other R) R
	// SubUnsigned subtracts other from the receiver with wrapping.
	SubUnsigned(other R) R

	// Shl shifts left by the low log2(XLEN) bits of other.
	Shl(other R) R
	// Shr shifts right logically by the low log2(XLEN) bits of other.
	Shr(other R) R
	// Sha shifts right arithmetically, preserving the sign bit.
	Sha(other R) R

	And(other R) R
	Or(other R) R
	Xor(other R) R
	Not() R

	Eq(other R) bool
	Neq(other R) bool
	LtSigned(other R) bool
	LtUnsigned(other R) bool
	GteSigned(other R) bool
	GteUnsigned(other R) bool

	// Mul returns the low XLEN bits of the product.
	Mul(other R) R
	// Mulh returns the high XLEN bits of the signed*signed product.
	Mulh(other R) R
	// Mulhu returns the high XLEN bits of the unsigned*unsigned product.
	Mulhu(other R) R
	// Mulhsu returns the high XLEN bits of the signed*unsigned product.
	Mulhsu(other R) R
	// Div is signed division rounding toward zero. Division by zero
	// yields the all-ones pattern; MIN/-1 yields MIN.
	Div(other R) R
	// Divu is unsigned division. Division by zero yields all-ones.
	Divu(other R) R
	// Rem is the signed remainder, its sign matching the dividend.
	// A zero divisor yields the dividend; MIN%-1 yields zero.
	Rem(other R) R
	// Remu is the unsigned remainder. A zero divisor yields the dividend.
	Remu(other R) R

	SignExtendedByte(b byte) R
	ZeroExtendedByte(b byte) R
	SignExtendedHalf(h [2]byte) R
	ZeroExtendedHalf(h [2]byte) R
	SignExtendedWord(w [4]byte) R
	ZeroExtendedWord(w [4]byte) R
	SignExtendedDouble(d [8]byte) R
	ZeroExtendedDouble(d [8]byte) R

	// Byte returns the lowest byte.
	Byte() byte
	// Half returns the lowest two bytes.
	Half() [2]byte
	// Word returns the lowest four bytes.
	Word() [4]byte
	// Double returns all eight bytes of a 64-bit register.
	Double() [8]byte

	// Append returns the unsigned value plus offset, wrapped at XLEN.
	Append(offset uint64) uint64
	// Usize returns the unsigned value as a host-pointer-sized index.
	Usize() uint

	// TrapCause builds the value stored in the mcause CSR: the cause in
	// the low bits and the interrupt flag in bit XLEN-1.
	TrapCause(cause uint8, interrupt bool) R
}
