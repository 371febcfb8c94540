package insts

import "github.com/hartlab/rvcore/reg"

// R is the register-register variant, encoding a destination and two
// source register indices.
// Format: funct7 | rs2 | rs1 | funct3 | rd | opcode
type R struct {
	Destination uint8
	Source1     uint8
	Source2     uint8
}

// DecodeR decodes an R-variant instruction.
func DecodeR(w Word) R {
	return R{
		Destination: destination(w),
		Source1:     source1(w),
		Source2:     source2(w),
	}
}

// I is the register-immediate variant. The immediate is a sign-extended
// 12-bit value from instruction bits 31:20.
type I[V reg.Register[V]] struct {
	Destination uint8
	Source      uint8
	Immediate   V
}

// DecodeI decodes an I-variant instruction.
func DecodeI[V reg.Register[V]](w Word) I[V] {
	var zero V
	hi := (w[3] & 0xF0) >> 4
	if w[3]&0x80 != 0 {
		hi |= 0xF0
	}
	return I[V]{
		Destination: destination(w),
		Source:      source1(w),
		Immediate: zero.SignExtendedHalf([2]byte{
			((w[2] & 0xF0) >> 4) | ((w[3] & 0x0F) << 4),
			hi,
		}),
	}
}

// S is the store variant: two source registers and a sign-extended
// 12-bit immediate split across bits 31:25 and 11:7.
type S[V reg.Register[V]] struct {
	Source1   uint8
	Source2   uint8
	Immediate V
}

// DecodeS decodes an S-variant instruction.
func DecodeS[V reg.Register[V]](w Word) S[V] {
	var zero V
	hi := (w[3] & 0xF0) >> 4
	if w[3]&0x80 != 0 {
		hi |= 0xF0
	}
	return S[V]{
		Source1: source1(w),
		Source2: source2(w),
		Immediate: zero.SignExtendedHalf([2]byte{
			((w[0] & 0x80) >> 7) | ((w[1] & 0x0F) << 1) | ((w[3] & 0x0E) << 4),
			hi,
		}),
	}
}

// B is the branch variant: a variation of S where the immediate is a
// 13-bit branch offset. The offset's least significant bit is always
// zero as branch targets are 2-byte aligned.
type B[V reg.Register[V]] struct {
	Source1   uint8
	Source2   uint8
	Immediate V
}

// DecodeB decodes a B-variant instruction.
// Offset bits: {w[31], w[7], w[30:25], w[11:8], 0}.
func DecodeB[V reg.Register[V]](w Word) B[V] {
	var zero V
	hi := ((w[3] & 0x70) >> 4) | ((w[0] & 0x80) >> 4) | ((w[3] & 0x80) >> 3)
	if w[3]&0x80 != 0 {
		hi |= 0xE0
	}
	return B[V]{
		Source1: source1(w),
		Source2: source2(w),
		Immediate: zero.SignExtendedHalf([2]byte{
			((w[1] & 0x0F) << 1) | ((w[3] & 0x0E) << 4),
			hi,
		}),
	}
}

// U is the upper-immediate variant: a destination register and a 32-bit
// immediate with the low 12 bits zeroed. The word is sign-extended into
// the register, which matters for RV64.
type U[V reg.Register[V]] struct {
	Destination uint8
	Immediate   V
}

// DecodeU decodes a U-variant instruction.
func DecodeU[V reg.Register[V]](w Word) U[V] {
	var zero V
	return U[V]{
		Destination: destination(w),
		Immediate:   zero.SignExtendedWord([4]byte{0, w[1] & 0xF0, w[2], w[3]}),
	}
}

// J is the jump variant: a variation of U where the immediate is a
// 21-bit jump offset with its least significant bit zeroed.
type J[V reg.Register[V]] struct {
	Destination uint8
	Immediate   V
}

// DecodeJ decodes a J-variant instruction.
// Offset bits: {w[31], w[19:12], w[20], w[30:21], 0}.
func DecodeJ[V reg.Register[V]](w Word) J[V] {
	var zero V
	b2 := (w[2] & 0x0F) | ((w[3] & 0x80) >> 3)
	b3 := byte(0)
	if w[3]&0x80 != 0 {
		b2 |= 0xE0
		b3 = 0xFF
	}
	return J[V]{
		Destination: destination(w),
		Immediate: zero.SignExtendedWord([4]byte{
			((w[2] & 0xE0) >> 4) | ((w[3] & 0x0F) << 4), // offset bits 1-7
			((w[3] & 0x70) >> 4) | ((w[2] & 0x10) >> 1) | (w[1] & 0xF0), // 8-15
			b2, // 16-20 plus sign fill
			b3,
		}),
	}
}

// C is the CSR variant: a variation of I where the immediate encodes a
// 12-bit unsigned CSR index. Source carries an untyped 5-bit field,
// read either as a register index or as an unsigned immediate by the
// CSRR*I instructions.
type C struct {
	Destination uint8
	Source      uint8
	CSR         uint16
}

// DecodeC decodes a C-variant instruction. The CSR index is not
// sign-extended.
func DecodeC(w Word) C {
	return C{
		Destination: destination(w),
		Source:      source1(w),
		CSR:         uint16((w[2]&0xF0)>>4) | uint16(w[3])<<4,
	}
}
