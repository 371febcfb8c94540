// Package emu provides functional RISC-V hart emulation.
package emu

import (
	"github.com/hartlab/rvcore/insts"
	"github.com/hartlab/rvcore/reg"
)

// shiftAmount extracts the shift amount from a shift-immediate operand,
// masked to the register width. At 32 bits, immediate bit 5 is reserved
// and reports false (illegal instruction).
func shiftAmount[R reg.Register[R]](imm R) (R, bool) {
	var zero R
	b := imm.Byte()
	if zero.Width() == reg.Bits32 {
		if b&0x20 != 0 {
			return zero, false
		}
		return zero.ZeroExtendedByte(b & 0x1F), true
	}
	return zero.ZeroExtendedByte(b & 0x3F), true
}

// executeOp handles the OP opcode: register-register ALU operations and,
// with the M extension, multiply/divide.
func (h *Hart[R]) executeOp(w insts.Word, key insts.Key) *Trap {
	v := insts.DecodeR(w)
	rs1 := h.Get(int(v.Source1))
	rs2 := h.Get(int(v.Source2))

	var result R
	switch {
	case key.Funct7 == 0b0000000:
		switch key.Funct3 {
		case 0b000: // ADD
			result = rs1.AddUnsigned(rs2)
		case 0b001: // SLL
			result = rs1.Shl(rs2)
		case 0b010: // SLT
			result = boolReg[R](rs1.LtSigned(rs2))
		case 0b011: // SLTU
			result = boolReg[R](rs1.LtUnsigned(rs2))
		case 0b100: // XOR
			result = rs1.Xor(rs2)
		case 0b101: // SRL
			result = rs1.Shr(rs2)
		case 0b110: // OR
			result = rs1.Or(rs2)
		case 0b111: // AND
			result = rs1.And(rs2)
		}
	case key.Funct7 == 0b0100000 && key.Funct3 == 0b000: // SUB
		result = rs1.SubUnsigned(rs2)
	case key.Funct7 == 0b0100000 && key.Funct3 == 0b101: // SRA
		result = rs1.Sha(rs2)
	case key.Funct7 == 0b0000001 && h.extM:
		switch key.Funct3 {
		case 0b000: // MUL
			result = rs1.Mul(rs2)
		case 0b001: // MULH
			result = rs1.Mulh(rs2)
		case 0b010: // MULHSU
			result = rs1.Mulhsu(rs2)
		case 0b011: // MULHU
			result = rs1.Mulhu(rs2)
		case 0b100: // DIV
			result = rs1.Div(rs2)
		case 0b101: // DIVU
			result = rs1.Divu(rs2)
		case 0b110: // REM
			result = rs1.Rem(rs2)
		case 0b111: // REMU
			result = rs1.Remu(rs2)
		}
	default:
		return h.raise(TrapIllegalInstruction)
	}

	h.Set(int(v.Destination), result)
	h.step()
	return nil
}

// executeOpImm handles the OP-IMM opcode: register-immediate ALU
// operations.
func (h *Hart[R]) executeOpImm(w insts.Word, key insts.Key) *Trap {
	v := insts.DecodeI[R](w)
	rs1 := h.Get(int(v.Source))

	var result R
	switch key.Funct3 {
	case 0b000: // ADDI
		result = rs1.AddSigned(v.Immediate)
	case 0b010: // SLTI
		result = boolReg[R](rs1.LtSigned(v.Immediate))
	case 0b011: // SLTIU
		result = boolReg[R](rs1.LtUnsigned(v.Immediate))
	case 0b100: // XORI
		result = rs1.Xor(v.Immediate)
	case 0b110: // ORI
		result = rs1.Or(v.Immediate)
	case 0b111: // ANDI
		result = rs1.And(v.Immediate)
	case 0b001: // SLLI
		sh, ok := shiftAmount(v.Immediate)
		if !ok {
			return h.raise(TrapIllegalInstruction)
		}
		result = rs1.Shl(sh)
	case 0b101: // SRLI / SRAI, split on instruction bit 30
		sh, ok := shiftAmount(v.Immediate)
		if !ok {
			return h.raise(TrapIllegalInstruction)
		}
		if w[3]&0x40 != 0 {
			result = rs1.Sha(sh)
		} else {
			result = rs1.Shr(sh)
		}
	}

	h.Set(int(v.Destination), result)
	h.step()
	return nil
}

// executeOp32 handles the OP-32 opcode, the W-suffixed register-register
// operations of RV64I and RV64M. The operands are narrowed to 32 bits,
// the operation runs with 32-bit semantics, and the result is
// sign-extended back to 64 bits.
func (h *Hart[R]) executeOp32(w insts.Word, key insts.Key) *Trap {
	var zero R
	if zero.Width() == reg.Bits32 {
		return h.raise(TrapIllegalInstruction)
	}

	v := insts.DecodeR(w)
	rs1 := reg.R32(h.Get(int(v.Source1)).Word())
	rs2 := reg.R32(h.Get(int(v.Source2)).Word())

	var result reg.R32
	switch {
	case key.Funct7 == 0b0000000 && key.Funct3 == 0b000: // ADDW
		result = rs1.AddUnsigned(rs2)
	case key.Funct7 == 0b0000000 && key.Funct3 == 0b001: // SLLW
		result = rs1.Shl(rs2)
	case key.Funct7 == 0b0000000 && key.Funct3 == 0b101: // SRLW
		result = rs1.Shr(rs2)
	case key.Funct7 == 0b0100000 && key.Funct3 == 0b000: // SUBW
		result = rs1.SubUnsigned(rs2)
	case key.Funct7 == 0b0100000 && key.Funct3 == 0b101: // SRAW
		result = rs1.Sha(rs2)
	case key.Funct7 == 0b0000001 && h.extM:
		switch key.Funct3 {
		case 0b000: // MULW
			result = rs1.Mul(rs2)
		case 0b100: // DIVW
			result = rs1.Div(rs2)
		case 0b101: // DIVUW
			result = rs1.Divu(rs2)
		case 0b110: // REMW
			result = rs1.Rem(rs2)
		case 0b111: // REMUW
			result = rs1.Remu(rs2)
		default:
			return h.raise(TrapIllegalInstruction)
		}
	default:
		return h.raise(TrapIllegalInstruction)
	}

	h.Set(int(v.Destination), zero.SignExtendedWord(result.Word()))
	h.step()
	return nil
}

// executeOpImm32 handles the OP-IMM-32 opcode, the W-suffixed
// register-immediate operations of RV64I.
func (h *Hart[R]) executeOpImm32(w insts.Word, key insts.Key) *Trap {
	var zero R
	if zero.Width() == reg.Bits32 {
		return h.raise(TrapIllegalInstruction)
	}

	v := insts.DecodeI[R](w)
	rs1 := reg.R32(h.Get(int(v.Source)).Word())

	var result reg.R32
	switch key.Funct3 {
	case 0b000: // ADDIW
		result = rs1.AddSigned(reg.R32(v.Immediate.Word()))
	case 0b001, 0b101: // SLLIW / SRLIW / SRAIW
		b := v.Immediate.Byte()
		if b&0x20 != 0 {
			// Bit 5 of the W shift amount is reserved.
			return h.raise(TrapIllegalInstruction)
		}
		var sh reg.R32
		sh = sh.ZeroExtendedByte(b & 0x1F)
		switch {
		case key.Funct3 == 0b001:
			result = rs1.Shl(sh)
		case w[3]&0x40 != 0:
			result = rs1.Sha(sh)
		default:
			result = rs1.Shr(sh)
		}
	default:
		return h.raise(TrapIllegalInstruction)
	}

	h.Set(int(v.Destination), zero.SignExtendedWord(result.Word()))
	h.step()
	return nil
}
