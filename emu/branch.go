// Package emu provides functional RISC-V hart emulation.
package emu

import "github.com/hartlab/rvcore/insts"

// executeBranch handles the conditional branches. A taken branch adds
// the sign-extended offset to the PC; otherwise the PC advances by 4.
func (h *Hart[R]) executeBranch(w insts.Word, key insts.Key) *Trap {
	v := insts.DecodeB[R](w)
	rs1 := h.Get(int(v.Source1))
	rs2 := h.Get(int(v.Source2))

	var taken bool
	switch key.Funct3 {
	case 0b000: // BEQ
		taken = rs1.Eq(rs2)
	case 0b001: // BNE
		taken = rs1.Neq(rs2)
	case 0b100: // BLT
		taken = rs1.LtSigned(rs2)
	case 0b101: // BGE
		taken = rs1.GteSigned(rs2)
	case 0b110: // BLTU
		taken = rs1.LtUnsigned(rs2)
	case 0b111: // BGEU
		taken = rs1.GteUnsigned(rs2)
	default:
		return h.raise(TrapIllegalInstruction)
	}

	if taken {
		h.pc = h.pc.AddSigned(v.Immediate)
	} else {
		h.step()
	}
	return nil
}

// executeJal handles JAL: link pc+4 into rd, then jump by the
// sign-extended 21-bit offset.
func (h *Hart[R]) executeJal(w insts.Word) *Trap {
	var zero R
	v := insts.DecodeJ[R](w)
	h.Set(int(v.Destination), h.pc.AddUnsigned(zero.ZeroExtendedByte(4)))
	h.pc = h.pc.AddSigned(v.Immediate)
	return nil
}

// executeJalr handles JALR. The target is computed before the link
// register is written so that `jalr x1, x1, 0` uses the old x1, and its
// least significant bit is masked to zero.
func (h *Hart[R]) executeJalr(w insts.Word, key insts.Key) *Trap {
	if key.Funct3 != 0b000 {
		return h.raise(TrapIllegalInstruction)
	}

	var zero R
	v := insts.DecodeI[R](w)
	target := h.Get(int(v.Source)).AddSigned(v.Immediate)
	target = zero.FromUnsigned(target.Unsigned() &^ 1)
	h.Set(int(v.Destination), h.pc.AddUnsigned(zero.ZeroExtendedByte(4)))
	h.pc = target
	return nil
}
