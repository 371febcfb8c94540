// Package emu provides functional RISC-V hart emulation.
package emu

import (
	"github.com/hartlab/rvcore/insts"
	"github.com/hartlab/rvcore/reg"
)

// loadHalf reads two consecutive bytes starting at addr.
func loadHalf[R reg.Register[R]](mem Memory, addr R) [2]byte {
	return [2]byte{
		mem.Get(addr.Unsigned()),
		mem.Get(addr.Append(1)),
	}
}

// loadWord reads four consecutive bytes starting at addr.
func loadWord[R reg.Register[R]](mem Memory, addr R) [4]byte {
	return [4]byte{
		mem.Get(addr.Unsigned()),
		mem.Get(addr.Append(1)),
		mem.Get(addr.Append(2)),
		mem.Get(addr.Append(3)),
	}
}

// loadDouble reads eight consecutive bytes starting at addr.
func loadDouble[R reg.Register[R]](mem Memory, addr R) [8]byte {
	var d [8]byte
	for i := range d {
		d[i] = mem.Get(addr.Append(uint64(i)))
	}
	return d
}

// executeLoad handles the LOAD opcode. The effective address is
// rs1 + sign-extended immediate; sign-extending loads widen signed,
// zero-extending loads widen unsigned.
func (h *Hart[R]) executeLoad(w insts.Word, key insts.Key, mem Memory) *Trap {
	var zero R
	v := insts.DecodeI[R](w)
	addr := h.Get(int(v.Source)).AddSigned(v.Immediate)

	var result R
	switch key.Funct3 {
	case 0b000: // LB
		result = zero.SignExtendedByte(mem.Get(addr.Unsigned()))
	case 0b100: // LBU
		result = zero.ZeroExtendedByte(mem.Get(addr.Unsigned()))
	case 0b001: // LH
		result = zero.SignExtendedHalf(loadHalf(mem, addr))
	case 0b101: // LHU
		result = zero.ZeroExtendedHalf(loadHalf(mem, addr))
	case 0b010: // LW
		result = zero.SignExtendedWord(loadWord(mem, addr))
	case 0b110: // LWU
		if zero.Width() == reg.Bits32 {
			return h.raise(TrapIllegalInstruction)
		}
		result = zero.ZeroExtendedWord(loadWord(mem, addr))
	case 0b011: // LD
		if zero.Width() == reg.Bits32 {
			return h.raise(TrapIllegalInstruction)
		}
		result = zero.SignExtendedDouble(loadDouble(mem, addr))
	default:
		return h.raise(TrapIllegalInstruction)
	}

	h.Set(int(v.Destination), result)
	h.step()
	return nil
}

// executeStore handles the STORE opcode, writing the low bytes of rs2 at
// rs1 + sign-extended immediate in little-endian order.
func (h *Hart[R]) executeStore(w insts.Word, key insts.Key, mem Memory) *Trap {
	var zero R
	v := insts.DecodeS[R](w)
	addr := h.Get(int(v.Source1)).AddSigned(v.Immediate)
	value := h.Get(int(v.Source2))

	switch key.Funct3 {
	case 0b000: // SB
		mem.Set(addr.Unsigned(), value.Byte())
	case 0b001: // SH
		half := value.Half()
		mem.Set(addr.Unsigned(), half[0])
		mem.Set(addr.Append(1), half[1])
	case 0b010: // SW
		word := value.Word()
		for i, b := range word {
			mem.Set(addr.Append(uint64(i)), b)
		}
	case 0b011: // SD
		if zero.Width() == reg.Bits32 {
			return h.raise(TrapIllegalInstruction)
		}
		double := value.Double()
		for i, b := range double {
			mem.Set(addr.Append(uint64(i)), b)
		}
	default:
		return h.raise(TrapIllegalInstruction)
	}

	h.step()
	return nil
}
