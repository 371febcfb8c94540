// Package emu provides functional RISC-V hart emulation.
package emu

import (
	"github.com/hartlab/rvcore/insts"
	"github.com/hartlab/rvcore/reg"
)

// Library version reported through the mimpid CSR.
const (
	versionMajor = 0
	versionMinor = 1
	versionPatch = 0
)

// Machine-mode CSR addresses.
const (
	csrMisa       = 0x301
	csrMedeleg    = 0x302
	csrMideleg    = 0x303
	csrMie        = 0x304
	csrMtvec      = 0x305
	csrMcounteren = 0x306
	csrMscratch   = 0x340
	csrMepc       = 0x341
	csrMcause     = 0x342
	csrMtval      = 0x343
	csrMip        = 0x344
	csrMcycle     = 0xB00
	csrMinstret   = 0xB02
	csrMcycleh    = 0xB80
	csrMinstreth  = 0xB82
	csrMvendorid  = 0xF11
	csrMarchid    = 0xF12
	csrMimpid     = 0xF13
	csrMhartid    = 0xF14
)

// wpriMask marks the reserved bits of mie and mip. Writes must keep
// these bits hardwired to zero.
const wpriMask = 0x0000F444

// CSRFile is the machine-mode CSR storage a hart must provide for the
// Zicsr extension. CSRs that need no storage (misa, the identity
// registers, the unused counters) are synthesized on read.
type CSRFile[R reg.Register[R]] struct {
	// mhartid is the read-only ID of this hart.
	mhartid R
	// mtvec is the trap vector base address plus mode bits.
	mtvec R
	// medeleg and mideleg delegate exceptions and interrupts.
	medeleg R
	mideleg R
	// mie and mip are the interrupt-enable and interrupt-pending bits.
	mie R
	mip R
	// mcycle counts executed cycles. It is 64 bits regardless of XLEN;
	// minstret reads the same counter since nothing is speculated.
	mcycle reg.R64
	// mcounteren gates counter access from lower privilege modes.
	mcounteren reg.R32
	// mscratch is a scratch register dedicated to machine mode.
	mscratch R
	// mepc, mcause, and mtval record the most recent trap.
	mepc   R
	mcause R
	mtval  R
}

// newCSRFile creates CSR storage with mtvec pointing at trapAddress.
func newCSRFile[R reg.Register[R]](hartID uint64, trapAddress R) *CSRFile[R] {
	var zero R
	return &CSRFile[R]{
		mhartid: zero.FromUnsigned(hartID),
		mtvec:   trapAddress,
	}
}

// misa encodes the extension set and MXLEN: bit 8 for the base integer
// ISA, bit 12 for M when enabled, and the width code in the top two
// bits (1 for 32, 2 for 64).
func (c *CSRFile[R]) misa(extM bool) R {
	var zero R
	value := uint64(1) << 8
	if extM {
		value |= 1 << 12
	}
	switch zero.Width() {
	case reg.Bits32:
		value |= 1 << 30
	case reg.Bits64:
		value |= 2 << 62
	}
	return zero.FromUnsigned(value)
}

// get reads a CSR. It reports false for undefined addresses, which the
// engine turns into an illegal-instruction trap.
func (c *CSRFile[R]) get(index uint16, extM bool) (R, bool) {
	var zero R
	rv32 := zero.Width() == reg.Bits32

	switch {
	case index == csrMisa:
		return c.misa(extM), true
	case index == csrMedeleg:
		return c.medeleg, true
	case index == csrMideleg:
		return c.mideleg, true
	case index == csrMie:
		return c.mie, true
	case index == csrMtvec:
		return c.mtvec, true
	case index == csrMcounteren:
		return zero.ZeroExtendedWord(c.mcounteren.Word()), true
	case index == csrMscratch:
		return c.mscratch, true
	case index == csrMepc:
		return c.mepc, true
	case index == csrMcause:
		return c.mcause, true
	case index == csrMtval:
		return c.mtval, true
	case index == csrMip:
		return c.mip, true
	case index == csrMcycle || index == csrMinstret:
		if rv32 {
			return zero.ZeroExtendedWord(c.mcycle.Word()), true
		}
		return zero.ZeroExtendedDouble(c.mcycle.Double()), true
	case (index == csrMcycleh || index == csrMinstreth) && rv32:
		d := c.mcycle.Double()
		return zero.ZeroExtendedWord([4]byte{d[4], d[5], d[6], d[7]}), true
	case index >= 0xB03 && index <= 0xB1F:
		// Unused performance counters.
		return zero, true
	case index >= 0xB23 && index <= 0xB3F:
		// Unused performance event selectors.
		return zero, true
	case index >= 0xB83 && index <= 0xB9F && rv32:
		return zero, true
	case index == csrMvendorid || index == csrMarchid:
		return zero, true
	case index == csrMimpid:
		return zero.ZeroExtendedWord([4]byte{versionPatch, versionMinor, versionMajor, 0}), true
	case index == csrMhartid:
		return c.mhartid, true
	default:
		return zero, false
	}
}

// set writes a CSR. Read-only and undefined addresses are ignored; mie
// and mip writes keep their WPRI bits hardwired to zero.
func (c *CSRFile[R]) set(index uint16, value R) {
	var zero R
	switch index {
	case csrMedeleg:
		c.medeleg = value
	case csrMideleg:
		c.mideleg = value
	case csrMie:
		c.mie = value.And(zero.FromUnsigned(^uint64(wpriMask)))
	case csrMtvec:
		c.mtvec = value
	case csrMcounteren:
		c.mcounteren = reg.R32(value.Word())
	case csrMscratch:
		c.mscratch = value
	case csrMepc:
		c.mepc = value
	case csrMcause:
		c.mcause = value
	case csrMtval:
		c.mtval = value
	case csrMip:
		c.mip = value.And(zero.FromUnsigned(^uint64(wpriMask)))
	}
}

// trapTarget computes the PC a trap redirects to. Mode 0 (direct) jumps
// to the vector base; mode 1 (vectored) adds 4*cause. The reserved
// modes behave as direct.
func trapTarget[R reg.Register[R]](vec R, cause uint8) R {
	var zero R
	base := vec.Unsigned() &^ 0x3
	if vec.Unsigned()&0x3 == 1 {
		base += 4 * uint64(cause)
	}
	return zero.FromUnsigned(base)
}

// executeSystem handles the SYSTEM opcode: ECALL, EBREAK, and the Zicsr
// instructions.
func (h *Hart[R]) executeSystem(w insts.Word, key insts.Key) *Trap {
	switch key.Funct3 {
	case 0b000:
		// funct12 distinguishes ECALL from EBREAK via instruction bit 20.
		if w[2]&0x10 != 0 {
			return h.raise(TrapBreakpoint)
		}
		return h.raise(TrapSystemCall)
	case 0b001, 0b010, 0b011, 0b101, 0b110, 0b111:
		if h.csr == nil {
			return h.raise(TrapIllegalInstruction)
		}
		return h.executeCSR(w, key)
	default:
		return h.raise(TrapIllegalInstruction)
	}
}

// executeCSR handles CSRRW/S/C and their immediate forms. The read and
// write halves happen atomically within the step. Per the ISA, CSRRW
// skips the read side-effect when rd is x0, and CSRRS/CSRRC skip the
// write side-effect when the source is x0 (or the immediate is zero),
// which keeps read-only CSRs readable.
func (h *Hart[R]) executeCSR(w insts.Word, key insts.Key) *Trap {
	var zero R
	v := insts.DecodeC(w)

	switch key.Funct3 {
	case 0b001, 0b101: // CSRRW / CSRRWI
		src := h.Get(int(v.Source))
		if key.Funct3 == 0b101 {
			src = zero.ZeroExtendedByte(v.Source)
		}
		if v.Destination != 0 {
			old, ok := h.csr.get(v.CSR, h.extM)
			if !ok {
				return h.raise(TrapIllegalInstruction)
			}
			h.csr.set(v.CSR, src)
			h.Set(int(v.Destination), old)
		} else {
			h.csr.set(v.CSR, src)
		}

	case 0b010, 0b110: // CSRRS / CSRRSI
		old, ok := h.csr.get(v.CSR, h.extM)
		if !ok {
			return h.raise(TrapIllegalInstruction)
		}
		if v.Source != 0 {
			mask := h.Get(int(v.Source))
			if key.Funct3 == 0b110 {
				mask = zero.ZeroExtendedByte(v.Source)
			}
			h.csr.set(v.CSR, old.Or(mask))
		}
		h.Set(int(v.Destination), old)

	case 0b011, 0b111: // CSRRC / CSRRCI
		old, ok := h.csr.get(v.CSR, h.extM)
		if !ok {
			return h.raise(TrapIllegalInstruction)
		}
		if v.Source != 0 {
			mask := h.Get(int(v.Source))
			if key.Funct3 == 0b111 {
				mask = zero.ZeroExtendedByte(v.Source)
			}
			h.csr.set(v.CSR, old.And(mask.Not()))
		}
		h.Set(int(v.Destination), old)
	}

	h.step()
	return nil
}
