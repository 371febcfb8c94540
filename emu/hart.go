// Package emu provides functional RISC-V hart emulation.
package emu

import (
	"github.com/hartlab/rvcore/insts"
	"github.com/hartlab/rvcore/reg"
)

// RISC-V major opcodes, instruction bits 6:0.
const (
	opcodeLoad    = 0b0000011
	opcodeOpImm   = 0b0010011
	opcodeAuipc   = 0b0010111
	opcodeOpImm32 = 0b0011011
	opcodeStore   = 0b0100011
	opcodeOp      = 0b0110011
	opcodeLui     = 0b0110111
	opcodeOp32    = 0b0111011
	opcodeBranch  = 0b1100011
	opcodeJalr    = 0b1100111
	opcodeJal     = 0b1101111
	opcodeSystem  = 0b1110011
)

// Hart is a single RISC-V hardware thread: 32 general-purpose registers,
// a program counter, and (with the Zicsr extension) a CSR file. The type
// parameter selects the register width, so RV32 and RV64 harts are
// distinct monomorphized engines.
//
// Register 0 always reads as zero; writes to it are silently discarded.
type Hart[R reg.Register[R]] struct {
	regs [32]R
	pc   R

	// csr is nil unless the Zicsr extension is enabled.
	csr *CSRFile[R]

	// extM enables the integer multiply/divide instructions.
	extM bool

	instructionCount uint64
}

// features collects the extension toggles applied by options.
type features struct {
	m      bool
	zicsr  bool
	hartID uint64
}

// Option configures a hart at construction time.
type Option func(*features)

// WithM enables the M extension (integer multiplication and division).
func WithM() Option {
	return func(f *features) { f.m = true }
}

// WithZicsr enables the Zicsr extension with the given hart ID. Hart IDs
// must be unique, and a system must contain a hart with ID 0. With Zicsr
// enabled the hart consumes its own traps through mtvec instead of
// surfacing them from Execute.
func WithZicsr(hartID uint64) Option {
	return func(f *features) {
		f.zicsr = true
		f.hartID = hartID
	}
}

// NewHart creates a hart that begins execution at entry, which must be
// 4-byte aligned. With WithZicsr, mtvec is initialized to entry.
func NewHart[R reg.Register[R]](entry uint64, opts ...Option) *Hart[R] {
	var f features
	for _, opt := range opts {
		opt(&f)
	}

	var zero R
	h := &Hart[R]{
		pc:   zero.FromUnsigned(entry),
		extM: f.m,
	}
	if f.zicsr {
		h.csr = newCSRFile[R](f.hartID, h.pc)
	}
	return h
}

// PC returns the program counter.
func (h *Hart[R]) PC() R {
	return h.pc
}

// Get returns register x{index}. index must be in 0..31.
func (h *Hart[R]) Get(index int) R {
	return h.regs[index]
}

// Set writes register x{index}. Writes to x0 are discarded. index must
// be in 0..31.
func (h *Hart[R]) Set(index int, value R) {
	if index > 0 {
		h.regs[index] = value
	}
}

// InstructionCount returns the number of executed steps, independent of
// the Zicsr mcycle counter.
func (h *Hart[R]) InstructionCount() uint64 {
	return h.instructionCount
}

// CSR reads a CSR by its 12-bit index. It reports false when the Zicsr
// extension is disabled or the index is undefined.
func (h *Hart[R]) CSR(index uint16) (R, bool) {
	var zero R
	if h.csr == nil {
		return zero, false
	}
	return h.csr.get(index, h.extM)
}

// SetCSR writes a CSR by its 12-bit index, applying the same access and
// WPRI rules as the CSR instructions. It is a no-op when Zicsr is
// disabled or the index is read-only.
func (h *Hart[R]) SetCSR(index uint16, value R) {
	if h.csr != nil {
		h.csr.set(index, value)
	}
}

// step advances the program counter by the instruction size.
func (h *Hart[R]) step() {
	var zero R
	h.pc = h.pc.AddUnsigned(zero.ZeroExtendedByte(4))
}

// raise dispatches a trap. Without Zicsr it surfaces to the host as the
// step result. With Zicsr the hart consumes it: mepc records the
// trapped instruction, mcause the cause, mtval the faulting address
// where one is defined, and the PC is redirected through mtvec.
func (h *Hart[R]) raise(kind TrapKind) *Trap {
	if h.csr == nil {
		return &Trap{Kind: kind, PC: h.pc.Unsigned()}
	}

	var zero R
	cause := kind.cause()
	h.csr.mepc = h.pc
	h.csr.mcause = zero.TrapCause(cause, false)
	switch kind {
	case TrapInstructionMisaligned, TrapBreakpoint:
		h.csr.mtval = h.pc
	default:
		h.csr.mtval = zero
	}
	h.pc = trapTarget(h.csr.mtvec, cause)
	return nil
}

// Execute performs exactly one architectural step against mem: fetch the
// word at the PC, select the handler by (opcode, funct3, funct7), apply
// it, and update the PC. The returned trap is nil on success and, with
// Zicsr enabled, always nil (traps are internalized).
func (h *Hart[R]) Execute(mem Memory) *Trap {
	if h.pc.Unsigned()%4 != 0 {
		return h.raise(TrapInstructionMisaligned)
	}

	w := fetchWord(mem, h.pc)
	key := insts.DecodeKey(w)

	// One instruction per step and no speculation, so the cycle counter
	// doubles as minstret.
	if h.csr != nil {
		var one reg.R64
		h.csr.mcycle = h.csr.mcycle.AddUnsigned(one.ZeroExtendedByte(1))
	}
	h.instructionCount++

	switch key.Opcode {
	case opcodeOp:
		return h.executeOp(w, key)
	case opcodeOp32:
		return h.executeOp32(w, key)
	case opcodeOpImm:
		return h.executeOpImm(w, key)
	case opcodeOpImm32:
		return h.executeOpImm32(w, key)
	case opcodeLui:
		v := insts.DecodeU[R](w)
		h.Set(int(v.Destination), v.Immediate)
		h.step()
		return nil
	case opcodeAuipc:
		v := insts.DecodeU[R](w)
		h.Set(int(v.Destination), h.pc.AddSigned(v.Immediate))
		h.step()
		return nil
	case opcodeLoad:
		return h.executeLoad(w, key, mem)
	case opcodeStore:
		return h.executeStore(w, key, mem)
	case opcodeBranch:
		return h.executeBranch(w, key)
	case opcodeJal:
		return h.executeJal(w)
	case opcodeJalr:
		return h.executeJalr(w, key)
	case opcodeSystem:
		return h.executeSystem(w, key)
	default:
		return h.raise(TrapIllegalInstruction)
	}
}

// Run executes steps until a trap surfaces to the host or the
// instruction limit is reached. A limit of 0 means no limit. With Zicsr
// enabled traps never surface, so only the limit terminates the loop.
func (h *Hart[R]) Run(mem Memory, maxInstructions uint64) *Trap {
	for executed := uint64(0); maxInstructions == 0 || executed < maxInstructions; executed++ {
		if trap := h.Execute(mem); trap != nil {
			return trap
		}
	}
	return nil
}

// boolReg materializes a comparison result as 1 or 0.
func boolReg[R reg.Register[R]](b bool) R {
	var zero R
	if b {
		return zero.ZeroExtendedByte(1)
	}
	return zero
}
