// Package emu provides functional RISC-V hart emulation.
package emu

import (
	"encoding/binary"

	"github.com/hartlab/rvcore/insts"
	"github.com/hartlab/rvcore/reg"
)

// Memory is the byte-addressable memory abstraction the host supplies.
// The hart borrows it for the duration of a single Execute call and
// interprets multi-byte values in little-endian order: the low-address
// byte is the least-significant byte. Accesses never fault at this
// boundary; address-dependent behavior is the implementation's affair.
type Memory interface {
	// Get reads one byte.
	Get(addr uint64) byte
	// Set writes one byte.
	Set(addr uint64, value byte)
}

// Fetcher is optionally implemented by a Memory to override instruction
// fetch. Without it, the hart reads four consecutive bytes at the PC.
type Fetcher interface {
	Fetch(pc uint64) [4]byte
}

// fetchWord reads the instruction word at pc, preferring the memory's
// own Fetch implementation.
func fetchWord[R reg.Register[R]](mem Memory, pc R) insts.Word {
	if f, ok := mem.(Fetcher); ok {
		return insts.Word(f.Fetch(pc.Unsigned()))
	}
	return insts.Word{
		mem.Get(pc.Unsigned()),
		mem.Get(pc.Append(1)),
		mem.Get(pc.Append(2)),
		mem.Get(pc.Append(3)),
	}
}

const pageSize = 4096

// SparseMemory is a page-granular reference Memory implementation.
// Unbacked addresses read as zero; pages are allocated on first write.
// It suits programs loaded at arbitrary virtual addresses without
// reserving the whole address space.
type SparseMemory struct {
	pages map[uint64]*[pageSize]byte
}

// NewSparseMemory creates an empty sparse memory.
func NewSparseMemory() *SparseMemory {
	return &SparseMemory{pages: make(map[uint64]*[pageSize]byte)}
}

// Get reads one byte. Unbacked addresses return zero.
func (m *SparseMemory) Get(addr uint64) byte {
	p := m.pages[addr/pageSize]
	if p == nil {
		return 0
	}
	return p[addr%pageSize]
}

// Set writes one byte, allocating the backing page if needed.
func (m *SparseMemory) Set(addr uint64, value byte) {
	index := addr / pageSize
	p := m.pages[index]
	if p == nil {
		p = new([pageSize]byte)
		m.pages[index] = p
	}
	p[addr%pageSize] = value
}

// Read32 reads a little-endian 32-bit value.
func (m *SparseMemory) Read32(addr uint64) uint32 {
	var b [4]byte
	for i := range b {
		b[i] = m.Get(addr + uint64(i))
	}
	return binary.LittleEndian.Uint32(b[:])
}

// Write32 writes a little-endian 32-bit value.
func (m *SparseMemory) Write32(addr uint64, value uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], value)
	for i := range b {
		m.Set(addr+uint64(i), b[i])
	}
}

// Read64 reads a little-endian 64-bit value.
func (m *SparseMemory) Read64(addr uint64) uint64 {
	var b [8]byte
	for i := range b {
		b[i] = m.Get(addr + uint64(i))
	}
	return binary.LittleEndian.Uint64(b[:])
}

// Write64 writes a little-endian 64-bit value.
func (m *SparseMemory) Write64(addr uint64, value uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], value)
	for i := range b {
		m.Set(addr+uint64(i), b[i])
	}
}

// LoadProgram copies program into memory starting at addr.
func (m *SparseMemory) LoadProgram(addr uint64, program []byte) {
	for i, b := range program {
		m.Set(addr+uint64(i), b)
	}
}
