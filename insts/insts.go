// Package insts provides RISC-V instruction word decoding.
//
// This package implements the pure half of the pipeline: classifying a
// 32-bit instruction word into one of the base encoding variants (R, I,
// S, B, U, J) plus the CSR-immediate variant (C), and extracting the
// dispatch key the execution engine selects handlers with. Decoding is
// total: any 4-byte input yields a well-formed variant struct. Semantic
// legality is the engine's concern.
//
// Usage:
//
//	word := insts.Word{0x93, 0x00, 0x50, 0x00} // ADDI x1, x0, 5
//	key := insts.DecodeKey(word)
//	v := insts.DecodeI[reg.R32](word)
package insts

// Word is a 4-byte instruction word in the little-endian order it is
// fetched from memory: Word[0] holds instruction bits 7:0.
type Word [4]byte

// Key is the (opcode, funct3, funct7) tuple that selects the semantic
// operation of an instruction.
type Key struct {
	Opcode uint8 // bits 6:0
	Funct3 uint8 // bits 14:12
	Funct7 uint8 // bits 31:25
}

// DecodeKey extracts the dispatch key from an instruction word.
func DecodeKey(w Word) Key {
	return Key{
		Opcode: w[0] & 0x7F,
		Funct3: (w[1] & 0x70) >> 4,
		Funct7: (w[3] & 0xFE) >> 1,
	}
}

// destination extracts the rd field, instruction bits 11:7.
func destination(w Word) uint8 {
	return (w[0] >> 7) | ((w[1] & 0x0F) << 1)
}

// source1 extracts the rs1 field, instruction bits 19:15.
func source1(w Word) uint8 {
	return (w[1] >> 7) | ((w[2] & 0x0F) << 1)
}

// source2 extracts the rs2 field, instruction bits 24:20.
func source2(w Word) uint8 {
	return ((w[2] & 0xF0) >> 4) | ((w[3] & 0x01) << 4)
}
