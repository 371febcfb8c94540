package loader_test

import (
	"encoding/binary"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hartlab/rvcore/loader"
)

var _ = Describe("ELF Loader", func() {
	var tempDir string

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "elf-loader-test")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		_ = os.RemoveAll(tempDir)
	})

	Describe("Load", func() {
		Context("with a valid 64-bit RISC-V ELF binary", func() {
			var elfPath string

			BeforeEach(func() {
				elfPath = filepath.Join(tempDir, "test.elf")
				createRISCVELF64(elfPath, 0x10000, 0x10000, []byte{
					// addi x1, x0, 5; ecall
					0x93, 0x00, 0x50, 0x00,
					0x73, 0x00, 0x00, 0x00,
				})
			})

			It("should load without error", func() {
				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog).NotTo(BeNil())
			})

			It("should extract the entry point and width", func() {
				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.EntryPoint).To(Equal(uint64(0x10000)))
				Expect(prog.XLEN).To(Equal(64))
			})

			It("should load the code segment", func() {
				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.Segments).To(HaveLen(1))
				Expect(prog.Segments[0].VirtAddr).To(Equal(uint64(0x10000)))
				Expect(prog.Segments[0].Data).To(HaveLen(8))
				Expect(prog.Segments[0].Flags & loader.SegmentFlagExecute).NotTo(BeZero())
			})
		})

		Context("with a 32-bit RISC-V ELF binary", func() {
			It("should report a 32-bit width", func() {
				elfPath := filepath.Join(tempDir, "rv32.elf")
				createRISCVELF32(elfPath, 0x8000, []byte{0x93, 0x00, 0x50, 0x00})

				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.XLEN).To(Equal(32))
				Expect(prog.EntryPoint).To(Equal(uint64(0x8000)))
			})
		})

		Context("with an invalid file", func() {
			It("should return an error for a non-existent file", func() {
				_, err := loader.Load(filepath.Join(tempDir, "missing.elf"))
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("failed to open"))
			})

			It("should return an error for a non-ELF file", func() {
				notElfPath := filepath.Join(tempDir, "not-elf.bin")
				Expect(os.WriteFile(notElfPath, []byte("not an elf file"), 0644)).To(Succeed())

				_, err := loader.Load(notElfPath)
				Expect(err).To(HaveOccurred())
			})
		})

		Context("with a non-RISC-V ELF", func() {
			It("should reject an AArch64 binary", func() {
				elfPath := filepath.Join(tempDir, "arm64.elf")
				createELF64WithMachine(elfPath, 183, 0x400000, nil)

				_, err := loader.Load(elfPath)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("not a RISC-V"))
			})
		})

		Context("with a BSS segment", func() {
			It("should report MemSize larger than the file data", func() {
				elfPath := filepath.Join(tempDir, "bss.elf")
				createRISCVELF64BSS(elfPath, 0x20000, []byte{1, 2, 3, 4}, 1024)

				prog, err := loader.Load(elfPath)
				Expect(err).NotTo(HaveOccurred())
				Expect(prog.Segments).To(HaveLen(1))
				Expect(prog.Segments[0].Data).To(HaveLen(4))
				Expect(prog.Segments[0].MemSize).To(Equal(uint64(1024)))
			})
		})
	})
})

const emRISCV = 243

// writeELF64 writes a minimal ELF64 executable with one PT_LOAD segment.
func writeELF64(path string, machine uint16, loadAddr, entryPoint uint64, code []byte, memSize uint64, flags uint32) {
	elfHeader := make([]byte, 64)
	copy(elfHeader[0:4], []byte{0x7f, 'E', 'L', 'F'})
	elfHeader[4] = 2 // 64-bit
	elfHeader[5] = 1 // little endian
	elfHeader[6] = 1 // version
	binary.LittleEndian.PutUint16(elfHeader[16:18], 2) // ET_EXEC
	binary.LittleEndian.PutUint16(elfHeader[18:20], machine)
	binary.LittleEndian.PutUint32(elfHeader[20:24], 1)
	binary.LittleEndian.PutUint64(elfHeader[24:32], entryPoint)
	binary.LittleEndian.PutUint64(elfHeader[32:40], 64) // phoff
	binary.LittleEndian.PutUint16(elfHeader[52:54], 64) // ehsize
	binary.LittleEndian.PutUint16(elfHeader[54:56], 56) // phentsize
	binary.LittleEndian.PutUint16(elfHeader[56:58], 1)  // phnum

	progHeader := make([]byte, 56)
	binary.LittleEndian.PutUint32(progHeader[0:4], 1) // PT_LOAD
	binary.LittleEndian.PutUint32(progHeader[4:8], flags)
	binary.LittleEndian.PutUint64(progHeader[8:16], 120) // file offset
	binary.LittleEndian.PutUint64(progHeader[16:24], loadAddr)
	binary.LittleEndian.PutUint64(progHeader[24:32], loadAddr)
	binary.LittleEndian.PutUint64(progHeader[32:40], uint64(len(code)))
	binary.LittleEndian.PutUint64(progHeader[40:48], memSize)
	binary.LittleEndian.PutUint64(progHeader[48:56], 4) // align

	content := append(elfHeader, progHeader...)
	content = append(content, code...)
	Expect(os.WriteFile(path, content, 0644)).To(Succeed())
}

func createRISCVELF64(path string, loadAddr, entryPoint uint64, code []byte) {
	writeELF64(path, emRISCV, loadAddr, entryPoint, code, uint64(len(code)), 0x5) // R+X
}

func createRISCVELF64BSS(path string, loadAddr uint64, code []byte, memSize uint64) {
	writeELF64(path, emRISCV, loadAddr, loadAddr, code, memSize, 0x6) // R+W
}

func createELF64WithMachine(path string, machine uint16, entryPoint uint64, code []byte) {
	writeELF64(path, machine, entryPoint, entryPoint, code, uint64(len(code)), 0x5)
}

// createRISCVELF32 writes a minimal 32-bit RISC-V ELF executable.
func createRISCVELF32(path string, entryPoint uint32, code []byte) {
	elfHeader := make([]byte, 52)
	copy(elfHeader[0:4], []byte{0x7f, 'E', 'L', 'F'})
	elfHeader[4] = 1 // 32-bit
	elfHeader[5] = 1 // little endian
	elfHeader[6] = 1 // version
	binary.LittleEndian.PutUint16(elfHeader[16:18], 2) // ET_EXEC
	binary.LittleEndian.PutUint16(elfHeader[18:20], emRISCV)
	binary.LittleEndian.PutUint32(elfHeader[20:24], 1)
	binary.LittleEndian.PutUint32(elfHeader[24:28], entryPoint)
	binary.LittleEndian.PutUint32(elfHeader[28:32], 52) // phoff
	binary.LittleEndian.PutUint16(elfHeader[40:42], 52) // ehsize
	binary.LittleEndian.PutUint16(elfHeader[42:44], 32) // phentsize
	binary.LittleEndian.PutUint16(elfHeader[44:46], 1)  // phnum

	progHeader := make([]byte, 32)
	binary.LittleEndian.PutUint32(progHeader[0:4], 1)  // PT_LOAD
	binary.LittleEndian.PutUint32(progHeader[4:8], 84) // file offset
	binary.LittleEndian.PutUint32(progHeader[8:12], entryPoint)
	binary.LittleEndian.PutUint32(progHeader[12:16], entryPoint)
	binary.LittleEndian.PutUint32(progHeader[16:20], uint32(len(code)))
	binary.LittleEndian.PutUint32(progHeader[20:24], uint32(len(code)))
	binary.LittleEndian.PutUint32(progHeader[24:28], 0x5) // flags R+X
	binary.LittleEndian.PutUint32(progHeader[28:32], 4)   // align

	content := append(elfHeader, progHeader...)
	content = append(content, code...)
	Expect(os.WriteFile(path, content, 0644)).To(Succeed())
}
