package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hartlab/rvcore/config"
)

var _ = Describe("Config", func() {
	Describe("DefaultConfig", func() {
		It("should default to RV64 with both extensions", func() {
			cfg := config.DefaultConfig()
			Expect(cfg.Machine.XLEN).To(Equal(64))
			Expect(cfg.Machine.EnableM).To(BeTrue())
			Expect(cfg.Machine.EnableZicsr).To(BeTrue())
			Expect(cfg.Machine.HartID).To(BeZero())
		})

		It("should validate cleanly", func() {
			Expect(config.DefaultConfig().Validate()).To(Succeed())
		})
	})

	Describe("LoadConfig", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "config-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		writeConfig := func(content string) string {
			path := filepath.Join(tempDir, "rvcore.toml")
			Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
			return path
		}

		It("should merge file values over defaults", func() {
			path := writeConfig(`
[machine]
xlen = 32
enable_m = false

[execution]
max_instructions = 1000
entry = "0x8000"
`)
			cfg, err := config.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Machine.XLEN).To(Equal(32))
			Expect(cfg.Machine.EnableM).To(BeFalse())
			Expect(cfg.Machine.EnableZicsr).To(BeTrue()) // untouched default
			Expect(cfg.Execution.MaxInstructions).To(Equal(uint64(1000)))
			Expect(cfg.Execution.Entry).To(Equal("0x8000"))
		})

		It("should reject an invalid register width", func() {
			path := writeConfig(`
[machine]
xlen = 128
`)
			_, err := config.LoadConfig(path)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("xlen"))
		})

		It("should report a missing file", func() {
			_, err := config.LoadConfig(filepath.Join(tempDir, "missing.toml"))
			Expect(err).To(HaveOccurred())
		})

		It("should report a malformed file", func() {
			path := writeConfig(`machine = [`)
			_, err := config.LoadConfig(path)
			Expect(err).To(HaveOccurred())
		})
	})
})
