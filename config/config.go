// Package config provides the run configuration for the rvcore CLI.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config represents the emulator run configuration.
type Config struct {
	// Machine settings
	Machine struct {
		XLEN        int    `toml:"xlen"` // 32 or 64
		EnableM     bool   `toml:"enable_m"`
		EnableZicsr bool   `toml:"enable_zicsr"`
		HartID      uint64 `toml:"hart_id"`
	} `toml:"machine"`

	// Execution settings
	Execution struct {
		MaxInstructions uint64 `toml:"max_instructions"`
		Entry           string `toml:"entry"` // flat-binary entry address, decimal or 0x-prefixed hex
		DumpRegisters   bool   `toml:"dump_registers"`
		Verbose         bool   `toml:"verbose"`
	} `toml:"execution"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Machine.XLEN = 64
	cfg.Machine.EnableM = true
	cfg.Machine.EnableZicsr = true
	cfg.Machine.HartID = 0

	cfg.Execution.MaxInstructions = 10_000_000
	cfg.Execution.Entry = "0x0"
	cfg.Execution.DumpRegisters = false
	cfg.Execution.Verbose = false

	return cfg
}

// LoadConfig reads a TOML configuration file, merging it over the
// defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Machine.XLEN != 32 && c.Machine.XLEN != 64 {
		return fmt.Errorf("invalid xlen %d: must be 32 or 64", c.Machine.XLEN)
	}
	return nil
}
