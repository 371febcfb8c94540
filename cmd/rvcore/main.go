// Package main provides the rvcore command-line interface.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hartlab/rvcore/config"
	"github.com/hartlab/rvcore/emu"
	"github.com/hartlab/rvcore/loader"
	"github.com/hartlab/rvcore/reg"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rvcore",
		Short: "rvcore — RISC-V unprivileged hart emulator",
	}

	var (
		configPath      string
		xlen            int
		disableM        bool
		disableZicsr    bool
		hartID          uint64
		maxInstructions uint64
		entry           string
		flat            bool
		dumpRegisters   bool
		verbose         bool
	)

	runCmd := &cobra.Command{
		Use:   "run <program>",
		Short: "Execute a RISC-V ELF executable or flat binary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if configPath != "" {
				var err error
				cfg, err = config.LoadConfig(configPath)
				if err != nil {
					return err
				}
			}

			// Flags override the configuration file.
			if cmd.Flags().Changed("xlen") {
				cfg.Machine.XLEN = xlen
			}
			if disableM {
				cfg.Machine.EnableM = false
			}
			if disableZicsr {
				cfg.Machine.EnableZicsr = false
			}
			if cmd.Flags().Changed("hart-id") {
				cfg.Machine.HartID = hartID
			}
			if cmd.Flags().Changed("max-instructions") {
				cfg.Execution.MaxInstructions = maxInstructions
			}
			if cmd.Flags().Changed("entry") {
				cfg.Execution.Entry = entry
			}
			if dumpRegisters {
				cfg.Execution.DumpRegisters = true
			}
			if verbose {
				cfg.Execution.Verbose = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			memory := emu.NewSparseMemory()
			var entryPoint uint64

			if flat {
				program, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("failed to read program: %w", err)
				}
				entryPoint, err = parseAddress(cfg.Execution.Entry)
				if err != nil {
					return err
				}
				memory.LoadProgram(entryPoint, program)
			} else {
				prog, err := loader.Load(args[0])
				if err != nil {
					return err
				}
				entryPoint = prog.EntryPoint
				if !cmd.Flags().Changed("xlen") {
					cfg.Machine.XLEN = prog.XLEN
				}
				for _, seg := range prog.Segments {
					memory.LoadProgram(seg.VirtAddr, seg.Data)
				}
			}

			if cfg.Execution.Verbose {
				fmt.Printf("Loaded: %s\n", args[0])
				fmt.Printf("Entry point: 0x%X\n", entryPoint)
				fmt.Printf("RV%dI", cfg.Machine.XLEN)
				if cfg.Machine.EnableM {
					fmt.Printf("+M")
				}
				if cfg.Machine.EnableZicsr {
					fmt.Printf("+Zicsr")
				}
				fmt.Println()
			}

			if cfg.Machine.XLEN == 32 {
				return runHart[reg.R32](memory, entryPoint, cfg)
			}
			return runHart[reg.R64](memory, entryPoint, cfg)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to a TOML configuration file")
	runCmd.Flags().IntVar(&xlen, "xlen", 64, "register width: 32 or 64")
	runCmd.Flags().BoolVar(&disableM, "no-ext-m", false, "disable the M extension")
	runCmd.Flags().BoolVar(&disableZicsr, "no-ext-csr", false, "disable the Zicsr extension")
	runCmd.Flags().Uint64Var(&hartID, "hart-id", 0, "hart ID reported through mhartid")
	runCmd.Flags().Uint64Var(&maxInstructions, "max-instructions", 0, "instruction limit (0 = no limit; the config value applies when omitted)")
	runCmd.Flags().StringVar(&entry, "entry", "0x0", "entry address for flat binaries")
	runCmd.Flags().BoolVar(&flat, "flat", false, "treat the program as a flat binary instead of ELF")
	runCmd.Flags().BoolVar(&dumpRegisters, "dump-regs", false, "print the register file after the run")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runHart builds a hart at the configured width and drives it to
// completion.
func runHart[R reg.Register[R]](memory *emu.SparseMemory, entry uint64, cfg *config.Config) error {
	var opts []emu.Option
	if cfg.Machine.EnableM {
		opts = append(opts, emu.WithM())
	}
	if cfg.Machine.EnableZicsr {
		opts = append(opts, emu.WithZicsr(cfg.Machine.HartID))
	}

	hart := emu.NewHart[R](entry, opts...)
	trap := hart.Run(memory, cfg.Execution.MaxInstructions)

	if trap != nil {
		fmt.Printf("Stopped: %v\n", trap)
	} else if cfg.Execution.Verbose {
		fmt.Printf("Instruction limit reached\n")
	}
	if cfg.Execution.Verbose {
		fmt.Printf("Instructions executed: %d\n", hart.InstructionCount())
	}
	if cfg.Execution.DumpRegisters {
		dumpRegisterFile(hart)
	}
	return nil
}

// dumpRegisterFile prints x0..x31 and the PC.
func dumpRegisterFile[R reg.Register[R]](hart *emu.Hart[R]) {
	var zero R
	digits := int(zero.Width()) / 4
	for i := 0; i < 32; i++ {
		fmt.Printf("x%-2d = 0x%0*x", i, digits, hart.Get(i).Unsigned())
		if i%4 == 3 {
			fmt.Println()
		} else {
			fmt.Print("  ")
		}
	}
	fmt.Printf("pc  = 0x%0*x\n", digits, hart.PC().Unsigned())
}

// parseAddress parses a decimal or 0x-prefixed hexadecimal address.
func parseAddress(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	addr, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid entry address %q: %w", s, err)
	}
	return addr, nil
}
