// Package main provides the entry point for rvcore.
// rvcore is a RISC-V unprivileged hart emulator library with RV32I/RV64I
// base ISAs and the M and Zicsr extensions.
//
// For the full CLI, use: go run ./cmd/rvcore
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rvcore - RISC-V hart emulator")
	fmt.Println("")
	fmt.Println("Usage: rvcore run [options] <program>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  --xlen       Register width, 32 or 64")
	fmt.Println("  --no-ext-m   Disable the M extension")
	fmt.Println("  --no-ext-csr Disable the Zicsr extension")
	fmt.Println("  --config     Path to a TOML configuration file")
	fmt.Println("  -v           Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rvcore' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rvcore' instead.")
	}
}
