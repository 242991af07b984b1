// Package cpufeat answers whether the running CPU can be trusted with
// single-instruction bit scans. Callers use it once at init to pick
// between hardware-backed math/bits paths and the de Bruijn fallback.
package cpufeat

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// HasFastBitScan reports whether counting leading/trailing zeros
// compiles to a constant-latency instruction on this target.
//
// On x86 the plain BSF/BSR forms have undefined results for zero
// inputs and data-dependent latency on older microarchitectures, so we
// require LZCNT or BMI1 (TZCNT). arm64 and riscv64 have native
// count-zeros instructions that math/bits lowers to directly.
func HasFastBitScan() bool {
	switch runtime.GOARCH {
	case "amd64", "386":
		return cpuid.CPU.Supports(cpuid.LZCNT) || cpuid.CPU.Supports(cpuid.BMI1)
	default:
		return true
	}
}
