package cpu

import (
	"log/slog"
	"math/bits"

	"golang.org/x/sys/cpu"
)

// HammingBackend identifies which population-count kernel the Census cost
// function dispatches to. Unlike the corpus's byte-wise SSD/SAD kernels,
// a 32-bit popcount already lowers to a single hardware POPCNT/CNT
// instruction via the Go compiler's intrinsic recognition of
// math/bits.OnesCount32 on amd64 and arm64, so there is no separate
// hand-written assembly kernel behind this dispatch the way there is for
// the byte-wise cost kernels it is patterned on — only the feature-detection
// shape is reused, to keep the initialization/logging idiom consistent
// across every per-pixel cost kernel in this package.
type HammingBackend int

const (
	HammingBackendPOPCNT HammingBackend = iota
	HammingBackendCNT
	HammingBackendGeneric
)

func (b HammingBackend) String() string {
	switch b {
	case HammingBackendPOPCNT:
		return "POPCNT"
	case HammingBackendCNT:
		return "CNT"
	default:
		return "generic"
	}
}

// ActiveHammingBackend reports which backend was selected at initialization.
var ActiveHammingBackend HammingBackend

func init() {
	switch {
	case cpu.X86.HasPOPCNT:
		ActiveHammingBackend = HammingBackendPOPCNT
		slog.Debug("census cost kernel initialized", "backend", "POPCNT")
	case cpu.ARM64.HasASIMD:
		ActiveHammingBackend = HammingBackendCNT
		slog.Debug("census cost kernel initialized", "backend", "CNT")
	default:
		ActiveHammingBackend = HammingBackendGeneric
		slog.Debug("census cost kernel initialized", "backend", "generic")
	}
}

// hammingCost returns the raw matching cost C(p, d) = popcount(a XOR b)
// between two Census descriptors.
func hammingCost(a, b uint32) uint8 {
	return uint8(bits.OnesCount32(a ^ b))
}
