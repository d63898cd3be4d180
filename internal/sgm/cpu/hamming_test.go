package cpu

import "testing"

func TestHammingCost(t *testing.T) {
	cases := []struct {
		name string
		a, b uint32
		want uint8
	}{
		{"identical", 0xDEADBEEF, 0xDEADBEEF, 0},
		{"one bit", 0b0001, 0b0000, 1},
		{"all bits", 0xFFFFFFFF, 0x00000000, 32},
		{"disjoint halves", 0x0000FFFF, 0xFFFF0000, 32},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := hammingCost(c.a, c.b); got != c.want {
				t.Errorf("hammingCost(%#x, %#x) = %d, want %d", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestHammingCostSymmetric(t *testing.T) {
	a, b := uint32(0x12345678), uint32(0x87654321)
	if hammingCost(a, b) != hammingCost(b, a) {
		t.Error("hammingCost should be symmetric in its arguments")
	}
}

func TestActiveHammingBackendSelected(t *testing.T) {
	switch ActiveHammingBackend {
	case HammingBackendPOPCNT, HammingBackendCNT, HammingBackendGeneric:
	default:
		t.Errorf("unexpected HammingBackend value %v", ActiveHammingBackend)
	}
}
