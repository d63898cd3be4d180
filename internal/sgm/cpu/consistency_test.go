package cpu

import "testing"

func TestCheckConsistencyDisabledWhenNegative(t *testing.T) {
	left := []uint16{5, 5, 5}
	right := []uint16{0, 0, 0}
	want := []uint16{5, 5, 5}

	checkConsistency(left, right, 3, 1, false, -1, 999)
	for i, v := range left {
		if v != want[i] {
			t.Errorf("pixel %d: expected passthrough %d with check disabled, got %d", i, want[i], v)
		}
	}
}

func TestCheckConsistencyInvalidatesDisagreement(t *testing.T) {
	const width = 5
	left := []uint16{0, 2, 0, 0, 0}
	right := []uint16{0, 0, 0, 0, 0}
	const invalid = 999

	checkConsistency(left, right, width, 1, false, 0, invalid)

	if left[0] != 0 {
		t.Errorf("pixel 0 (d_l=0, rx=0, d_r=0) agrees and should survive, got %d", left[0])
	}
	if left[1] != invalid {
		t.Errorf("pixel 1 (d_l=2, rx=-1 out of range) should be invalidated, got %d", left[1])
	}
}

func TestCheckConsistencyAgreesWithinTolerance(t *testing.T) {
	const width = 4
	left := []uint16{1, 1, 1, 1}
	right := []uint16{0, 0, 0, 0}
	const invalid = 999

	// d_l=1 at x, rx=x-1; right[rx]=0, |1-0|=1 <= lrMaxDiff(1) so it survives.
	checkConsistency(left, right, width, 1, false, 1, invalid)
	for i, v := range left {
		if i == 0 {
			continue // rx out of range at x=0, invalidated regardless of tolerance
		}
		if v == invalid {
			t.Errorf("pixel %d: expected to survive within tolerance, got invalidated", i)
		}
	}
}

func TestCheckConsistencySubpixelShiftsBeforeCompare(t *testing.T) {
	const width = 4
	// d_l stored subpixel-scaled: raw disparity 1 becomes 1<<subpixelShift.
	left := []uint16{0, 1 << subpixelShift, 0, 0}
	right := []uint16{0, 0, 0, 0}
	const invalid = 999

	checkConsistency(left, right, width, 1, true, 1, invalid)
	if left[1] != 1<<subpixelShift {
		t.Errorf("expected pixel 1 to survive once subpixel shift recovers raw disparity 1, got %d", left[1])
	}
}
