package cpu

import "testing"

func TestCorrectDisparityRangeClampsBelowMin(t *testing.T) {
	disp := []uint16{0, 5, 10, 15}
	const invalid = 999
	correctDisparityRange(disp, 10, invalid)

	want := []uint16{invalid, invalid, 10, 15}
	for i, v := range disp {
		if v != want[i] {
			t.Errorf("index %d: got %d, want %d", i, v, want[i])
		}
	}
}

func TestCorrectDisparityRangeNoopWhenThresholdZero(t *testing.T) {
	disp := []uint16{0, 1, 2, 3}
	want := append([]uint16(nil), disp...)
	correctDisparityRange(disp, 0, 999)
	for i, v := range disp {
		if v != want[i] {
			t.Errorf("index %d: expected unchanged %d, got %d", i, want[i], v)
		}
	}
}
