package cpu

import "testing"

func TestAggregateDisparityFlatPathPreservesCost(t *testing.T) {
	const d = 4
	prev := make([]uint16, 8)
	for i := range prev {
		prev[i] = 50
	}
	got := aggregateDisparity(prev, 50, d, 7, 10, 120)
	if got != 7 {
		t.Errorf("aggregating over a flat previous path should just add this step's cost, got %d want 7", got)
	}
}

func TestAggregateDisparityPenalizesJump(t *testing.T) {
	prev := []uint16{0, 30, 30, 30}
	flat := aggregateDisparity(prev, 0, 0, 5, 10, 120)
	jump := aggregateDisparity(prev, 0, 2, 5, 10, 120)
	if jump < flat {
		t.Errorf("a same-cost step at a distant disparity should never beat one at a neighbor-consistent disparity: flat=%d jump=%d", flat, jump)
	}
}

func TestRawCostOutOfBoundsSaturates(t *testing.T) {
	rightFeat := []uint32{1, 2, 3}
	if got := rawCost(0, rightFeat, 0, 0, 3, 5, 0); got != maxRawCost {
		t.Errorf("out-of-bounds right sample should saturate to %d, got %d", maxRawCost, got)
	}
}

func TestAggregatedCostVolumeShapeAndRange(t *testing.T) {
	const width, height, maxDisparity = 12, 10, 16
	leftFeat := make([]uint32, width*height)
	rightFeat := make([]uint32, width*height)
	for i := range leftFeat {
		leftFeat[i] = uint32(i * 7)
		rightFeat[i] = uint32(i * 11)
	}

	dirs := scan8Directions()
	volume := aggregatedCostVolume(leftFeat, rightFeat, width, height, maxDisparity, 0, 10, 120, dirs)

	wantLen := width * height * maxDisparity * len(dirs)
	if len(volume) != wantLen {
		t.Fatalf("expected volume length %d, got %d", wantLen, len(volume))
	}
	// aggregated costs are stored as uint8 by construction; nothing to range-check
	// beyond the type itself, but confirm the buffer isn't left all zero.
	var nonZero bool
	for _, v := range volume {
		if v != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Error("expected a non-degenerate cost volume from varied input features")
	}
}

func TestAggregatedCostVolumeMonotoneInPathCount(t *testing.T) {
	const width, height, maxDisparity = 8, 8, 16
	leftFeat := make([]uint32, width*height)
	rightFeat := make([]uint32, width*height)
	for i := range leftFeat {
		leftFeat[i] = uint32(i*13 + 1)
		rightFeat[i] = uint32(i*17 + 2)
	}

	v4 := aggregatedCostVolume(leftFeat, rightFeat, width, height, maxDisparity, 0, 10, 120, scan4Directions())
	v8 := aggregatedCostVolume(leftFeat, rightFeat, width, height, maxDisparity, 0, 10, 120, scan8Directions())

	if len(v8) != 2*len(v4) {
		t.Fatalf("8-path volume should be exactly twice the length of 4-path, got %d vs %d", len(v8), len(v4))
	}
}
