package cpu

import "testing"

func TestMedianFilter3x3BorderPassthrough(t *testing.T) {
	const width, height = 5, 5
	src := make([]uint16, width*height)
	for i := range src {
		src[i] = uint16(i * 3)
	}
	dst := make([]uint16, width*height)
	medianFilter3x3(src, width, height, dst)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				idx := y*width + x
				if dst[idx] != src[idx] {
					t.Errorf("border pixel (%d,%d): expected passthrough %d, got %d", x, y, src[idx], dst[idx])
				}
			}
		}
	}
}

func TestMedianFilter3x3RemovesImpulseNoise(t *testing.T) {
	const width, height = 5, 5
	src := make([]uint16, width*height)
	for i := range src {
		src[i] = 10
	}
	center := 2*width + 2
	src[center] = 9000 // impulse outlier, surrounded by 8 neighbors of value 10

	dst := make([]uint16, width*height)
	medianFilter3x3(src, width, height, dst)

	if dst[center] != 10 {
		t.Errorf("expected impulse noise removed at center, got %d", dst[center])
	}
}

func TestSort9OrdersAscending(t *testing.T) {
	v := [9]uint16{9, 1, 8, 2, 7, 3, 6, 4, 5}
	sort9(&v)
	for i := 0; i < 8; i++ {
		if v[i] > v[i+1] {
			t.Fatalf("sort9 did not produce ascending order: %v", v)
		}
	}
}
