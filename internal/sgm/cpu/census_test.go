package cpu

import "testing"

func TestCensusTransformConstantImageInteriorIsAllOnes(t *testing.T) {
	const w, h = 16, 12
	src := make([]uint8, w*h)
	for i := range src {
		src[i] = 128
	}
	dst := make([]uint32, w*h)
	censusTransform(src, w, h, dst)

	// Every neighbor equals the center (>=), so a pixel whose whole 9x7
	// window lies inside the image gets a 1 for every bit.
	for y := censusWindowHeight / 2; y < h-censusWindowHeight/2; y++ {
		for x := censusWindowWidth / 2; x < w-censusWindowWidth/2; x++ {
			if v := dst[y*w+x]; v != 0xFFFFFFFF {
				t.Fatalf("pixel (%d,%d): expected 0xffffffff descriptor on constant image, got %#x", x, y, v)
			}
		}
	}
}

func TestCensusTransformDeterministic(t *testing.T) {
	const w, h = 20, 15
	src := make([]uint8, w*h)
	for i := range src {
		src[i] = uint8((i*37 + 11) % 256)
	}

	a := make([]uint32, w*h)
	b := make([]uint32, w*h)
	censusTransform(src, w, h, a)
	censusTransform(src, w, h, b)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("pixel %d: nondeterministic descriptor %#x vs %#x", i, a[i], b[i])
		}
	}
}

func TestCensusTransformStepChangesCenterPixel(t *testing.T) {
	const w, h = 9, 7
	src := make([]uint8, w*h)
	for i := range src {
		src[i] = 10
	}
	center := (h/2)*w + w/2
	src[center] = 200

	dst := make([]uint32, w*h)
	censusTransform(src, w, h, dst)

	if dst[center] != 0 {
		t.Errorf("every neighbor of the bright center is dimmer, so its descriptor must be 0, got %#x", dst[center])
	}
	// The pixel left of the bright center sees neighbors that are equal to
	// it or brighter (the center), so its descriptor has 1 bits.
	neighbor := center - 1
	if dst[neighbor] == 0 {
		t.Error("expected a non-zero descriptor next to a bright outlier pixel")
	}
}
