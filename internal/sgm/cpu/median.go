package cpu

// medianFilter3x3 applies a 3x3 median filter to a width*height disparity
// map, writing into dst (which must not alias src). Pixels on the border
// (no full 3x3 neighborhood) pass their own value through unchanged,
// matching the GPU median3x3 kernel.
func medianFilter3x3(src []uint16, width, height int, dst []uint16) {
	var window [9]uint16

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				dst[idx] = src[idx]
				continue
			}

			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					window[n] = src[(y+dy)*width+(x+dx)]
					n++
				}
			}
			sort9(&window)
			dst[idx] = window[4]
		}
	}
}

// sort9 selection-sorts a fixed 9-element window in place, matching the
// GPU kernel's sort9 helper closely enough that both converge on the same
// median for any input.
func sort9(v *[9]uint16) {
	for i := 0; i < 8; i++ {
		minIdx := i
		for j := i + 1; j < 9; j++ {
			if v[j] < v[minIdx] {
				minIdx = j
			}
		}
		v[i], v[minIdx] = v[minIdx], v[i]
	}
}
