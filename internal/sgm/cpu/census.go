package cpu

// Census transform window geometry, matching the GPU kernel's launch
// constants (census.cl) even though the CPU reference walks every pixel
// directly rather than tiling into BLOCK_SIZE/LINES_PER_BLOCK work-groups.
const (
	censusWindowWidth  = 9
	censusWindowHeight = 7
)

// censusTransform computes a 32-bit Census descriptor per pixel: every
// sample in a 9x7 window centered on (x, y), except the center itself, is
// compared in raster order and shifted in as one bit, set if that sample is
// >= the center sample. The window has 62 such samples, so only the last 32
// comparisons (the lower part of the window) remain in the descriptor; the
// earlier ones are shifted out. Samples that fall outside the image
// contribute a 0 bit, matching the kernel's border behavior.
func censusTransform(src []uint8, width, height int, dst []uint32) {
	const halfW = censusWindowWidth / 2
	const halfH = censusWindowHeight / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			center := src[y*width+x]
			var bits uint32
			for wy := -halfH; wy <= halfH; wy++ {
				sy := y + wy
				for wx := -halfW; wx <= halfW; wx++ {
					if wx == 0 && wy == 0 {
						continue
					}
					bits <<= 1
					sx := x + wx
					if sx < 0 || sx >= width || sy < 0 || sy >= height {
						continue
					}
					if src[sy*width+sx] >= center {
						bits |= 1
					}
				}
			}
			dst[y*width+x] = bits
		}
	}
}
