package cpu

// direction is a scanline step vector (dx, dy) with |dx|+|dy| in {1, 2}: the
// four cardinal directions have |dx|+|dy| == 1, the four diagonals have
// |dx|+|dy| == 2. One aggregation driver is parameterized by this pair
// rather than by twelve hand-written direction types.
type direction struct {
	dx, dy int
}

var (
	dirUp        = direction{0, -1}
	dirDown      = direction{0, 1}
	dirLeft      = direction{-1, 0}
	dirRight     = direction{1, 0}
	dirUpLeft    = direction{-1, -1}
	dirUpRight   = direction{1, -1}
	dirDownLeft  = direction{-1, 1}
	dirDownRight = direction{1, 1}
)

// scan4Directions returns the four cardinal aggregation directions.
func scan4Directions() []direction {
	return []direction{dirUp, dirDown, dirLeft, dirRight}
}

// scan8Directions returns the four cardinal directions followed by the four
// diagonals, in the order the aggregated cost volume's sub-buffers are laid
// out.
func scan8Directions() []direction {
	return append(scan4Directions(), dirUpLeft, dirUpRight, dirDownLeft, dirDownRight)
}
