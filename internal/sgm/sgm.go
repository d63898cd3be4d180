// Package sgm defines the parameter, error, and interface surface shared by
// every Semi-Global Matching pipeline backend.
package sgm

import (
	"context"
	"errors"
	"fmt"
)

// PathType selects how many scanline directions the aggregation stage walks.
type PathType int

const (
	// Scan4Path aggregates along the four cardinal directions.
	Scan4Path PathType = iota
	// Scan8Path adds the four diagonal directions to Scan4Path.
	Scan8Path
)

func (p PathType) String() string {
	switch p {
	case Scan4Path:
		return "SCAN_4PATH"
	case Scan8Path:
		return "SCAN_8PATH"
	default:
		return fmt.Sprintf("PathType(%d)", int(p))
	}
}

// NumPaths returns the number of aggregation directions for this path type.
func (p PathType) NumPaths() int {
	if p == Scan4Path {
		return 4
	}
	return 8
}

// Subpixel fixed-point constants: output values carry SubpixelShift
// fractional bits when subpixel refinement is enabled, i.e. scale = 1<<SubpixelShift.
const (
	SubpixelShift = 4
	SubpixelScale = 1 << SubpixelShift
)

// Parameters configures a pipeline instance. Values are copied at
// construction; mutating a Parameters after the pipeline is built has no
// effect on that instance.
type Parameters struct {
	// P1 penalizes a one-step disparity change between path neighbors.
	P1 int
	// P2 penalizes a larger disparity change; must be >= P1.
	P2 int
	// Uniqueness rejects a pixel when best cost isn't sufficiently below
	// the second-best cost outside its immediate neighborhood. Range (0,1].
	Uniqueness float32
	// Subpixel enables 4-bit fractional disparity via parabolic fit.
	Subpixel bool
	// PathType selects 4-path or 8-path aggregation.
	PathType PathType
	// MinDisp is the minimum searched disparity; output values are offset by it.
	MinDisp int
	// LRMaxDiff bounds the left/right consistency check; negative disables it.
	LRMaxDiff int
	// MaxDisparity is the compile-time disparity cardinality D; must be one
	// of 64, 128, 256.
	MaxDisparity int
}

// DefaultParameters returns the conventional SGM defaults: P1=10, P2=120,
// uniqueness=0.95, 8-path aggregation, min_disp=0, LR_max_diff=1, D=128.
func DefaultParameters() Parameters {
	return Parameters{
		P1:           10,
		P2:           120,
		Uniqueness:   0.95,
		Subpixel:     false,
		PathType:     Scan8Path,
		MinDisp:      0,
		LRMaxDiff:    1,
		MaxDisparity: 128,
	}
}

var (
	// ErrInvalidMaxDisparity is returned when MaxDisparity is not one of 64, 128, 256.
	ErrInvalidMaxDisparity = errors.New("sgm: max disparity must be one of 64, 128, 256")
	// ErrInvalidPathType is returned when PathType is neither Scan4Path nor Scan8Path.
	ErrInvalidPathType = errors.New("sgm: path type must be SCAN_4PATH or SCAN_8PATH")
	// ErrInvalidPenalties is returned when P2 < P1.
	ErrInvalidPenalties = errors.New("sgm: P2 must be >= P1")
	// ErrInvalidUniqueness is returned when uniqueness is outside (0,1].
	ErrInvalidUniqueness = errors.New("sgm: uniqueness must be in (0,1]")
	// ErrDimensionMismatch is returned when an input/output buffer does not
	// match the pipeline's configured width/height/element size.
	ErrDimensionMismatch = errors.New("sgm: buffer dimension mismatch")
)

// Validate checks parameter invariants from section 3 of the specification
// this pipeline implements: MaxDisparity cardinality, PathType cardinality,
// and the P1 <= P2, 0 < uniqueness <= 1 smoothness/rejection constraints.
func (p Parameters) Validate() error {
	switch p.MaxDisparity {
	case 64, 128, 256:
	default:
		return fmt.Errorf("%w: got %d", ErrInvalidMaxDisparity, p.MaxDisparity)
	}
	switch p.PathType {
	case Scan4Path, Scan8Path:
	default:
		return fmt.Errorf("%w: got %v", ErrInvalidPathType, p.PathType)
	}
	if p.P2 < p.P1 {
		return fmt.Errorf("%w: P1=%d P2=%d", ErrInvalidPenalties, p.P1, p.P2)
	}
	if p.Uniqueness <= 0 || p.Uniqueness > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidUniqueness, p.Uniqueness)
	}
	return nil
}

// Scale returns the fixed-point scale applied to output disparities:
// SubpixelScale when subpixel refinement is enabled, 1 otherwise.
func (p Parameters) Scale() int {
	if p.Subpixel {
		return SubpixelScale
	}
	return 1
}

// InvalidDisparity returns the sentinel value a pipeline built with these
// parameters writes for pixels with no valid disparity: (min_disp-1) * scale.
func (p Parameters) InvalidDisparity() uint16 {
	return uint16((p.MinDisp - 1) * p.Scale())
}

// Pipeline runs the Census -> PathAggregation -> WinnerTakesAll ->
// MedianFilter -> ConsistencyCheck -> RangeCorrection chain against a fixed
// (width, height, MaxDisparity) configuration established at construction.
//
// Execute is the sole mutator of a Pipeline's internal buffers and is not
// reentrant: the caller must not invoke Execute concurrently with itself on
// the same Pipeline. dst must have length Width()*Height(); Execute writes
// every element of dst. The OpenCL implementation reuses buffers allocated
// at construction; the CPU implementation allocates its cost volume and
// raw disparity maps on every call.
type Pipeline interface {
	// Execute runs the full pipeline against a rectified 8-bit grayscale
	// stereo pair and writes the resulting disparity map into dst.
	// left and right must each have length Width()*Height().
	Execute(ctx context.Context, left, right []uint8, dst []uint16) error

	// InvalidDisparity returns the sentinel value used for pixels with no
	// valid disparity, (min_disp-1) * (subpixel ? 16 : 1).
	InvalidDisparity() uint16

	// Width returns the configured image width in pixels.
	Width() int
	// Height returns the configured image height in pixels.
	Height() int

	// Close releases every resource owned by the pipeline. The pipeline
	// must not be used afterward.
	Close() error
}

// FinalizeLeftDisparity converts a raw winner-takes-all left disparity
// value (an index in [0, maxDisparity), or maxDisparity-1 as the
// uniqueness-reject sentinel) into final form in place: the min_disp
// offset added, and the raw sentinel replaced by invalidDisp. Both the CPU
// and GPU backends call this between winner-takes-all and the median
// filter so the three stages downstream of it (median, consistency, range
// correction) operate on identical final-form values either way.
func FinalizeLeftDisparity(raw []uint16, maxDisparity, minDispScaled int, invalidDisp uint16) {
	rawSentinel := maxDisparity - 1
	for i, v := range raw {
		if int(v) == rawSentinel {
			raw[i] = invalidDisp
		} else {
			raw[i] = v + uint16(minDispScaled)
		}
	}
}

// CheckContext reports an already-cancelled context at the entry of Execute.
// The pipeline offers no mid-flight cancellation (section 5: uninterruptible
// once issued); this is the only point a context error can surface.
func CheckContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
