// Package cpu implements the reference Semi-Global Matching pipeline
// entirely in Go: the same Census / path-aggregation / winner-takes-all /
// median / consistency / range-correction chain as the OpenCL backend,
// run on the host with goroutines standing in for command queues.
package cpu

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/michaelnguyen11/stereo-sgm-opencl/internal/sgm"
	"github.com/michaelnguyen11/stereo-sgm-opencl/internal/sgm/device"
)

// Pipeline is the pure-Go sgm.Pipeline implementation. Its feature and
// disparity buffers are preallocated once at construction and reused by
// every Execute call. Execute does allocate on every call: the aggregated
// cost volume, the per-direction scratch rows, and the raw winner-takes-all
// maps are created fresh each time, alongside the goroutines path
// aggregation spawns.
type Pipeline struct {
	params sgm.Parameters
	width  int
	height int
	dirs   []direction

	leftFeature  *device.HostBuffer[uint32]
	rightFeature *device.HostBuffer[uint32]

	leftRaw, rightRaw *device.HostBuffer[uint16]
	leftMed, rightMed *device.HostBuffer[uint16]

	closed bool
}

// NewPipeline builds a CPU reference pipeline for a fixed image size.
func NewPipeline(width, height int, params sgm.Parameters) (*Pipeline, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("sgm/cpu: width and height must be positive, got %dx%d", width, height)
	}

	dirs := scan4Directions()
	if params.PathType == sgm.Scan8Path {
		dirs = scan8Directions()
	}

	n := width * height
	p := &Pipeline{
		params:       params,
		width:        width,
		height:       height,
		dirs:         dirs,
		leftFeature:  device.NewHostBuffer[uint32](n),
		rightFeature: device.NewHostBuffer[uint32](n),
		leftRaw:      device.NewHostBuffer[uint16](n),
		rightRaw:     device.NewHostBuffer[uint16](n),
		leftMed:      device.NewHostBuffer[uint16](n),
		rightMed:     device.NewHostBuffer[uint16](n),
	}

	slog.Debug("cpu pipeline initialized",
		"width", width, "height", height,
		"max_disparity", params.MaxDisparity,
		"path_type", params.PathType,
		"hamming_backend", ActiveHammingBackend)

	return p, nil
}

// Width returns the configured image width.
func (p *Pipeline) Width() int { return p.width }

// Height returns the configured image height.
func (p *Pipeline) Height() int { return p.height }

// InvalidDisparity returns the sentinel value written for rejected pixels.
func (p *Pipeline) InvalidDisparity() uint16 { return p.params.InvalidDisparity() }

// Close releases the pipeline's buffers. A *Pipeline holds no
// operating-system resources, so Close only drops its buffers and marks the
// instance unusable.
func (p *Pipeline) Close() error {
	p.closed = true
	for _, b := range []interface{ Destroy() }{p.leftFeature, p.rightFeature, p.leftRaw, p.rightRaw, p.leftMed, p.rightMed} {
		b.Destroy()
	}
	return nil
}

// Execute runs the full Census -> aggregation -> WTA -> median ->
// consistency -> range-correction chain against one stereo pair.
func (p *Pipeline) Execute(ctx context.Context, left, right []uint8, dst []uint16) error {
	if p.closed {
		return fmt.Errorf("sgm/cpu: pipeline already closed")
	}
	if err := sgm.CheckContext(ctx); err != nil {
		return err
	}

	n := p.width * p.height
	if len(left) != n || len(right) != n {
		return fmt.Errorf("%w: input %dx%d, got left=%d right=%d", sgm.ErrDimensionMismatch, p.width, p.height, len(left), len(right))
	}
	if len(dst) != n {
		return fmt.Errorf("%w: output %dx%d, got %d", sgm.ErrDimensionMismatch, p.width, p.height, len(dst))
	}

	censusTransform(left, p.width, p.height, p.leftFeature.Slice())
	censusTransform(right, p.width, p.height, p.rightFeature.Slice())

	volume := aggregatedCostVolume(
		p.leftFeature.Slice(), p.rightFeature.Slice(),
		p.width, p.height, p.params.MaxDisparity, p.params.MinDisp,
		p.params.P1, p.params.P2,
		p.dirs,
	)

	leftRaw, rightRaw := winnerTakesAll(
		volume, p.width, p.height, p.params.MaxDisparity, len(p.dirs),
		p.params.Uniqueness, p.params.Subpixel,
	)
	copy(p.leftRaw.Slice(), leftRaw)
	copy(p.rightRaw.Slice(), rightRaw)

	minDispScaled := p.params.MinDisp * p.params.Scale()
	invalidDisp := p.params.InvalidDisparity()
	sgm.FinalizeLeftDisparity(p.leftRaw.Slice(), p.params.MaxDisparity, minDispScaled, invalidDisp)

	medianFilter3x3(p.leftRaw.Slice(), p.width, p.height, p.leftMed.Slice())
	medianFilter3x3(p.rightRaw.Slice(), p.width, p.height, p.rightMed.Slice())

	checkConsistency(p.leftMed.Slice(), p.rightMed.Slice(), p.width, p.height, p.params.Subpixel, p.params.LRMaxDiff, invalidDisp)

	if p.params.MinDisp != 0 || p.params.Subpixel {
		correctDisparityRange(p.leftMed.Slice(), minDispScaled, invalidDisp)
	}

	copy(dst, p.leftMed.Slice())
	return nil
}
