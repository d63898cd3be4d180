//go:build gpu

package gpu

/*
#include <CL/cl.h>
*/
import "C"

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"unsafe"

	"github.com/michaelnguyen11/stereo-sgm-opencl/internal/sgm"
	"github.com/michaelnguyen11/stereo-sgm-opencl/internal/sgm/kernel"
)

// blockSize is the work-group size every path-aggregation and census
// program is compiled with; it must match the BLOCK_SIZE token baked into
// the kernel source at build time.
const blockSize = 128

// pathProgram bundles one compiled path-aggregation program with the
// command queue it runs on and the kernel handle it exposes.
type pathProgram struct {
	prog     *program
	kern     C.cl_kernel
	queue    C.cl_command_queue
	costView *buffer // this direction's own plane of the shared cost volume
}

// Pipeline is the OpenCL-accelerated sgm.Pipeline implementation: a
// resource bundle owning every device buffer, program, and per-direction
// command queue for one fixed (width, height, MaxDisparity) configuration.
type Pipeline struct {
	runtime *Runtime
	params  sgm.Parameters
	width   int
	height  int

	censusProg *program
	censusKern C.cl_kernel

	paths []pathProgram

	wtaProg *program
	wtaKern C.cl_kernel

	medianProg *program
	medianKern C.cl_kernel

	consistencyProg *program
	consistencyKern C.cl_kernel

	rangeProg *program
	rangeKern C.cl_kernel

	leftImage, rightImage     *buffer
	leftFeature, rightFeature *buffer
	costVolume                *buffer
	leftRaw, rightRaw         *buffer
	leftMed, rightMed         *buffer

	// hostLeftRaw stages the raw winner-takes-all left output for the
	// host-side min_disp offset + sentinel finalize pass (see
	// sgm.FinalizeLeftDisparity); round-tripping through the host here
	// avoids a ninth kernel whose only job is one add and one compare.
	// hostRightRaw is allocated alongside it; Execute never reads the right
	// map back to the host.
	hostLeftRaw, hostRightRaw []uint16

	closed bool
}

// NewPipeline builds an OpenCL pipeline for a fixed image size, compiling
// every kernel program up front so Execute itself never triggers a build.
func NewPipeline(width, height int, params sgm.Parameters) (*Pipeline, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("sgm/gpu: width and height must be positive, got %dx%d", width, height)
	}

	rt, err := InitOpenCL()
	if err != nil {
		return nil, fmt.Errorf("sgm/gpu: %w", err)
	}

	p := &Pipeline{
		runtime: rt,
		params:  params,
		width:   width,
		height:  height,
	}

	if err := p.build(); err != nil {
		p.Close()
		return nil, err
	}

	slog.Debug("gpu pipeline initialized",
		"width", width, "height", height,
		"max_disparity", params.MaxDisparity,
		"path_type", params.PathType,
		"device", rt.Device.Name,
		"vendor", rt.Device.Vendor)

	return p, nil
}

func commonTokens(params sgm.Parameters) map[string]string {
	return map[string]string{
		"MAX_DISPARITY":    strconv.Itoa(params.MaxDisparity),
		"NUM_PATHS":        strconv.Itoa(params.PathType.NumPaths()),
		"BLOCK_SIZE":       strconv.Itoa(blockSize),
		"WARPS_PER_BLOCK":  strconv.Itoa(blockSize / 32),
		"SUBPIXEL_SHIFT":   strconv.Itoa(sgm.SubpixelShift),
		"COMPUTE_SUBPIXEL": boolToken(params.Subpixel),
	}
}

func boolToken(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

type pathDirection struct {
	name   string
	tokens map[string]string
}

func pathDirectionsFor(pathType sgm.PathType) []pathDirection {
	dirs := []pathDirection{
		{"path_aggregation_vertical_kernel", map[string]string{"DIRECTION": "1"}},
		{"path_aggregation_vertical_kernel", map[string]string{"DIRECTION": "-1"}},
		{"path_aggregation_horizontal_kernel", map[string]string{"DIRECTION": "1"}},
		{"path_aggregation_horizontal_kernel", map[string]string{"DIRECTION": "-1"}},
	}
	if pathType == sgm.Scan4Path {
		return dirs
	}
	return append(dirs,
		pathDirection{"path_aggregation_oblique_kernel", map[string]string{"X_DIRECTION": "1", "Y_DIRECTION": "1"}},
		pathDirection{"path_aggregation_oblique_kernel", map[string]string{"X_DIRECTION": "1", "Y_DIRECTION": "-1"}},
		pathDirection{"path_aggregation_oblique_kernel", map[string]string{"X_DIRECTION": "-1", "Y_DIRECTION": "1"}},
		pathDirection{"path_aggregation_oblique_kernel", map[string]string{"X_DIRECTION": "-1", "Y_DIRECTION": "-1"}},
	)
}

func (p *Pipeline) build() error {
	tokens := commonTokens(p.params)

	p.censusProg = newProgram(p.runtime.context, p.runtime.deviceID)
	if err := p.censusProg.build(kernel.Preprocess(kernel.CensusSource(), tokens)); err != nil {
		return fmt.Errorf("building census program: %w", err)
	}
	k, err := p.censusProg.kernel("census_transform_kernel")
	if err != nil {
		return err
	}
	p.censusKern = k

	var fragmentByName = map[string]string{
		"path_aggregation_vertical_kernel":   kernel.PathAggregationVerticalFragment(),
		"path_aggregation_horizontal_kernel": kernel.PathAggregationHorizontalFragment(),
		"path_aggregation_oblique_kernel":    kernel.PathAggregationObliqueFragment(),
	}

	for _, dir := range pathDirectionsFor(p.params.PathType) {
		dirTokens := map[string]string{}
		for k, v := range tokens {
			dirTokens[k] = v
		}
		for k, v := range dir.tokens {
			dirTokens[k] = v
		}

		prog := newProgram(p.runtime.context, p.runtime.deviceID)
		source := kernel.Preprocess(kernel.PathAggregationSource(fragmentByName[dir.name]), dirTokens)
		if err := prog.build(source); err != nil {
			return fmt.Errorf("building %s program (%v): %w", dir.name, dir.tokens, err)
		}
		kern, err := prog.kernel(dir.name)
		if err != nil {
			return err
		}
		queue, err := p.runtime.createQueue()
		if err != nil {
			return fmt.Errorf("creating path aggregation queue: %w", err)
		}
		p.paths = append(p.paths, pathProgram{prog: prog, kern: kern, queue: queue})
	}

	p.wtaProg = newProgram(p.runtime.context, p.runtime.deviceID)
	if err := p.wtaProg.build(kernel.Preprocess(kernel.WinnerTakesAllSource(), tokens)); err != nil {
		return fmt.Errorf("building winner-takes-all program: %w", err)
	}
	if p.wtaKern, err = p.wtaProg.kernel("winner_takes_all_kernel"); err != nil {
		return err
	}

	p.medianProg = newProgram(p.runtime.context, p.runtime.deviceID)
	if err := p.medianProg.build(kernel.Preprocess(kernel.MedianFilterSource(), tokens)); err != nil {
		return fmt.Errorf("building median filter program: %w", err)
	}
	if p.medianKern, err = p.medianProg.kernel("median3x3"); err != nil {
		return err
	}

	p.consistencyProg = newProgram(p.runtime.context, p.runtime.deviceID)
	if err := p.consistencyProg.build(kernel.Preprocess(kernel.CheckConsistencySource(), tokens)); err != nil {
		return fmt.Errorf("building consistency check program: %w", err)
	}
	if p.consistencyKern, err = p.consistencyProg.kernel("check_consistency_kernel"); err != nil {
		return err
	}

	p.rangeProg = newProgram(p.runtime.context, p.runtime.deviceID)
	if err := p.rangeProg.build(kernel.Preprocess(kernel.CorrectDisparityRangeSource(), tokens)); err != nil {
		return fmt.Errorf("building range correction program: %w", err)
	}
	if p.rangeKern, err = p.rangeProg.kernel("correct_disparity_range_kernel"); err != nil {
		return err
	}

	n := p.width * p.height
	p.leftImage = newBuffer(p.runtime.context, 1)
	p.rightImage = newBuffer(p.runtime.context, 1)
	p.leftFeature = newBuffer(p.runtime.context, 4)
	p.rightFeature = newBuffer(p.runtime.context, 4)
	p.costVolume = newBuffer(p.runtime.context, 1)
	p.leftRaw = newBuffer(p.runtime.context, 2)
	p.rightRaw = newBuffer(p.runtime.context, 2)
	p.leftMed = newBuffer(p.runtime.context, 2)
	p.rightMed = newBuffer(p.runtime.context, 2)

	for _, b := range []*buffer{p.leftImage, p.rightImage} {
		if err := b.allocate(n); err != nil {
			return err
		}
	}
	for _, b := range []*buffer{p.leftFeature, p.rightFeature} {
		if err := b.allocate(n); err != nil {
			return err
		}
	}
	if err := p.costVolume.allocate(n * p.params.MaxDisparity * p.params.PathType.NumPaths()); err != nil {
		return err
	}
	planeElems := n * p.params.MaxDisparity
	for i := range p.paths {
		view, err := p.costVolume.subBuffer(i*planeElems, planeElems)
		if err != nil {
			return fmt.Errorf("creating cost volume sub-buffer for path %d: %w", i, err)
		}
		p.paths[i].costView = view
	}
	for _, b := range []*buffer{p.leftRaw, p.rightRaw, p.leftMed, p.rightMed} {
		if err := b.allocate(n); err != nil {
			return err
		}
	}

	p.hostLeftRaw = make([]uint16, n)
	p.hostRightRaw = make([]uint16, n)

	return nil
}

// Width returns the configured image width.
func (p *Pipeline) Width() int { return p.width }

// Height returns the configured image height.
func (p *Pipeline) Height() int { return p.height }

// InvalidDisparity returns the sentinel value written for rejected pixels.
func (p *Pipeline) InvalidDisparity() uint16 { return p.params.InvalidDisparity() }

// Close releases every OpenCL resource this pipeline owns.
func (p *Pipeline) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	for _, b := range []*buffer{
		p.leftImage, p.rightImage, p.leftFeature, p.rightFeature,
		p.costVolume, p.leftRaw, p.rightRaw, p.leftMed, p.rightMed,
	} {
		if b != nil {
			b.destroy()
		}
	}

	for _, path := range p.paths {
		if path.costView != nil {
			path.costView.destroy()
		}
		if path.queue != nil {
			C.clReleaseCommandQueue(path.queue)
		}
	}
	for _, prog := range []*program{p.censusProg, p.wtaProg, p.medianProg, p.consistencyProg, p.rangeProg} {
		if prog != nil {
			prog.destroy()
		}
	}
	for _, path := range p.paths {
		if path.prog != nil {
			path.prog.destroy()
		}
	}

	p.runtime.Close()
	return nil
}

// Execute runs census -> per-direction path aggregation -> winner-takes-all
// -> median -> consistency -> range correction against one stereo pair.
func (p *Pipeline) Execute(ctx context.Context, left, right []uint8, dst []uint16) error {
	if p.closed {
		return fmt.Errorf("sgm/gpu: pipeline already closed")
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

	q := p.runtime.queue

	if err := p.leftImage.writeFrom(q, unsafe.Pointer(&left[0]), n); err != nil {
		return err
	}
	if err := p.rightImage.writeFrom(q, unsafe.Pointer(&right[0]), n); err != nil {
		return err
	}

	if err := p.runCensus(q, p.leftImage, p.leftFeature); err != nil {
		return err
	}
	if err := p.runCensus(q, p.rightImage, p.rightFeature); err != nil {
		return err
	}

	if err := p.runPathAggregation(); err != nil {
		return err
	}

	if err := p.runWinnerTakesAll(); err != nil {
		return err
	}

	minDispScaled := p.params.MinDisp * p.params.Scale()
	invalidDisp := p.params.InvalidDisparity()
	if err := p.leftRaw.readInto(q, unsafe.Pointer(&p.hostLeftRaw[0]), n*2); err != nil {
		return err
	}
	sgm.FinalizeLeftDisparity(p.hostLeftRaw, p.params.MaxDisparity, minDispScaled, invalidDisp)
	if err := p.leftRaw.writeFrom(q, unsafe.Pointer(&p.hostLeftRaw[0]), n*2); err != nil {
		return err
	}

	if err := p.runMedian(p.leftRaw, p.leftMed); err != nil {
		return err
	}
	if err := p.runMedian(p.rightRaw, p.rightMed); err != nil {
		return err
	}

	if err := p.runConsistency(invalidDisp); err != nil {
		return err
	}

	if p.params.MinDisp != 0 || p.params.Subpixel {
		if err := p.runRangeCorrection(minDispScaled, invalidDisp); err != nil {
			return err
		}
	}

	if status := C.clFinish(q); status != C.CL_SUCCESS {
		return statusError("clFinish", status)
	}

	return p.leftMed.readInto(q, unsafe.Pointer(&dst[0]), n*2)
}

func (p *Pipeline) runCensus(q C.cl_command_queue, src, dst *buffer) error {
	width, height, pitch := C.cl_int(p.width), C.cl_int(p.height), C.cl_int(p.width)
	if err := setKernelArgs(p.censusKern, dst.mem, src.mem, width, height, pitch); err != nil {
		return err
	}
	widthPerBlock := blockSize - 9 + 1
	globalX := C.size_t(((p.width+widthPerBlock-1)/widthPerBlock)*blockSize)
	globalY := C.size_t((p.height + 15) / 16)
	global := [2]C.size_t{globalX, globalY}
	local := [2]C.size_t{C.size_t(blockSize), 1}
	status := C.clEnqueueNDRangeKernel(q, p.censusKern, 2, nil, &global[0], &local[0], 0, nil, nil)
	if status != C.CL_SUCCESS {
		return statusError("clEnqueueNDRangeKernel(census)", status)
	}
	return nil
}

func (p *Pipeline) runPathAggregation() error {
	width, height, pitch := C.cl_int(p.width), C.cl_int(p.height), C.cl_int(p.width)
	p1, p2, minDisp := C.cl_int(p.params.P1), C.cl_int(p.params.P2), C.cl_int(p.params.MinDisp)

	for _, path := range p.paths {
		if err := setKernelArgs(path.kern, path.costView.mem, p.leftFeature.mem, p.rightFeature.mem,
			width, height, pitch, p1, p2, minDisp); err != nil {
			return err
		}
		global := C.size_t(p.width * p.height) // conservative upper bound on lanes launched
		status := C.clEnqueueNDRangeKernel(path.queue, path.kern, 1, nil, &global, nil, 0, nil, nil)
		if status != C.CL_SUCCESS {
			return statusError("clEnqueueNDRangeKernel(path aggregation)", status)
		}
	}
	for _, path := range p.paths {
		if status := C.clFinish(path.queue); status != C.CL_SUCCESS {
			return statusError("clFinish(path aggregation)", status)
		}
	}
	return nil
}

func (p *Pipeline) runWinnerTakesAll() error {
	width, height, pitch := C.cl_int(p.width), C.cl_int(p.height), C.cl_int(p.width)
	uniqueness := C.float(p.params.Uniqueness)
	if err := setKernelArgs(p.wtaKern, p.leftRaw.mem, p.rightRaw.mem, p.costVolume.mem, width, height, pitch, uniqueness); err != nil {
		return err
	}
	global := C.size_t(p.height * 32)
	local := C.size_t(blockSize)
	status := C.clEnqueueNDRangeKernel(p.runtime.queue, p.wtaKern, 1, nil, &global, &local, 0, nil, nil)
	if status != C.CL_SUCCESS {
		return statusError("clEnqueueNDRangeKernel(winner_takes_all)", status)
	}
	return nil
}

func (p *Pipeline) runMedian(src, dst *buffer) error {
	width, height, pitch := C.cl_int(p.width), C.cl_int(p.height), C.cl_int(p.width)
	if err := setKernelArgs(p.medianKern, src.mem, dst.mem, width, height, pitch); err != nil {
		return err
	}
	global := [2]C.size_t{C.size_t(p.width), C.size_t(p.height)}
	status := C.clEnqueueNDRangeKernel(p.runtime.queue, p.medianKern, 2, nil, &global[0], nil, 0, nil, nil)
	if status != C.CL_SUCCESS {
		return statusError("clEnqueueNDRangeKernel(median)", status)
	}
	return nil
}

func (p *Pipeline) runConsistency(invalidDisp uint16) error {
	width, height, srcPitch, dstPitch := C.cl_int(p.width), C.cl_int(p.height), C.cl_int(p.width), C.cl_int(p.width)
	subpixel := C.cl_int(0)
	if p.params.Subpixel {
		subpixel = 1
	}
	lrMaxDiff := C.cl_int(p.params.LRMaxDiff)
	invalid := C.cl_int(invalidDisp)

	if err := setKernelArgs(p.consistencyKern, p.leftMed.mem, p.rightMed.mem, p.leftImage.mem,
		width, height, srcPitch, dstPitch, subpixel, lrMaxDiff, invalid); err != nil {
		return err
	}
	global := [2]C.size_t{C.size_t(p.width), C.size_t(p.height)}
	status := C.clEnqueueNDRangeKernel(p.runtime.queue, p.consistencyKern, 2, nil, &global[0], nil, 0, nil, nil)
	if status != C.CL_SUCCESS {
		return statusError("clEnqueueNDRangeKernel(consistency)", status)
	}
	return nil
}

func (p *Pipeline) runRangeCorrection(minDispScaled int, invalidDisp uint16) error {
	width, height, pitch := C.cl_int(p.width), C.cl_int(p.height), C.cl_int(p.width)
	minDispC := C.cl_int(minDispScaled)
	invalidC := C.cl_int(invalidDisp)

	if err := setKernelArgs(p.rangeKern, p.leftMed.mem, width, height, pitch, minDispC, invalidC); err != nil {
		return err
	}
	global := [2]C.size_t{C.size_t(p.width), C.size_t(p.height)}
	status := C.clEnqueueNDRangeKernel(p.runtime.queue, p.rangeKern, 2, nil, &global[0], nil, 0, nil, nil)
	if status != C.CL_SUCCESS {
		return statusError("clEnqueueNDRangeKernel(range correction)", status)
	}
	return nil
}

// setKernelArgs binds each argument, in order, to kern via clSetKernelArg.
// Each argument must be a C.cl_mem or one of the C scalar types used by the
// kernel signatures in this file (cl_int, float).
func setKernelArgs(kern C.cl_kernel, args ...any) error {
	for i, arg := range args {
		var status C.cl_int
		switch v := arg.(type) {
		case C.cl_mem:
			status = C.clSetKernelArg(kern, C.cl_uint(i), C.size_t(unsafe.Sizeof(v)), unsafe.Pointer(&v))
		case C.cl_int:
			status = C.clSetKernelArg(kern, C.cl_uint(i), C.size_t(unsafe.Sizeof(v)), unsafe.Pointer(&v))
		case C.float:
			status = C.clSetKernelArg(kern, C.cl_uint(i), C.size_t(unsafe.Sizeof(v)), unsafe.Pointer(&v))
		default:
			return fmt.Errorf("sgm/gpu: unsupported kernel argument type %T at index %d", arg, i)
		}
		if status != C.CL_SUCCESS {
			return statusError(fmt.Sprintf("clSetKernelArg(%d)", i), status)
		}
	}
	return nil
}
