//go:build gpu

package gpu

/*
#include <CL/cl.h>
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"log/slog"
	"unsafe"
)

// program builds one compiled OpenCL program from source text when build is
// called and hands out kernels from it. destroy releases every kernel it
// handed out, then the program itself.
type program struct {
	ctx     C.cl_context
	device  C.cl_device_id
	cl      C.cl_program
	kernels []C.cl_kernel
}

func newProgram(ctx C.cl_context, device C.cl_device_id) *program {
	return &program{ctx: ctx, device: device}
}

// build compiles source, dumping the OpenCL build log on failure.
func (p *program) build(source string) error {
	csrc := C.CString(source)
	defer C.free(unsafe.Pointer(csrc))

	var status C.cl_int
	p.cl = C.clCreateProgramWithSource(p.ctx, 1, &csrc, nil, &status)
	if status != C.CL_SUCCESS {
		return statusError("clCreateProgramWithSource", status)
	}

	status = C.clBuildProgram(p.cl, 1, &p.device, nil, nil, nil)
	if status != C.CL_SUCCESS {
		p.dumpBuildLog()
		return statusError("clBuildProgram", status)
	}
	return nil
}

// kernel creates (and tracks for later release) a kernel by entry-point name.
func (p *program) kernel(name string) (C.cl_kernel, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var status C.cl_int
	k := C.clCreateKernel(p.cl, cname, &status)
	if status != C.CL_SUCCESS {
		return nil, fmt.Errorf("kernel %q: %w", name, statusError("clCreateKernel", status))
	}
	p.kernels = append(p.kernels, k)
	return k, nil
}

func (p *program) dumpBuildLog() {
	if p.cl == nil || p.device == nil {
		return
	}
	var logSize C.size_t
	if status := C.clGetProgramBuildInfo(p.cl, p.device, C.CL_PROGRAM_BUILD_LOG, 0, nil, &logSize); status != C.CL_SUCCESS || logSize == 0 {
		return
	}
	buf := make([]byte, int(logSize))
	if status := C.clGetProgramBuildInfo(p.cl, p.device, C.CL_PROGRAM_BUILD_LOG, logSize, unsafe.Pointer(&buf[0]), nil); status != C.CL_SUCCESS {
		return
	}
	slog.Error("opencl build log", "log", string(buf))
}

// destroy releases every kernel created from this program, then the
// program itself.
func (p *program) destroy() {
	for _, k := range p.kernels {
		C.clReleaseKernel(k)
	}
	p.kernels = nil
	if p.cl != nil {
		C.clReleaseProgram(p.cl)
		p.cl = nil
	}
}
