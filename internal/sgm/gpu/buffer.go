//go:build gpu

package gpu

/*
#include <CL/cl.h>
*/
import "C"

import "unsafe"

// buffer wraps one cl_mem allocation, move-only and sized in elements of
// elemSize bytes. Allocating onto an already-large-enough buffer is a
// no-op, matching DeviceBuffer<T>::allocate's grow-only reuse.
type buffer struct {
	ctx      C.cl_context
	mem      C.cl_mem
	size     int
	elemSize int
}

func newBuffer(ctx C.cl_context, elemSize int) *buffer {
	return &buffer{ctx: ctx, elemSize: elemSize}
}

// allocate grows the buffer to hold n elements, reallocating only if the
// current capacity is insufficient.
func (b *buffer) allocate(n int) error {
	if b.mem != nil && b.size >= n {
		return nil
	}
	b.destroy()

	var status C.cl_int
	b.mem = C.clCreateBuffer(b.ctx, C.CL_MEM_READ_WRITE, C.size_t(n*b.elemSize), nil, &status)
	if status != C.CL_SUCCESS {
		return statusError("clCreateBuffer", status)
	}
	b.size = n
	return nil
}

// destroy releases the underlying cl_mem, if any.
func (b *buffer) destroy() {
	if b.mem != nil {
		C.clReleaseMemObject(b.mem)
		b.mem = nil
	}
	b.size = 0
}

// subBuffer returns a new buffer aliasing [offsetElems, offsetElems+lengthElems)
// of b's backing cl_mem, built via clCreateSubBuffer. This is how each
// path-aggregation direction gets its own plane of a shared cost volume
// instead of racing every other direction on the same cl_mem.
func (b *buffer) subBuffer(offsetElems, lengthElems int) (*buffer, error) {
	region := C.cl_buffer_region{
		origin: C.size_t(offsetElems * b.elemSize),
		size:   C.size_t(lengthElems * b.elemSize),
	}
	var status C.cl_int
	mem := C.clCreateSubBuffer(b.mem, C.CL_MEM_READ_WRITE, C.CL_BUFFER_CREATE_TYPE_REGION, unsafe.Pointer(&region), &status)
	if status != C.CL_SUCCESS {
		return nil, statusError("clCreateSubBuffer", status)
	}
	return &buffer{ctx: b.ctx, mem: mem, size: lengthElems, elemSize: b.elemSize}, nil
}

// fillZero enqueues a zero-fill of the entire buffer on queue.
func (b *buffer) fillZero(queue C.cl_command_queue) error {
	if b.mem == nil {
		return nil
	}
	var pattern C.cl_uchar
	status := C.clEnqueueFillBuffer(queue, b.mem, unsafe.Pointer(&pattern), C.size_t(1), 0, C.size_t(b.size*b.elemSize), 0, nil, nil)
	if status != C.CL_SUCCESS {
		return statusError("clEnqueueFillBuffer", status)
	}
	return nil
}

// writeFrom enqueues a blocking host-to-device copy of byteLen bytes from
// src into the start of the buffer.
func (b *buffer) writeFrom(queue C.cl_command_queue, src unsafe.Pointer, byteLen int) error {
	status := C.clEnqueueWriteBuffer(queue, b.mem, C.CL_TRUE, 0, C.size_t(byteLen), src, 0, nil, nil)
	if status != C.CL_SUCCESS {
		return statusError("clEnqueueWriteBuffer", status)
	}
	return nil
}

// readInto enqueues a blocking device-to-host copy of byteLen bytes from
// the buffer into dst.
func (b *buffer) readInto(queue C.cl_command_queue, dst unsafe.Pointer, byteLen int) error {
	status := C.clEnqueueReadBuffer(queue, b.mem, C.CL_TRUE, 0, C.size_t(byteLen), dst, 0, nil, nil)
	if status != C.CL_SUCCESS {
		return statusError("clEnqueueReadBuffer", status)
	}
	return nil
}
