//go:build !gpu

package gpu

import "fmt"

// Runtime is a placeholder when OpenCL support is not compiled in.
type Runtime struct{}

// ErrNotBuilt indicates the binary was built without the gpu build tag.
var ErrNotBuilt = fmt.Errorf("opencl support requires building with '-tags gpu'")

// InitOpenCL returns an error when OpenCL support is not compiled in.
func InitOpenCL() (*Runtime, error) {
	return nil, ErrNotBuilt
}

// Close is a no-op without OpenCL support.
func (r *Runtime) Close() {}

// EnumeratePlatforms returns an error when OpenCL support is not compiled in.
func EnumeratePlatforms() ([]PlatformInfo, error) {
	return nil, ErrNotBuilt
}
