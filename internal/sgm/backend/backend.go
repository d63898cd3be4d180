// Package backend selects and constructs a concrete sgm.Pipeline
// implementation (cpu or gpu) from a name.
package backend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/michaelnguyen11/stereo-sgm-opencl/internal/sgm"
	"github.com/michaelnguyen11/stereo-sgm-opencl/internal/sgm/cpu"
	"github.com/michaelnguyen11/stereo-sgm-opencl/internal/sgm/gpu"
)

// Backend identifies a pipeline implementation.
type Backend string

const (
	// CPU runs the pure-Go reference pipeline.
	CPU Backend = "cpu"
	// OpenCL runs the OpenCL-accelerated pipeline.
	OpenCL Backend = "opencl"
)

// ErrUnknownBackend is returned when the name does not match a known backend.
var ErrUnknownBackend = errors.New("sgm/backend: unknown backend")

// NormalizeBackend maps arbitrary user input to a canonical backend identifier.
func NormalizeBackend(name string) Backend {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cpu":
		return CPU
	case "gpu", "opencl", "cl":
		return OpenCL
	default:
		return Backend(name)
	}
}

// SupportedBackends returns the backends understood by NewPipelineForBackend.
func SupportedBackends() []Backend {
	return []Backend{CPU, OpenCL}
}

// NewPipelineForBackend constructs the requested pipeline for a fixed
// (width, height) image size and parameter set.
func NewPipelineForBackend(name string, width, height int, params sgm.Parameters) (sgm.Pipeline, error) {
	switch NormalizeBackend(name) {
	case CPU:
		return cpu.NewPipeline(width, height, params)
	case OpenCL:
		return gpu.NewPipeline(width, height, params)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, name)
	}
}
