//go:build !gpu

package gpu

import (
	"context"

	"github.com/michaelnguyen11/stereo-sgm-opencl/internal/sgm"
)

// NewPipeline fails in non-GPU builds; build with -tags gpu on a host with
// an OpenCL ICD loader to use this backend.
func NewPipeline(_, _ int, _ sgm.Parameters) (*Pipeline, error) {
	return nil, ErrNotBuilt
}

// Pipeline is an uninstantiable placeholder in non-GPU builds. Its methods
// exist only so *Pipeline satisfies sgm.Pipeline at compile time; NewPipeline
// never returns a non-nil instance in this build.
type Pipeline struct{}

func (p *Pipeline) Execute(context.Context, []uint8, []uint8, []uint16) error { return ErrNotBuilt }
func (p *Pipeline) InvalidDisparity() uint16                                  { return 0 }
func (p *Pipeline) Width() int                                                { return 0 }
func (p *Pipeline) Height() int                                               { return 0 }
func (p *Pipeline) Close() error                                              { return nil }
