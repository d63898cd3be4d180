//go:build !gpu

package gpu

import (
	"context"
	"errors"
	"testing"

	"github.com/michaelnguyen11/stereo-sgm-opencl/internal/sgm"
)

func TestNewPipelineFailsWithoutGPUTag(t *testing.T) {
	_, err := NewPipeline(4, 4, sgm.DefaultParameters())
	if !errors.Is(err, ErrNotBuilt) {
		t.Fatalf("expected ErrNotBuilt, got %v", err)
	}
}

func TestStubPipelineSatisfiesInterface(t *testing.T) {
	var p sgm.Pipeline = &Pipeline{}
	if p.Width() != 0 || p.Height() != 0 {
		t.Errorf("expected zero-value dimensions from stub pipeline")
	}
	if err := p.Execute(context.Background(), nil, nil, nil); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("expected ErrNotBuilt from stub Execute, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("expected nil from stub Close, got %v", err)
	}
}
