package backend

import (
	"errors"
	"testing"

	"github.com/michaelnguyen11/stereo-sgm-opencl/internal/sgm"
)

func TestNormalizeBackend(t *testing.T) {
	cases := map[string]Backend{
		"":       CPU,
		"cpu":    CPU,
		"CPU":    CPU,
		" cpu ":  CPU,
		"gpu":    OpenCL,
		"opencl": OpenCL,
		"cl":     OpenCL,
		"OpenCL": OpenCL,
		"other":  Backend("other"),
	}
	for input, want := range cases {
		if got := NormalizeBackend(input); got != want {
			t.Errorf("NormalizeBackend(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestSupportedBackends(t *testing.T) {
	got := SupportedBackends()
	if len(got) != 2 {
		t.Fatalf("expected 2 supported backends, got %d", len(got))
	}
}

func TestNewPipelineForBackendCPU(t *testing.T) {
	p, err := NewPipelineForBackend("cpu", 8, 8, sgm.DefaultParameters())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer p.Close()
	if p.Width() != 8 || p.Height() != 8 {
		t.Errorf("got %dx%d, want 8x8", p.Width(), p.Height())
	}
}

func TestNewPipelineForBackendUnknown(t *testing.T) {
	_, err := NewPipelineForBackend("not-a-backend", 8, 8, sgm.DefaultParameters())
	if !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestNewPipelineForBackendOpenCLUnavailableWithoutGPUTag(t *testing.T) {
	_, err := NewPipelineForBackend("opencl", 8, 8, sgm.DefaultParameters())
	if err == nil {
		t.Fatal("expected an error building the opencl backend without the gpu build tag")
	}
}
