package device

import "testing"

func TestHostBufferAllocateIsGrowOnly(t *testing.T) {
	b := NewHostBuffer[uint32](4)
	if b.Size() != 4 {
		t.Fatalf("expected size 4, got %d", b.Size())
	}

	slice := b.Slice()
	slice[0] = 42

	b.Allocate(2) // smaller request: no-op, existing data preserved
	if b.Size() != 4 || b.Slice()[0] != 42 {
		t.Errorf("shrinking Allocate must be a no-op, got size=%d data[0]=%d", b.Size(), b.Slice()[0])
	}

	b.Allocate(10) // larger request: reallocates, zero-valued
	if b.Size() != 10 {
		t.Errorf("expected grown size 10, got %d", b.Size())
	}
	for i, v := range b.Slice() {
		if v != 0 {
			t.Errorf("expected zero-valued buffer after grow, got data[%d]=%d", i, v)
		}
	}
}

func TestHostBufferFillZero(t *testing.T) {
	b := NewHostBuffer[uint16](4)
	slice := b.Slice()
	for i := range slice {
		slice[i] = 7
	}
	b.FillZero()
	for i, v := range b.Slice() {
		if v != 0 {
			t.Errorf("data[%d] = %d, want 0 after FillZero", i, v)
		}
	}
}

func TestHostBufferSubAliasesParent(t *testing.T) {
	b := NewHostBuffer[uint8](8)
	sub := b.Sub(2, 3)
	if sub.Size() != 3 {
		t.Fatalf("expected sub-buffer size 3, got %d", sub.Size())
	}
	sub.Slice()[0] = 99
	if b.Slice()[2] != 99 {
		t.Errorf("expected Sub to alias the parent buffer, parent data[2]=%d", b.Slice()[2])
	}
}

func TestHostBufferDestroyOwnership(t *testing.T) {
	b := NewHostBuffer[uint8](4)
	sub := b.Sub(0, 2)

	sub.Destroy()
	if sub.Slice() == nil {
		t.Errorf("Destroy on a non-owning sub-buffer must not clear its view")
	}

	b.Destroy()
	if b.Slice() != nil {
		t.Errorf("Destroy on an owning buffer must clear its data")
	}
}
