package gpu

import "testing"

func TestDeviceTypeIsPlainString(t *testing.T) {
	cases := map[DeviceType]string{
		DeviceTypeGPU:         "GPU",
		DeviceTypeCPU:         "CPU",
		DeviceTypeAccelerator: "Accelerator",
		DeviceTypeDefault:     "Default",
		DeviceTypeUnknown:     "Unknown",
	}
	for dt, want := range cases {
		if string(dt) != want {
			t.Errorf("DeviceType %v: got %q, want %q", dt, string(dt), want)
		}
	}
}

func TestPlatformInfoCarriesDevices(t *testing.T) {
	p := PlatformInfo{
		Name: "Mock Platform",
		Devices: []DeviceInfo{
			{Name: "Mock GPU", Type: DeviceTypeGPU, MaxComputeUnits: 32},
		},
	}
	if len(p.Devices) != 1 {
		t.Fatalf("expected 1 device, got %d", len(p.Devices))
	}
	if p.Devices[0].Type != DeviceTypeGPU {
		t.Errorf("expected GPU device, got %v", p.Devices[0].Type)
	}
}
