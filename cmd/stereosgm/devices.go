package main

import (
	"fmt"

	"github.com/michaelnguyen11/stereo-sgm-opencl/internal/sgm/gpu"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available OpenCL platforms and devices",
	Long:  `Enumerates OpenCL platforms and devices visible to the opencl backend. Requires a binary built with -tags gpu.`,
	RunE:  runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	platforms, err := gpu.EnumeratePlatforms()
	if err != nil {
		return fmt.Errorf("enumerating OpenCL platforms: %w", err)
	}

	if len(platforms) == 0 {
		fmt.Println("No OpenCL platforms found")
		return nil
	}

	for _, platform := range platforms {
		fmt.Printf("Platform: %s (%s, %s)\n", platform.Name, platform.Vendor, platform.Version)
		if len(platform.Devices) == 0 {
			fmt.Println("  (no devices)")
			continue
		}
		for _, device := range platform.Devices {
			fmt.Printf("  Device: %s (%s, type=%s, compute_units=%d)\n", device.Name, device.Vendor, device.Type, device.MaxComputeUnits)
		}
	}

	return nil
}
