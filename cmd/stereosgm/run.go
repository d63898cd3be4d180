package main

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/michaelnguyen11/stereo-sgm-opencl/internal/sgm"
	"github.com/michaelnguyen11/stereo-sgm-opencl/internal/sgm/backend"
	"github.com/spf13/cobra"

	_ "image/jpeg"
)

var (
	leftPath    string
	rightPath   string
	outPath     string
	backendName string

	p1           int
	p2           int
	uniqueness   float64
	subpixel     bool
	pathTypeName string
	minDisp      int
	lrMaxDiff    int
	maxDisparity int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compute a disparity map from a rectified stereo pair",
	Long:  `Runs the Census -> PathAggregation -> WinnerTakesAll -> MedianFilter -> ConsistencyCheck -> RangeCorrection pipeline over a left/right image pair and writes a 16-bit disparity PNG.`,
	RunE:  runDisparity,
}

func init() {
	defaults := sgm.DefaultParameters()

	runCmd.Flags().StringVar(&leftPath, "left", "", "Left rectified image path (required)")
	runCmd.Flags().StringVar(&rightPath, "right", "", "Right rectified image path (required)")
	runCmd.Flags().StringVar(&outPath, "out", "disparity.png", "Output 16-bit disparity PNG path")
	runCmd.Flags().StringVar(&backendName, "backend", "cpu", "Pipeline backend: cpu or opencl")

	runCmd.Flags().IntVar(&p1, "p1", defaults.P1, "Small disparity-change penalty")
	runCmd.Flags().IntVar(&p2, "p2", defaults.P2, "Large disparity-change penalty")
	runCmd.Flags().Float64Var(&uniqueness, "uniqueness", float64(defaults.Uniqueness), "Uniqueness ratio in (0,1]")
	runCmd.Flags().BoolVar(&subpixel, "subpixel", defaults.Subpixel, "Enable sub-pixel disparity refinement")
	runCmd.Flags().StringVar(&pathTypeName, "path-type", "scan8", "Aggregation path count: scan4 or scan8")
	runCmd.Flags().IntVar(&minDisp, "min-disp", defaults.MinDisp, "Minimum searched disparity")
	runCmd.Flags().IntVar(&lrMaxDiff, "lr-max-diff", defaults.LRMaxDiff, "Left/right consistency threshold; negative disables the check")
	runCmd.Flags().IntVar(&maxDisparity, "max-disparity", defaults.MaxDisparity, "Disparity search range: 64, 128, or 256")

	runCmd.MarkFlagRequired("left")
	runCmd.MarkFlagRequired("right")
	rootCmd.AddCommand(runCmd)
}

func runDisparity(cmd *cobra.Command, args []string) error {
	params := sgm.Parameters{
		P1:           p1,
		P2:           p2,
		Uniqueness:   float32(uniqueness),
		Subpixel:     subpixel,
		PathType:     parsePathType(pathTypeName),
		MinDisp:      minDisp,
		LRMaxDiff:    lrMaxDiff,
		MaxDisparity: maxDisparity,
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}

	left, width, height, err := loadGray8(leftPath)
	if err != nil {
		return fmt.Errorf("loading left image: %w", err)
	}
	right, rw, rh, err := loadGray8(rightPath)
	if err != nil {
		return fmt.Errorf("loading right image: %w", err)
	}
	if rw != width || rh != height {
		return fmt.Errorf("image size mismatch: left %dx%d, right %dx%d", width, height, rw, rh)
	}

	slog.Info("building pipeline", "backend", backendName, "width", width, "height", height, "max_disparity", params.MaxDisparity, "path_type", params.PathType)

	pipeline, err := backend.NewPipelineForBackend(backendName, width, height, params)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}
	defer pipeline.Close()

	disparity := make([]uint16, width*height)

	start := time.Now()
	if err := pipeline.Execute(cmd.Context(), left, right, disparity); err != nil {
		return fmt.Errorf("executing pipeline: %w", err)
	}
	elapsed := time.Since(start)

	if err := writeDisparityPNG(outPath, disparity, width, height); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	slog.Info("disparity computed", "elapsed", elapsed, "output", outPath)
	fmt.Printf("Wrote %s (%dx%d, %s backend, %s)\n", outPath, width, height, backendName, elapsed.Round(time.Millisecond))
	return nil
}

func parsePathType(name string) sgm.PathType {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "scan4", "4":
		return sgm.Scan4Path
	default:
		return sgm.Scan8Path
	}
}

// loadGray8 decodes an image file and returns its pixels as row-major 8-bit
// grayscale, flattening any color image via its luminance.
func loadGray8(path string) ([]uint8, int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, 0, 0, err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	gray := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// ITU-R BT.601 luma weights, applied to the 16-bit-per-channel
			// values RGBA() returns.
			lum := (299*r + 587*g + 114*b) / 1000
			gray[y*width+x] = uint8(lum >> 8)
		}
	}
	return gray, width, height, nil
}

func writeDisparityPNG(path string, disparity []uint16, width, height int) error {
	img := image.NewGray16(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := disparity[y*width+x]
			o := img.PixOffset(x, y)
			img.Pix[o] = uint8(v >> 8)
			img.Pix[o+1] = uint8(v)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}
