package segmentation

import (
	"github.com/docwarp/docwarp/internal/onnx"
)

// Config holds tuning parameters shared by the segmentation strategies.
type Config struct {
	// GrabCut initialization rectangle inset as a fraction of each dimension.
	GrabCutMarginRatio float64

	// GrabCut refinement iterations (3-5).
	GrabCutIterations int

	// Probability threshold applied to the neural mask output.
	MaskThreshold float64

	// Resolved path to the ONNX model file.
	ModelPath string

	// Model input resolution.
	InputWidth  int
	InputHeight int

	// ONNX Runtime intra-op thread count.
	NumThreads int

	// Hardware acceleration for neural inference.
	Accelerator onnx.AcceleratorConfig
}

// DefaultConfig returns segmentation defaults matching the pipeline defaults.
func DefaultConfig() Config {
	return Config{
		GrabCutMarginRatio: 0.1,
		GrabCutIterations:  4,
		MaskThreshold:      0.5,
		InputWidth:         320,
		InputHeight:        320,
		NumThreads:         4,
		Accelerator:        onnx.DefaultAcceleratorConfig(),
	}
}
