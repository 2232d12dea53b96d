package segmentation

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"sync"

	"github.com/yalue/onnxruntime_go"

	"github.com/docwarp/docwarp/internal/mempool"
	"github.com/docwarp/docwarp/internal/models"
	"github.com/docwarp/docwarp/internal/onnx"
	"github.com/docwarp/docwarp/internal/utils"
)

// NeuralStrategy segments via a salient-object-detection ONNX model
// (U2-Net family). The session is created lazily on first use; if the model
// file is missing or the runtime cannot start, Segment returns
// ErrModelUnavailable so the caller can degrade to a fallback strategy.
type NeuralStrategy struct {
	cfg Config

	initOnce sync.Once
	initErr  error

	mu         sync.Mutex
	session    *onnxruntime_go.DynamicAdvancedSession
	inputInfo  onnxruntime_go.InputOutputInfo
	outputInfo onnxruntime_go.InputOutputInfo
}

// NewNeuralStrategy creates a neural segmentation strategy. No model loading
// happens until the first Segment call.
func NewNeuralStrategy(cfg Config) *NeuralStrategy {
	if cfg.InputWidth <= 0 {
		cfg.InputWidth = 320
	}
	if cfg.InputHeight <= 0 {
		cfg.InputHeight = 320
	}
	if cfg.MaskThreshold <= 0 || cfg.MaskThreshold >= 1 {
		cfg.MaskThreshold = 0.5
	}
	return &NeuralStrategy{cfg: cfg}
}

// Name returns the configured strategy name.
func (s *NeuralStrategy) Name() string { return StrategyNeuralNet }

// ensureSession initializes the ONNX session exactly once.
func (s *NeuralStrategy) ensureSession() error {
	s.initOnce.Do(func() {
		s.initErr = s.initSession()
		if s.initErr != nil {
			slog.Warn("neural segmentation unavailable",
				"model_path", s.cfg.ModelPath, "error", s.initErr)
		}
	})
	return s.initErr
}

func (s *NeuralStrategy) initSession() error {
	if s.cfg.ModelPath == "" {
		return fmt.Errorf("%w: no model path configured", ErrModelUnavailable)
	}
	if err := models.ValidateModelExists(s.cfg.ModelPath); err != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	if err := onnx.InitializeEnvironment(s.cfg.Accelerator.Enabled); err != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	inputs, outputs, err := onnxruntime_go.GetInputOutputInfo(s.cfg.ModelPath)
	if err != nil {
		return fmt.Errorf("%w: failed to inspect model: %v", ErrModelUnavailable, err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return fmt.Errorf("%w: model has no usable inputs/outputs", ErrModelUnavailable)
	}
	s.inputInfo = inputs[0]
	s.outputInfo = outputs[0]

	sessionOptions, err := onnxruntime_go.NewSessionOptions()
	if err != nil {
		return fmt.Errorf("%w: failed to create session options: %v", ErrModelUnavailable, err)
	}
	defer func() {
		if err := sessionOptions.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to destroy session options: %v\n", err)
		}
	}()

	if err := onnx.ConfigureSessionForAccelerator(sessionOptions, s.cfg.Accelerator); err != nil {
		// Accelerator setup failure is not fatal, run on CPU.
		slog.Warn("accelerator unavailable, using CPU", "error", err)
	}

	if s.cfg.NumThreads > 0 {
		if err := sessionOptions.SetIntraOpNumThreads(s.cfg.NumThreads); err != nil {
			return fmt.Errorf("%w: failed to set thread count: %v", ErrModelUnavailable, err)
		}
	}

	session, err := onnxruntime_go.NewDynamicAdvancedSession(s.cfg.ModelPath,
		[]string{s.inputInfo.Name}, []string{s.outputInfo.Name}, sessionOptions)
	if err != nil {
		return fmt.Errorf("%w: failed to create ONNX session: %v", ErrModelUnavailable, err)
	}

	s.session = session
	slog.Debug("neural segmentation session created",
		"model_path", s.cfg.ModelPath,
		"input", s.inputInfo.Name,
		"output", s.outputInfo.Name)
	return nil
}

// Segment produces a foreground mask for the image.
func (s *NeuralStrategy) Segment(img image.Image) (*Mask, error) {
	if err := s.ensureSession(); err != nil {
		return nil, err
	}

	b := img.Bounds()
	origW, origH := b.Dx(), b.Dy()

	resized, err := utils.ResizeExact(img, s.cfg.InputWidth, s.cfg.InputHeight)
	if err != nil {
		return nil, fmt.Errorf("%w: neural-net: %v", ErrSegmentation, err)
	}
	data, w, h, err := utils.NormalizeImage(resized)
	if err != nil {
		return nil, fmt.Errorf("%w: neural-net: %v", ErrSegmentation, err)
	}
	defer mempool.PutFloat32(data)

	tensor, err := onnx.NewImageTensor(data, 3, h, w)
	if err != nil {
		return nil, fmt.Errorf("%w: neural-net: %v", ErrSegmentation, err)
	}

	probMap, outW, outH, err := s.runInference(tensor)
	if err != nil {
		return nil, fmt.Errorf("%w: neural-net: %v", ErrSegmentation, err)
	}
	defer mempool.PutFloat32(probMap)

	mask := s.probabilityToMask(probMap, outW, outH, origW, origH)
	return mask, nil
}

// runInference executes the model, serialized because the underlying session
// is not safe for concurrent Run calls.
func (s *NeuralStrategy) runInference(tensor onnx.Tensor) ([]float32, int, int, error) {
	if err := onnx.VerifyImageTensor(tensor); err != nil {
		return nil, 0, 0, fmt.Errorf("invalid tensor: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return nil, 0, 0, errors.New("session is nil")
	}

	inputTensor, err := onnxruntime_go.NewTensor(onnxruntime_go.NewShape(tensor.Shape...), tensor.Data)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer func() {
		if err := inputTensor.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Error destroying input tensor: %v\n", err)
		}
	}()

	outputs := []onnxruntime_go.Value{nil}
	if err := s.session.Run([]onnxruntime_go.Value{inputTensor}, outputs); err != nil {
		return nil, 0, 0, fmt.Errorf("inference failed: %w", err)
	}
	outputTensor := outputs[0]
	defer func() {
		if err := outputTensor.Destroy(); err != nil {
			fmt.Fprintf(os.Stderr, "Error destroying output tensor: %v\n", err)
		}
	}()

	floatTensor, ok := outputTensor.(*onnxruntime_go.Tensor[float32])
	if !ok {
		return nil, 0, 0, fmt.Errorf("expected float32 tensor, got %T", outputTensor)
	}

	shape := outputTensor.GetShape()
	if len(shape) != 4 {
		return nil, 0, 0, fmt.Errorf("expected 4D output tensor, got %dD", len(shape))
	}
	outW := int(shape[3])
	outH := int(shape[2])

	// Copy channel 0 of the first batch entry; the tensor memory is freed on
	// Destroy.
	plane := mempool.GetFloat32(outW * outH)
	copy(plane, floatTensor.GetData()[:outW*outH])

	return plane, outW, outH, nil
}

// probabilityToMask min-max normalizes the probability map, thresholds it,
// and resizes the result back to the source resolution.
func (s *NeuralStrategy) probabilityToMask(probMap []float32, w, h, origW, origH int) *Mask {
	minV, maxV, _ := onnx.TensorStats(probMap)
	scale := maxV - minV
	if scale <= 0 {
		scale = 1
	}

	small := image.NewGray(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			p := (probMap[y*w+x] - minV) / scale
			small.Pix[y*small.Stride+x] = uint8(p*255 + 0.5)
		}
	}

	// Lanczos back to source resolution, then threshold.
	resized, err := utils.ResizeExact(small, origW, origH)
	if err != nil {
		resized = small
		origW, origH = w, h
	}
	gray := utils.ToGray(resized)

	cutoff := uint8(s.cfg.MaskThreshold * 255)
	out := image.NewGray(image.Rect(0, 0, origW, origH))
	for y := range origH {
		for x := range origW {
			if gray.Pix[y*gray.Stride+x] > cutoff {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}

	return &Mask{Gray: out, SourceWidth: origW, SourceHeight: origH}
}

// Close releases the ONNX session.
func (s *NeuralStrategy) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		if err := s.session.Destroy(); err != nil {
			return fmt.Errorf("failed to destroy session: %w", err)
		}
		s.session = nil
	}
	return nil
}
