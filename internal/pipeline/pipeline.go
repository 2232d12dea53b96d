// Package pipeline orchestrates the document extraction stages: decode,
// segment, corner extraction, and perspective rectification.
package pipeline

import (
	"fmt"

	"github.com/docwarp/docwarp/internal/corners"
	"github.com/docwarp/docwarp/internal/models"
	"github.com/docwarp/docwarp/internal/onnx"
	"github.com/docwarp/docwarp/internal/segmentation"
)

// Config holds the pipeline configuration. It is immutable after Build; a
// Processor may be shared across concurrent callers.
type Config struct {
	Strategy         string
	FallbackStrategy string
	PaddingRatio     float64
	ModelsDir        string
	ModelVariant     string
	MaskThreshold    float64
	NumThreads       int
	Accelerator      onnx.AcceleratorConfig

	GrabCutMarginRatio float64
	GrabCutIterations  int

	// DebugDir enables mask/contour artifact dumps when non-empty.
	DebugDir string
}

// DefaultConfig returns the production defaults: neural segmentation with
// threshold fallback and 5% padding.
func DefaultConfig() Config {
	return Config{
		Strategy:           segmentation.StrategyNeuralNet,
		FallbackStrategy:   segmentation.StrategyThreshold,
		PaddingRatio:       0.05,
		ModelsDir:          models.GetModelsDir(""),
		ModelVariant:       models.VariantU2Net,
		MaskThreshold:      0.5,
		NumThreads:         4,
		Accelerator:        onnx.DefaultAcceleratorConfig(),
		GrabCutMarginRatio: 0.1,
		GrabCutIterations:  4,
	}
}

// Builder constructs a Processor with fluent configuration.
type Builder struct {
	cfg Config
}

// NewBuilder creates a pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// NewProcessor builds a processor directly from a fully-specified config.
func NewProcessor(cfg Config) (*Processor, error) {
	return (&Builder{cfg: cfg}).Build()
}

// WithStrategy selects the segmentation strategy.
func (b *Builder) WithStrategy(name string) *Builder {
	if name != "" {
		b.cfg.Strategy = name
	}
	return b
}

// WithFallbackStrategy selects the strategy substituted when neural
// segmentation cannot initialize. Empty disables degradation.
func (b *Builder) WithFallbackStrategy(name string) *Builder {
	b.cfg.FallbackStrategy = name
	return b
}

// WithPaddingRatio sets the rectified-output border as a fraction of the
// document dimensions (if >= 0).
func (b *Builder) WithPaddingRatio(ratio float64) *Builder {
	if ratio >= 0 {
		b.cfg.PaddingRatio = ratio
	}
	return b
}

// WithModelsDir sets the directory searched for model files.
func (b *Builder) WithModelsDir(dir string) *Builder {
	if dir != "" {
		b.cfg.ModelsDir = dir
	}
	return b
}

// WithModelVariant selects the neural segmentation model variant.
func (b *Builder) WithModelVariant(variant string) *Builder {
	if variant != "" {
		b.cfg.ModelVariant = variant
	}
	return b
}

// WithMaskThreshold sets the neural probability cutoff (if in (0,1]).
func (b *Builder) WithMaskThreshold(th float64) *Builder {
	if th > 0 && th <= 1 {
		b.cfg.MaskThreshold = th
	}
	return b
}

// WithThreads sets the ONNX Runtime intra-op thread count (if >0).
func (b *Builder) WithThreads(n int) *Builder {
	if n > 0 {
		b.cfg.NumThreads = n
	}
	return b
}

// WithAccelerator toggles hardware-accelerated inference.
func (b *Builder) WithAccelerator(enabled bool) *Builder {
	b.cfg.Accelerator.Enabled = enabled
	return b
}

// WithAcceleratorDevice sets the accelerator device ID.
func (b *Builder) WithAcceleratorDevice(id int) *Builder {
	if id >= 0 {
		b.cfg.Accelerator.DeviceID = id
	}
	return b
}

// WithGrabCut sets the GrabCut init margin and iteration count.
func (b *Builder) WithGrabCut(marginRatio float64, iterations int) *Builder {
	if marginRatio > 0 && marginRatio < 0.5 {
		b.cfg.GrabCutMarginRatio = marginRatio
	}
	if iterations > 0 {
		b.cfg.GrabCutIterations = iterations
	}
	return b
}

// WithDebugDir enables debug artifact dumps into dir.
func (b *Builder) WithDebugDir(dir string) *Builder {
	b.cfg.DebugDir = dir
	return b
}

// Config returns a copy of the current config.
func (b *Builder) Config() Config { return b.cfg }

// Validate checks the configuration for consistency.
func (b *Builder) Validate() error {
	if !segmentation.IsValidStrategy(b.cfg.Strategy) {
		return fmt.Errorf("unknown segmentation strategy: %q", b.cfg.Strategy)
	}
	if b.cfg.FallbackStrategy != "" {
		if !segmentation.IsValidStrategy(b.cfg.FallbackStrategy) {
			return fmt.Errorf("unknown fallback strategy: %q", b.cfg.FallbackStrategy)
		}
		if b.cfg.FallbackStrategy == segmentation.StrategyNeuralNet {
			return fmt.Errorf("fallback strategy cannot be %s", segmentation.StrategyNeuralNet)
		}
	}
	if b.cfg.PaddingRatio < 0 {
		return fmt.Errorf("padding ratio must be >= 0, got %v", b.cfg.PaddingRatio)
	}
	if _, err := models.GetVariant(b.cfg.ModelVariant); err != nil {
		return err
	}
	return nil
}

// Processor runs the document extraction pipeline. Safe for concurrent use;
// the lazily-created neural session is the only shared mutable resource and
// is guarded inside the strategy.
type Processor struct {
	cfg       Config
	strategy  segmentation.Strategy
	fallback  segmentation.Strategy
	extractor *corners.Extractor
}

// Build validates the configuration and wires the processor.
func (b *Builder) Build() (*Processor, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	segCfg := b.segmentationConfig()
	strategy, err := segmentation.New(b.cfg.Strategy, segCfg)
	if err != nil {
		return nil, err
	}

	var fallback segmentation.Strategy
	if b.cfg.FallbackStrategy != "" && b.cfg.FallbackStrategy != b.cfg.Strategy {
		fallback, err = segmentation.New(b.cfg.FallbackStrategy, segCfg)
		if err != nil {
			return nil, err
		}
	}

	return &Processor{
		cfg:       b.cfg,
		strategy:  strategy,
		fallback:  fallback,
		extractor: &corners.Extractor{DebugDir: b.cfg.DebugDir},
	}, nil
}

func (b *Builder) segmentationConfig() segmentation.Config {
	cfg := segmentation.Config{
		GrabCutMarginRatio: b.cfg.GrabCutMarginRatio,
		GrabCutIterations:  b.cfg.GrabCutIterations,
		MaskThreshold:      b.cfg.MaskThreshold,
		NumThreads:         b.cfg.NumThreads,
		Accelerator:        b.cfg.Accelerator,
		InputWidth:         320,
		InputHeight:        320,
	}
	if info, err := models.GetVariant(b.cfg.ModelVariant); err == nil {
		cfg.InputWidth = info.InputWidth
		cfg.InputHeight = info.InputHeight
	}
	// Resolution failure is deferred: the neural strategy reports a missing
	// model at segment time and the fallback takes over.
	if path, err := models.GetSegmentationModelPath(b.cfg.ModelsDir, b.cfg.ModelVariant); err == nil {
		cfg.ModelPath = path
	}
	return cfg
}

// Config returns the processor configuration.
func (p *Processor) Config() Config { return p.cfg }

// StrategyName returns the name of the configured primary strategy.
func (p *Processor) StrategyName() string { return p.strategy.Name() }

// Close releases strategy resources such as the neural session.
func (p *Processor) Close() error {
	var firstErr error
	if c, ok := p.strategy.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			firstErr = err
		}
	}
	if c, ok := p.fallback.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
