package config

import (
	"github.com/docwarp/docwarp/internal/onnx"
	"github.com/docwarp/docwarp/internal/pipeline"
)

// ToPipelineConfig converts the application configuration into the pipeline
// builder's configuration.
func (c *Config) ToPipelineConfig() pipeline.Config {
	cfg := pipeline.Config{
		Strategy:           c.Pipeline.Strategy,
		FallbackStrategy:   c.Pipeline.FallbackStrategy,
		PaddingRatio:       c.Pipeline.PaddingRatio,
		ModelsDir:          c.ModelsDir,
		ModelVariant:       c.Pipeline.ModelVariant,
		MaskThreshold:      c.Pipeline.MaskThreshold,
		NumThreads:         c.Pipeline.NumThreads,
		GrabCutMarginRatio: c.Pipeline.GrabCutMarginRatio,
		GrabCutIterations:  c.Pipeline.GrabCutIterations,
		Accelerator:        onnx.DefaultAcceleratorConfig(),
	}
	cfg.Accelerator.Enabled = c.Accelerator.Enabled
	cfg.Accelerator.DeviceID = c.Accelerator.Device
	if c.Debug.Enabled {
		cfg.DebugDir = c.Debug.Dir
	}
	return cfg
}
