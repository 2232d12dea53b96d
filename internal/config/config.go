package config

import (
	"fmt"
	"strings"

	"github.com/docwarp/docwarp/internal/models"
	"github.com/docwarp/docwarp/internal/segmentation"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ModelsDir: models.DefaultModelsDir,
		LogLevel:  "info",
		Verbose:   false,
		Pipeline: PipelineConfig{
			Strategy:           segmentation.StrategyNeuralNet,
			FallbackStrategy:   segmentation.StrategyThreshold,
			PaddingRatio:       0.05,
			ModelVariant:       models.VariantU2Net,
			MaskThreshold:      0.5,
			NumThreads:         4,
			GrabCutMarginRatio: 0.1,
			GrabCutIterations:  4,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     50,
			TimeoutSec:      30,
			ShutdownTimeout: 10,
		},
		Debug: DebugConfig{
			Enabled: false,
			Dir:     "debug_output",
		},
		Accelerator: AcceleratorConfig{
			Enabled: false,
			Device:  0,
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if !segmentation.IsValidStrategy(c.Pipeline.Strategy) {
		return fmt.Errorf("invalid segmentation strategy: %s (must be one of: %s)",
			c.Pipeline.Strategy, strings.Join(segmentation.StrategyNames(), ", "))
	}
	if c.Pipeline.FallbackStrategy != "" {
		if !segmentation.IsValidStrategy(c.Pipeline.FallbackStrategy) {
			return fmt.Errorf("invalid fallback strategy: %s", c.Pipeline.FallbackStrategy)
		}
		if c.Pipeline.FallbackStrategy == segmentation.StrategyNeuralNet {
			return fmt.Errorf("fallback strategy must not be %s", segmentation.StrategyNeuralNet)
		}
	}

	if c.Pipeline.PaddingRatio < 0 {
		return fmt.Errorf("invalid padding ratio: %.3f (must be >= 0)", c.Pipeline.PaddingRatio)
	}
	if err := validateThreshold(c.Pipeline.MaskThreshold, "pipeline.mask_threshold"); err != nil {
		return err
	}
	if c.Pipeline.GrabCutMarginRatio <= 0 || c.Pipeline.GrabCutMarginRatio >= 0.5 {
		return fmt.Errorf("invalid grabcut margin ratio: %.3f (must be in (0, 0.5))", c.Pipeline.GrabCutMarginRatio)
	}
	if c.Pipeline.GrabCutIterations < 3 || c.Pipeline.GrabCutIterations > 5 {
		return fmt.Errorf("invalid grabcut iterations: %d (must be between 3 and 5)", c.Pipeline.GrabCutIterations)
	}
	if _, err := models.GetVariant(c.Pipeline.ModelVariant); err != nil {
		return err
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid max upload size: %d (must be positive)", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid timeout: %d (must be positive)", c.Server.TimeoutSec)
	}

	if c.Debug.Enabled && c.Debug.Dir == "" {
		return fmt.Errorf("debug dumps enabled but no debug directory configured")
	}
	if c.Accelerator.Device < 0 {
		return fmt.Errorf("invalid accelerator device: %d (must be non-negative)", c.Accelerator.Device)
	}

	return nil
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// validateThreshold validates that a value is between 0.0 and 1.0.
func validateThreshold(value float64, name string) error {
	if value < 0.0 || value > 1.0 {
		return fmt.Errorf("invalid %s: %.2f (must be between 0.0 and 1.0)", name, value)
	}
	return nil
}
