package config

import (
	"strings"
	"testing"
)

const debugLevel = "debug"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("Expected log level 'info', got %s", cfg.LogLevel)
	}
	if cfg.Pipeline.Strategy != "neural-net" {
		t.Errorf("Expected strategy 'neural-net', got %s", cfg.Pipeline.Strategy)
	}
	if cfg.Pipeline.FallbackStrategy != "threshold" {
		t.Errorf("Expected fallback 'threshold', got %s", cfg.Pipeline.FallbackStrategy)
	}
	if cfg.Pipeline.PaddingRatio != 0.05 {
		t.Errorf("Expected padding ratio 0.05, got %f", cfg.Pipeline.PaddingRatio)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Debug.Enabled {
		t.Error("Expected debug dumps disabled by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got: %v", err)
	}
}

func TestValidateLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected error for invalid log level")
	}
	if !strings.Contains(err.Error(), "log level") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestValidatePipeline(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown strategy", func(c *Config) { c.Pipeline.Strategy = "magic" }},
		{"unknown fallback", func(c *Config) { c.Pipeline.FallbackStrategy = "magic" }},
		{"neural fallback", func(c *Config) { c.Pipeline.FallbackStrategy = "neural-net" }},
		{"negative padding", func(c *Config) { c.Pipeline.PaddingRatio = -0.1 }},
		{"mask threshold above one", func(c *Config) { c.Pipeline.MaskThreshold = 1.5 }},
		{"zero grabcut margin", func(c *Config) { c.Pipeline.GrabCutMarginRatio = 0 }},
		{"grabcut margin too large", func(c *Config) { c.Pipeline.GrabCutMarginRatio = 0.5 }},
		{"too few grabcut iterations", func(c *Config) { c.Pipeline.GrabCutIterations = 2 }},
		{"too many grabcut iterations", func(c *Config) { c.Pipeline.GrabCutIterations = 6 }},
		{"unknown model variant", func(c *Config) { c.Pipeline.ModelVariant = "resnet" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestValidateEmptyFallbackAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pipeline.FallbackStrategy = ""

	if err := cfg.Validate(); err != nil {
		t.Errorf("Empty fallback should be allowed, got: %v", err)
	}
}

func TestValidateServer(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"zero upload limit", func(c *Config) { c.Server.MaxUploadMB = 0 }},
		{"zero timeout", func(c *Config) { c.Server.TimeoutSec = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestValidateDebug(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Debug.Enabled = true
	cfg.Debug.Dir = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for enabled debug without directory")
	}
}

func TestValidateAccelerator(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Accelerator.Device = -1

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for negative accelerator device")
	}
}

func TestToPipelineConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelsDir = "/opt/models"
	cfg.Pipeline.Strategy = "grabcut"
	cfg.Pipeline.PaddingRatio = 0.1
	cfg.Accelerator.Enabled = true
	cfg.Accelerator.Device = 1
	cfg.Debug.Enabled = true
	cfg.Debug.Dir = "/tmp/dumps"

	pc := cfg.ToPipelineConfig()
	if pc.Strategy != "grabcut" {
		t.Errorf("Expected strategy 'grabcut', got %s", pc.Strategy)
	}
	if pc.ModelsDir != "/opt/models" {
		t.Errorf("Expected models dir '/opt/models', got %s", pc.ModelsDir)
	}
	if pc.PaddingRatio != 0.1 {
		t.Errorf("Expected padding ratio 0.1, got %f", pc.PaddingRatio)
	}
	if !pc.Accelerator.Enabled || pc.Accelerator.DeviceID != 1 {
		t.Errorf("Accelerator settings not carried over: %+v", pc.Accelerator)
	}
	if pc.DebugDir != "/tmp/dumps" {
		t.Errorf("Expected debug dir '/tmp/dumps', got %s", pc.DebugDir)
	}
}

func TestToPipelineConfigDebugDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Debug.Enabled = false
	cfg.Debug.Dir = "/tmp/dumps"

	if pc := cfg.ToPipelineConfig(); pc.DebugDir != "" {
		t.Errorf("Expected empty debug dir when disabled, got %s", pc.DebugDir)
	}
}
