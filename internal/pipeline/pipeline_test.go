package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docwarp/docwarp/internal/segmentation"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, segmentation.StrategyNeuralNet, cfg.Strategy)
	assert.Equal(t, segmentation.StrategyThreshold, cfg.FallbackStrategy)
	assert.InDelta(t, 0.05, cfg.PaddingRatio, 1e-9)
	assert.Equal(t, "u2net", cfg.ModelVariant)
}

func TestBuilderFluent(t *testing.T) {
	b := NewBuilder().
		WithStrategy(segmentation.StrategyGrabCut).
		WithPaddingRatio(0.1).
		WithThreads(2).
		WithGrabCut(0.2, 3).
		WithDebugDir("/tmp/debug")

	cfg := b.Config()
	assert.Equal(t, segmentation.StrategyGrabCut, cfg.Strategy)
	assert.InDelta(t, 0.1, cfg.PaddingRatio, 1e-9)
	assert.Equal(t, 2, cfg.NumThreads)
	assert.InDelta(t, 0.2, cfg.GrabCutMarginRatio, 1e-9)
	assert.Equal(t, 3, cfg.GrabCutIterations)
	assert.Equal(t, "/tmp/debug", cfg.DebugDir)
}

func TestBuilderIgnoresInvalidValues(t *testing.T) {
	cfg := NewBuilder().
		WithStrategy("").
		WithPaddingRatio(-1).
		WithThreads(0).
		WithMaskThreshold(2).
		Config()

	def := DefaultConfig()
	assert.Equal(t, def.Strategy, cfg.Strategy)
	assert.InDelta(t, def.PaddingRatio, cfg.PaddingRatio, 1e-9)
	assert.Equal(t, def.NumThreads, cfg.NumThreads)
	assert.InDelta(t, def.MaskThreshold, cfg.MaskThreshold, 1e-9)
}

func TestBuilderValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Builder)
		wantErr bool
	}{
		{"defaults", func(b *Builder) {}, false},
		{"unknown strategy", func(b *Builder) { b.cfg.Strategy = "magic" }, true},
		{"unknown fallback", func(b *Builder) { b.cfg.FallbackStrategy = "magic" }, true},
		{"neural fallback", func(b *Builder) { b.cfg.FallbackStrategy = segmentation.StrategyNeuralNet }, true},
		{"negative padding", func(b *Builder) { b.cfg.PaddingRatio = -0.1 }, true},
		{"unknown variant", func(b *Builder) { b.cfg.ModelVariant = "resnet" }, true},
		{"no fallback", func(b *Builder) { b.cfg.FallbackStrategy = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			tt.mutate(b)
			err := b.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildWiresFallback(t *testing.T) {
	p, err := NewBuilder().
		WithStrategy(segmentation.StrategyNeuralNet).
		WithFallbackStrategy(segmentation.StrategyThreshold).
		Build()
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, segmentation.StrategyNeuralNet, p.StrategyName())
	require.NotNil(t, p.fallback)
	assert.Equal(t, segmentation.StrategyThreshold, p.fallback.Name())
}

func TestBuildSkipsSelfFallback(t *testing.T) {
	p, err := NewBuilder().
		WithStrategy(segmentation.StrategyThreshold).
		WithFallbackStrategy(segmentation.StrategyThreshold).
		Build()
	require.NoError(t, err)
	defer p.Close()

	assert.Nil(t, p.fallback)
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	b := NewBuilder()
	b.cfg.Strategy = "nope"

	_, err := b.Build()
	assert.Error(t, err)
}
