package segmentation

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeuralSegmentMissingModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelPath = filepath.Join(t.TempDir(), "u2net.onnx")

	s := NewNeuralStrategy(cfg)
	defer s.Close()

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	_, err := s.Segment(img)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestNeuralSegmentNoModelConfigured(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelPath = ""

	s := NewNeuralStrategy(cfg)
	defer s.Close()

	_, err := s.Segment(image.NewRGBA(image.Rect(0, 0, 32, 32)))
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestNeuralSegmentInitFailsOnce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelPath = filepath.Join(t.TempDir(), "missing.onnx")

	s := NewNeuralStrategy(cfg)
	defer s.Close()

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	_, err1 := s.Segment(img)
	_, err2 := s.Segment(img)
	require.Error(t, err1)
	// Initialization happens once; later calls report the same failure.
	assert.Equal(t, err1.Error(), err2.Error())
}

func TestNeuralName(t *testing.T) {
	assert.Equal(t, StrategyNeuralNet, NewNeuralStrategy(DefaultConfig()).Name())
}

func TestNeuralCloseUninitialized(t *testing.T) {
	s := NewNeuralStrategy(DefaultConfig())
	assert.NoError(t, s.Close())
}
