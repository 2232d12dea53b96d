package segmentation

import (
	"errors"
	"fmt"
	"image"
)

// Strategy names accepted in configuration.
const (
	StrategyThreshold = "threshold"
	StrategyWatershed = "watershed"
	StrategyGrabCut   = "grabcut"
	StrategyNeuralNet = "neural-net"
)

// ErrSegmentation indicates a strategy failed to produce a usable mask.
var ErrSegmentation = errors.New("segmentation failed")

// ErrModelUnavailable indicates the neural session could not be created,
// typically because the model file is missing. Callers degrade to a
// fallback strategy on this error instead of failing the pipeline.
var ErrModelUnavailable = errors.New("segmentation model unavailable")

// Strategy produces a foreground mask from an image.
type Strategy interface {
	Name() string
	Segment(img image.Image) (*Mask, error)
}

// StrategyNames returns all valid strategy names.
func StrategyNames() []string {
	return []string{StrategyThreshold, StrategyWatershed, StrategyGrabCut, StrategyNeuralNet}
}

// IsValidStrategy reports whether name is a known strategy.
func IsValidStrategy(name string) bool {
	switch name {
	case StrategyThreshold, StrategyWatershed, StrategyGrabCut, StrategyNeuralNet:
		return true
	}
	return false
}

// New constructs the strategy selected by name.
func New(name string, cfg Config) (Strategy, error) {
	switch name {
	case StrategyThreshold:
		return &ThresholdStrategy{}, nil
	case StrategyWatershed:
		return &WatershedStrategy{}, nil
	case StrategyGrabCut:
		return &GrabCutStrategy{
			MarginRatio: cfg.GrabCutMarginRatio,
			Iterations:  cfg.GrabCutIterations,
		}, nil
	case StrategyNeuralNet:
		return NewNeuralStrategy(cfg), nil
	default:
		return nil, fmt.Errorf("unknown segmentation strategy: %q", name)
	}
}
