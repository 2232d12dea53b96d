package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Segmentation model filename constants to avoid typos and ensure consistency.
const (
	SegmentationU2Net   = "u2net.onnx"
	SegmentationU2NetP  = "u2netp.onnx"
	SegmentationSilueta = "silueta.onnx"
)

// Model variant names accepted in configuration.
const (
	VariantU2Net   = "u2net"
	VariantU2NetP  = "u2netp"
	VariantSilueta = "silueta"
)

// Model type category for the organized directory structure.
const TypeSegmentation = "segmentation"

// Default models directory.
const DefaultModelsDir = "models"

// Environment variable for models directory override.
const EnvModelsDir = "DOCWARP_MODELS_DIR"

// ModelInfo contains metadata about a segmentation model variant.
type ModelInfo struct {
	Name        string
	Filename    string
	Description string
	InputWidth  int
	InputHeight int
}

var variants = map[string]ModelInfo{
	VariantU2Net: {
		Name:        VariantU2Net,
		Filename:    SegmentationU2Net,
		Description: "U2-Net full salient object detection model",
		InputWidth:  320,
		InputHeight: 320,
	},
	VariantU2NetP: {
		Name:        VariantU2NetP,
		Filename:    SegmentationU2NetP,
		Description: "U2-Net small variant, faster with lower accuracy",
		InputWidth:  320,
		InputHeight: 320,
	},
	VariantSilueta: {
		Name:        VariantSilueta,
		Filename:    SegmentationSilueta,
		Description: "Silueta compact segmentation model",
		InputWidth:  320,
		InputHeight: 320,
	},
}

// GetVariant returns the model info for a configured variant name.
func GetVariant(name string) (ModelInfo, error) {
	info, ok := variants[name]
	if !ok {
		return ModelInfo{}, fmt.Errorf("unknown model variant: %q", name)
	}
	return info, nil
}

// ListAvailableModels returns information about all known model variants.
func ListAvailableModels() []ModelInfo {
	return []ModelInfo{
		variants[VariantU2Net],
		variants[VariantU2NetP],
		variants[VariantSilueta],
	}
}

// findProjectRoot finds the project root by looking for go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.New("could not find project root (go.mod not found)")
}

// GetModelsDir returns the models directory path from various sources
// Priority: 1. Explicit modelsDir parameter, 2. Environment variable, 3. Project root + default.
func GetModelsDir(modelsDir string) string {
	if modelsDir != "" {
		return modelsDir
	}

	if envDir := os.Getenv(EnvModelsDir); envDir != "" {
		return envDir
	}

	if projectRoot, err := findProjectRoot(); err == nil {
		return filepath.Join(projectRoot, DefaultModelsDir)
	}

	return DefaultModelsDir
}

// ResolveModelPath resolves a model filename to its full path
// Supports both the organized segmentation/ subdirectory and a flat layout.
func ResolveModelPath(modelsDir, filename string) string {
	baseDir := GetModelsDir(modelsDir)

	organized := filepath.Join(baseDir, TypeSegmentation, filename)
	if _, err := os.Stat(organized); err == nil {
		return organized
	}

	return filepath.Join(baseDir, filename)
}

// GetSegmentationModelPath returns the resolved path for a model variant.
func GetSegmentationModelPath(modelsDir, variant string) (string, error) {
	info, err := GetVariant(variant)
	if err != nil {
		return "", err
	}
	return ResolveModelPath(modelsDir, info.Filename), nil
}

// ValidateModelExists checks if a model file exists at the given path.
func ValidateModelExists(modelPath string) error {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", modelPath)
	}
	return nil
}
