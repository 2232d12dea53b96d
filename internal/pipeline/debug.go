package pipeline

import (
	"image"
	"image/color"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/docwarp/docwarp/internal/utils"
)

// saveDebugArtifacts writes the corner-annotated original and the rectified
// output into a timestamped subdirectory. Failures are logged and never
// surface to the caller.
func saveDebugArtifacts(dir string, img image.Image, quad [4]utils.Point, rectified image.Image) {
	outDir := filepath.Join(dir, time.Now().Format("20060102_150405"))

	annotated := utils.ToRGBA(img)
	utils.DrawPolygon(annotated, quad[:], color.RGBA{255, 0, 0, 255}, 2)
	if err := utils.SavePNG(filepath.Join(outDir, "corners.png"), annotated); err != nil {
		slog.Warn("failed to save debug corner overlay", "path", outDir, "error", err)
		return
	}

	if err := utils.SavePNG(filepath.Join(outDir, "rectified.png"), rectified); err != nil {
		slog.Warn("failed to save debug rectified image", "path", outDir, "error", err)
	}
}
