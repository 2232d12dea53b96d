package corners

import (
	"image/color"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/docwarp/docwarp/internal/segmentation"
	"github.com/docwarp/docwarp/internal/utils"
)

// saveContourDebug writes the mask and a contour overlay into a timestamped
// subdirectory. Failures are logged and never surface to the caller.
func saveContourDebug(dir string, mask *segmentation.Mask, contour []utils.Point) {
	outDir := filepath.Join(dir, time.Now().Format("20060102_150405"))

	if err := utils.SavePNG(filepath.Join(outDir, "mask.png"), mask.Gray); err != nil {
		slog.Warn("failed to save debug mask", "path", outDir, "error", err)
		return
	}

	overlay := utils.ToRGBA(mask.Gray)
	utils.DrawPolygon(overlay, contour, color.RGBA{0, 255, 0, 255}, 2)
	if err := utils.SavePNG(filepath.Join(outDir, "contour.png"), overlay); err != nil {
		slog.Warn("failed to save debug contour", "path", outDir, "error", err)
	}
}
