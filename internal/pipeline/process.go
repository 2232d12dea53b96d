package pipeline

import (
	"errors"
	"image"
	"log/slog"
	"time"

	"github.com/docwarp/docwarp/internal/common"
	"github.com/docwarp/docwarp/internal/corners"
	"github.com/docwarp/docwarp/internal/rectify"
	"github.com/docwarp/docwarp/internal/segmentation"
	"github.com/docwarp/docwarp/internal/utils"
)

// Process decodes the image bytes and runs segmentation, corner extraction,
// and rectification, recording elapsed wall-clock time in the result.
func (p *Processor) Process(data []byte) *Result {
	start := time.Now()

	img, format, err := utils.DecodeImage(data)
	if err != nil {
		return failure(KindDecode, "decode", err, start)
	}
	slog.Debug("decoded input image",
		"format", format,
		"width", img.Bounds().Dx(),
		"height", img.Bounds().Dy())

	return p.processImage(img, start)
}

// ProcessImage runs the pipeline on an already decoded image.
func (p *Processor) ProcessImage(img image.Image) *Result {
	return p.processImage(img, time.Now())
}

// ProcessToPNG runs Process and encodes a successful result as PNG bytes.
func (p *Processor) ProcessToPNG(data []byte) ([]byte, *Result) {
	res := p.Process(data)
	if !res.Success {
		return nil, res
	}
	png, err := utils.EncodePNG(res.Image)
	if err != nil {
		return nil, &Result{Kind: KindIO, Stage: "encode", Message: err.Error(), Elapsed: res.Elapsed}
	}
	return png, res
}

func (p *Processor) processImage(img image.Image, start time.Time) *Result {
	tm := common.NewNamedTimer("segment")
	mask, err := p.segment(img)
	if err != nil {
		return failure(KindSegmentation, "segment", err, start)
	}
	slog.Debug("stage complete", "stage", tm.Name(), "duration", tm.Stop())

	tm = common.NewNamedTimer("corners")
	quad, err := p.extractor.ExtractCorners(mask)
	if err != nil {
		if errors.Is(err, corners.ErrNoContour) {
			return failure(KindNoContour, "corners", err, start)
		}
		return failure(KindInternal, "corners", err, start)
	}
	slog.Debug("stage complete", "stage", tm.Name(), "duration", tm.Stop())

	quad = scaleToImage(quad, mask, img)

	tm = common.NewNamedTimer("rectify")
	out, err := rectify.Rectify(img, quad, p.cfg.PaddingRatio)
	if err != nil {
		if errors.Is(err, rectify.ErrDegenerateGeometry) {
			return failure(KindDegenerateGeometry, "rectify", err, start)
		}
		return failure(KindInternal, "rectify", err, start)
	}
	slog.Debug("stage complete", "stage", tm.Name(), "duration", tm.Stop())

	if p.cfg.DebugDir != "" {
		saveDebugArtifacts(p.cfg.DebugDir, img, quad, out)
	}

	res := success(out, start)
	slog.Debug("pipeline finished",
		"strategy", p.strategy.Name(),
		"elapsed", res.Elapsed)
	return res
}

// segment runs the primary strategy, degrading to the fallback when the
// neural session cannot initialize. This is the pipeline's only retry.
func (p *Processor) segment(img image.Image) (*segmentation.Mask, error) {
	mask, err := p.strategy.Segment(img)
	if err != nil && p.fallback != nil && errors.Is(err, segmentation.ErrModelUnavailable) {
		slog.Warn("segmentation degraded to fallback strategy",
			"strategy", p.strategy.Name(),
			"fallback", p.fallback.Name(),
			"reason", err)
		return p.fallback.Segment(img)
	}
	return mask, err
}

// scaleToImage maps mask-space corners into image coordinates, scaling each
// axis independently when the mask resolution differs.
func scaleToImage(quad [4]utils.Point, mask *segmentation.Mask, img image.Image) [4]utils.Point {
	b := img.Bounds()
	if mask.Width() == b.Dx() && mask.Height() == b.Dy() {
		return quad
	}
	sx := float64(b.Dx()) / float64(mask.Width())
	sy := float64(b.Dy()) / float64(mask.Height())
	for i := range quad {
		quad[i] = utils.ScalePoint(quad[i], sx, sy)
	}
	return quad
}
