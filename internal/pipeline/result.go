package pipeline

import (
	"image"
	"time"
)

// ErrorKind classifies pipeline failures for callers that map them onto
// transport-level responses.
type ErrorKind string

const (
	// KindDecode means the input bytes are not a parsable image.
	KindDecode ErrorKind = "decode"
	// KindSegmentation means the selected strategy could not produce a mask.
	KindSegmentation ErrorKind = "segmentation"
	// KindNoContour means the mask holds no foreground region to outline.
	KindNoContour ErrorKind = "no_contour"
	// KindDegenerateGeometry means the corners do not form a usable quad.
	KindDegenerateGeometry ErrorKind = "degenerate_geometry"
	// KindIO covers encode failures on the output path. Debug artifact
	// writes never produce this; they are logged and dropped.
	KindIO ErrorKind = "io"
	// KindInternal covers anything unclassified.
	KindInternal ErrorKind = "internal"
)

// Result is the immutable outcome of one pipeline invocation.
type Result struct {
	Success bool
	Image   image.Image
	Kind    ErrorKind
	Stage   string
	Message string
	Elapsed time.Duration
}

// Err returns a printable failure summary, empty on success.
func (r *Result) Err() string {
	if r.Success {
		return ""
	}
	return r.Stage + ": " + r.Message
}

func success(img image.Image, start time.Time) *Result {
	return &Result{
		Success: true,
		Image:   img,
		Elapsed: time.Since(start),
	}
}

func failure(kind ErrorKind, stage string, err error, start time.Time) *Result {
	return &Result{
		Kind:    kind,
		Stage:   stage,
		Message: err.Error(),
		Elapsed: time.Since(start),
	}
}
