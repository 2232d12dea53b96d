package server

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/docwarp/docwarp/internal/pipeline"
	"github.com/docwarp/docwarp/internal/segmentation"
)

// mockProcessor is a canned pipeline implementation for handler tests.
type mockProcessor struct {
	png    []byte
	result *pipeline.Result
	closed bool
}

func (m *mockProcessor) ProcessToPNG(data []byte) ([]byte, *pipeline.Result) {
	return m.png, m.result
}

func (m *mockProcessor) Close() error {
	m.closed = true
	return nil
}

// newMockServer builds a server around a mock processor.
func newMockServer(proc processorInterface) *Server {
	return &Server{
		processor:   proc,
		corsOrigin:  "*",
		maxUploadMB: 50,
		timeoutSec:  30,
	}
}

// newThresholdServer builds a server with a real threshold pipeline, which
// needs no model files.
func newThresholdServer() (*Server, error) {
	cfg := pipeline.NewBuilder().
		WithStrategy(segmentation.StrategyThreshold).
		WithFallbackStrategy("").
		Config()
	return NewServer(Config{
		CORSOrigin:     "*",
		MaxUploadMB:    50,
		TimeoutSec:     30,
		PipelineConfig: cfg,
	})
}

// successResult returns a canned successful pipeline result.
func successResult() *pipeline.Result {
	return &pipeline.Result{Success: true, Elapsed: 12 * time.Millisecond}
}

// documentPNG renders a bright document on a dark background and encodes it
// as PNG.
func documentPNG(w, h int, doc image.Rectangle) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{35, 35, 40, 255}), image.Point{}, draw.Src)
	draw.Draw(img, doc, image.NewUniform(color.RGBA{250, 248, 245, 255}), image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// multipartRequest builds a multipart POST with the payload as the "image"
// form field.
func multipartRequest(url string, payload []byte) (*http.Request, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "document.png")
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(payload); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req := httptest.NewRequest(http.MethodPost, url, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req, nil
}
