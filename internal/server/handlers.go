package server

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/docwarp/docwarp/internal/pipeline"
	"github.com/docwarp/docwarp/internal/version"
)

// healthHandler handles health check requests.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ver, _, _ := version.Info()
	response := HealthResponse{
		Status:  "healthy",
		Version: ver,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode health response", "error", err)
	}
}

// processHandler handles document extraction requests. It accepts either a
// multipart form with an "image" field or a raw image body, and responds with
// the rectified document as base64-encoded PNG.
func (s *Server) processHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	data, err := s.readImageUpload(w, r)
	if err != nil {
		processRequestsTotal.WithLabelValues("http", "rejected").Inc()
		writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	uploadSizeBytes.Observe(float64(len(data)))

	pngData, res := s.processor.ProcessToPNG(data)
	processDuration.WithLabelValues("http").Observe(res.Elapsed.Seconds())

	if !res.Success {
		processRequestsTotal.WithLabelValues("http", "error").Inc()
		processFailuresTotal.WithLabelValues(string(res.Kind)).Inc()
		writeProcessResponse(w, statusForKind(res.Kind), ProcessResponse{
			Success:         false,
			Error:           res.Err(),
			ErrorKind:       string(res.Kind),
			Stage:           res.Stage,
			DurationSeconds: res.Elapsed.Seconds(),
		})
		return
	}

	processRequestsTotal.WithLabelValues("http", "success").Inc()
	writeProcessResponse(w, http.StatusOK, ProcessResponse{
		Success:         true,
		ImageBase64:     base64.StdEncoding.EncodeToString(pngData),
		DurationSeconds: res.Elapsed.Seconds(),
	})
}

// readImageUpload extracts the image bytes from a multipart form or raw body,
// enforcing the configured upload size limit.
func (s *Server) readImageUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	maxBytes := s.maxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			return nil, fmt.Errorf("failed to parse multipart form: %w", err)
		}
		file, _, err := r.FormFile("image")
		if err != nil {
			return nil, fmt.Errorf("missing image file in form: %w", err)
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read uploaded file: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty request body")
	}
	return data, nil
}

// statusForKind maps pipeline failure kinds to HTTP status codes.
func statusForKind(kind pipeline.ErrorKind) int {
	switch kind {
	case pipeline.KindDecode:
		return http.StatusBadRequest
	case pipeline.KindNoContour, pipeline.KindDegenerateGeometry:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeProcessResponse writes a process response as JSON.
func writeProcessResponse(w http.ResponseWriter, status int, response ProcessResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode process response", "error", err)
	}
}

// writeErrorResponse writes a generic error response as JSON.
func writeErrorResponse(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	response := ProcessResponse{Success: false, Error: message}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}
