package server

import (
	"net/http"

	"github.com/docwarp/docwarp/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// processorInterface defines the methods the server needs from a pipeline.
type processorInterface interface {
	ProcessToPNG(data []byte) ([]byte, *pipeline.Result)
	Close() error
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	processor   processorInterface
	corsOrigin  string
	maxUploadMB int64
	timeoutSec  int
}

// Config holds server configuration.
type Config struct {
	Host           string
	Port           int
	CORSOrigin     string
	MaxUploadMB    int64
	TimeoutSec     int
	PipelineConfig pipeline.Config
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// ProcessResponse is returned by the process endpoints.
type ProcessResponse struct {
	Success         bool    `json:"success"`
	Error           string  `json:"error,omitempty"`
	ErrorKind       string  `json:"error_kind,omitempty"`
	Stage           string  `json:"stage,omitempty"`
	ImageBase64     string  `json:"image_base64,omitempty"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// NewServer creates a document extraction server instance.
func NewServer(config Config) (*Server, error) {
	proc, err := pipeline.NewProcessor(config.PipelineConfig)
	if err != nil {
		return nil, err
	}

	return &Server{
		processor:   proc,
		corsOrigin:  config.CORSOrigin,
		maxUploadMB: config.MaxUploadMB,
		timeoutSec:  config.TimeoutSec,
	}, nil
}

// Close releases server resources.
func (s *Server) Close() error {
	if s.processor != nil {
		return s.processor.Close()
	}
	return nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/api/v1/process", s.corsMiddleware(s.processHandler))
	mux.HandleFunc("/ws/process", s.processWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
