package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/docwarp/docwarp/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerRejectsInvalidPipeline(t *testing.T) {
	cfg := pipeline.DefaultConfig()
	cfg.Strategy = "telepathy"

	s, err := NewServer(Config{PipelineConfig: cfg})
	require.Error(t, err)
	assert.Nil(t, s)
}

func TestServerClose(t *testing.T) {
	proc := &mockProcessor{}
	s := newMockServer(proc)

	require.NoError(t, s.Close())
	assert.True(t, proc.closed)
}

func TestSetupRoutes(t *testing.T) {
	s := newMockServer(&mockProcessor{})

	mux := http.NewServeMux()
	s.SetupRoutes(mux)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	metrics, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = metrics.Body.Close() }()
	assert.Equal(t, http.StatusOK, metrics.StatusCode)
}
