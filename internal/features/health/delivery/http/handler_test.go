package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(h *HealthHandler, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	w := serve(NewHealthHandler("1.2.3", nil), "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool         `json:"success"`
		Data    HealthStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "ok", body.Data.Status)
	assert.Equal(t, "1.2.3", body.Data.Version)
	assert.NotEmpty(t, body.Data.Uptime)
}

func TestLive(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(NewHealthHandler("", nil), "/health/live").Code)
}

func TestReady(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }

	w := serve(NewHealthHandler("", map[string]Checker{"postgres": ok, "redis": ok}), "/health/ready")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(NewHealthHandler("", map[string]Checker{"postgres": ok, "redis": down}), "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var status HealthStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "unready", status.Status)
	assert.Equal(t, map[string]string{"postgres": "ok", "redis": "unavailable"}, status.Checks)
	assert.NotContains(t, w.Body.String(), "refused")

	// nothing configured, degraded mode is still ready
	w = serve(NewHealthHandler("", nil), "/health/ready")
	assert.Equal(t, http.StatusOK, w.Code)
}
