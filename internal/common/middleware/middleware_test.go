package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "tma-backend/internal/common/errors"
	"tma-backend/internal/common/response"
)

type identifierFunc func(string) (int64, error)

func (f identifierFunc) Identify(raw string) (int64, error) { return f(raw) }

func newRouter(production bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery(production), ErrorHandler(production))
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestErrorHandlerRendersAppError(t *testing.T) {
	r := newRouter(true)
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(apperrors.NewMissingTelegramIDError())
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, apperrors.ErrCodeMissingTelegramID, env.Error.Code)
	assert.NotEmpty(t, env.RequestID)
	assert.Equal(t, env.RequestID, w.Header().Get("X-Request-ID"))
}

func TestErrorHandlerMasksInternalErrorsInProduction(t *testing.T) {
	for _, production := range []bool{true, false} {
		r := newRouter(production)
		r.GET("/x", func(c *gin.Context) {
			_ = c.Error(apperrors.NewDatabaseError("upsert user", errors.New("password=secret")))
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decode(t, w)
		assert.Equal(t, apperrors.ErrCodeDatabase, env.Error.Code)
		assert.NotContains(t, w.Body.String(), "password=secret")
		if production {
			assert.Empty(t, env.Error.Details)
		} else {
			assert.Equal(t, "upsert user", env.Error.Details["operation"])
		}
	}
}

func TestErrorHandlerWrapsPlainErrors(t *testing.T) {
	r := newRouter(true)
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apperrors.ErrCodeInternal, decode(t, w).Error.Code)
}

func TestRecovery(t *testing.T) {
	r := newRouter(true)
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decode(t, w)
	assert.Equal(t, apperrors.ErrCodeInternal, env.Error.Code)
	assert.NotContains(t, w.Body.String(), "kaboom")
}

func TestRequestIDPropagated(t *testing.T) {
	r := newRouter(false)
	r.GET("/ok", func(c *gin.Context) { response.OK(c, gin.H{"ok": true}) })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-1", decode(t, w).RequestID)
}

func TestOptionalInitData(t *testing.T) {
	identifier := identifierFunc(func(raw string) (int64, error) {
		if raw == "good" {
			return 42, nil
		}
		return 0, apperrors.NewInvalidSignatureError()
	})

	r := newRouter(true)
	r.Use(OptionalInitData(identifier))
	r.GET("/who", func(c *gin.Context) {
		id, ok := AuthenticatedUserID(c)
		response.OK(c, gin.H{"id": id, "authenticated": ok})
	})

	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
		wantBody   string
	}{
		{name: "absent", wantStatus: http.StatusOK, wantBody: `"authenticated":false`},
		{name: "authorization tma", header: "Authorization", value: "tma good", wantStatus: http.StatusOK, wantBody: `"id":42`},
		{name: "scheme case", header: "Authorization", value: "TMA good", wantStatus: http.StatusOK, wantBody: `"id":42`},
		{name: "custom header", header: "X-Telegram-Init-Data", value: "good", wantStatus: http.StatusOK, wantBody: `"id":42`},
		{name: "other scheme ignored", header: "Authorization", value: "Bearer good", wantStatus: http.StatusOK, wantBody: `"authenticated":false`},
		{name: "invalid", header: "Authorization", value: "tma bad", wantStatus: http.StatusUnauthorized, wantBody: "INVALID_SIGNATURE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/who", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}
