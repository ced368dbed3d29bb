package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "tma-backend/internal/common/errors"
)

// Envelope is the wire shape of every JSON response.
type Envelope struct {
	Success   bool                `json:"success"`
	Data      interface{}         `json:"data,omitempty"`
	Error     *apperrors.AppError `json:"error,omitempty"`
	Timestamp int64               `json:"timestamp"`
	RequestID string              `json:"request_id,omitempty"`
}

// Now returns the envelope timestamp (milliseconds since epoch).
func Now() int64 { return time.Now().UnixMilli() }

// OK writes a 200 success envelope.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{
		Success:   true,
		Data:      data,
		Timestamp: Now(),
		RequestID: c.GetString("request_id"),
	})
}

// Fail writes an error envelope with the status derived from the code.
func Fail(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(StatusFor(appErr.Code), Envelope{
		Success:   false,
		Error:     appErr,
		Timestamp: Now(),
		RequestID: c.GetString("request_id"),
	})
}

// StatusFor maps a stable error code to its HTTP status.
func StatusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeMissingInitData,
		apperrors.ErrCodeParse,
		apperrors.ErrCodeBadRequest,
		apperrors.ErrCodeMissingTelegramID,
		apperrors.ErrCodeMissingWalletData,
		apperrors.ErrCodeWalletConnectFailed,
		apperrors.ErrCodeWalletDisconnectFailed:
		return http.StatusBadRequest
	case apperrors.ErrCodeInvalidSignature:
		return http.StatusUnauthorized
	case apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
