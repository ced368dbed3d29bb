package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "tma-backend/internal/common/errors"
	"tma-backend/internal/common/logger"
	"tma-backend/internal/common/response"
)

const RequestIDKey = "request_id"

// RequestID middleware для добавления ID запроса
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Recovery перехватывает панику и отвечает INTERNAL_ERROR
func Recovery(production bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Str("stack", string(debug.Stack())).
			Msg("Panic recovered")

		appErr := apperrors.New(apperrors.ErrCodeInternal, "Internal server error")
		if !production {
			appErr.WithDetail("panic", fmt.Sprintf("%v", recovered))
		}
		response.Fail(c, appErr)
	})
}

// ErrorHandler renders the last error a handler attached with c.Error.
// In production internal errors lose their details.
func ErrorHandler(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr, ok := apperrors.AsAppError(err)
		if !ok {
			appErr = apperrors.NewInternalError(err)
		}
		logError(c, appErr)

		if production && appErr.IsInternal() {
			appErr = &apperrors.AppError{Code: appErr.Code, Message: genericMessage(appErr.Code)}
		}
		response.Fail(c, appErr)
	}
}

func genericMessage(code apperrors.ErrorCode) string {
	if code == apperrors.ErrCodeDatabase {
		return "Database operation failed"
	}
	return "An unexpected error occurred"
}

// logError логирует ошибку с контекстом запроса
func logError(c *gin.Context, appErr *apperrors.AppError) {
	event := logger.Info()
	switch {
	case appErr.IsInternal():
		event = logger.Error()
	case appErr.IsUnauthorized():
		event = logger.Warn()
	}

	event = event.
		Str("request_id", c.GetString(RequestIDKey)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("error_code", string(appErr.Code)).
		Str("error_message", appErr.Message)
	if len(appErr.Details) > 0 {
		event = event.Interface("details", appErr.Details)
	}
	if appErr.Cause != nil {
		event = event.Err(appErr.Cause)
	}
	event.Msg("Request failed")
}
