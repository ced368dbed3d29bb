package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorCode представляет стабильный код ошибки, который видит клиент
type ErrorCode string

const (
	// Общие ошибки
	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"
	ErrCodeBadRequest     ErrorCode = "BAD_REQUEST"
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeForbidden      ErrorCode = "FORBIDDEN"
	ErrCodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Ошибки аутентификации
	ErrCodeMissingInitData  ErrorCode = "MISSING_INIT_DATA"
	ErrCodeInvalidSignature ErrorCode = "INVALID_SIGNATURE"
	ErrCodeParse            ErrorCode = "PARSE_ERROR"

	// Ошибки пользователей и кошельков
	ErrCodeMissingTelegramID      ErrorCode = "MISSING_TELEGRAM_ID"
	ErrCodeMissingWalletData      ErrorCode = "MISSING_WALLET_DATA"
	ErrCodeWalletConnectFailed    ErrorCode = "WALLET_CONNECT_FAILED"
	ErrCodeWalletDisconnectFailed ErrorCode = "WALLET_DISCONNECT_FAILED"

	// Ошибки базы данных
	ErrCodeDatabase ErrorCode = "DATABASE_ERROR"
)

// AppError представляет типизированную ошибку приложения
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"-"`
	Cause     error                  `json:"-"`
}

// Error возвращает строковое представление ошибки
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap возвращает причину ошибки
func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsInternal сообщает, что ошибка серверная и детали нельзя отдавать клиенту
func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal || e.Code == ErrCodeDatabase
}

// IsUnauthorized проверяет, является ли ошибка ошибкой авторизации
func (e *AppError) IsUnauthorized() bool {
	return e.Code == ErrCodeInvalidSignature || e.Code == ErrCodeForbidden
}

// WithDetail добавляет детальную информацию к ошибке
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New создает новую ошибку приложения
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Wrap оборачивает существующую ошибку
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Конструкторы для часто используемых ошибок

func NewMissingInitDataError() *AppError {
	return New(ErrCodeMissingInitData, "initData is required")
}

func NewInvalidSignatureError() *AppError {
	return New(ErrCodeInvalidSignature, "Telegram data validation failed")
}

func NewParseError(err error) *AppError {
	return Wrap(err, ErrCodeParse, "Failed to parse user data")
}

func NewMissingTelegramIDError() *AppError {
	return New(ErrCodeMissingTelegramID, "telegram_id is required")
}

func NewMissingWalletDataError(reason string) *AppError {
	return New(ErrCodeMissingWalletData, "wallet address and chain are required").
		WithDetail("reason", reason)
}

// NewDatabaseError создает ошибку базы данных
func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabase, fmt.Sprintf("Database operation failed: %s", operation)).
		WithDetail("operation", operation)
}

func NewForbiddenError(reason string) *AppError {
	return New(ErrCodeForbidden, fmt.Sprintf("Forbidden: %s", reason))
}

func NewNotImplementedError(message string) *AppError {
	return New(ErrCodeNotImplemented, message)
}

// NewInternalError создает внутреннюю ошибку
func NewInternalError(err error) *AppError {
	return Wrap(err, ErrCodeInternal, "An unexpected error occurred")
}

// AsAppError приводит ошибку к AppError, в том числе обёрнутую через %w
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err == nil || !stderrors.As(err, &appErr) {
		return nil, false
	}
	return appErr, true
}
