package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	TelegramUserIDKey = "telegram_user_id"

	authScheme       = "tma "
	initDataHeader   = "X-Telegram-Init-Data"
	authorizationKey = "Authorization"
)

// Identifier verifies init data and returns the Telegram user id inside it.
type Identifier interface {
	Identify(initData string) (int64, error)
}

// OptionalInitData authenticates the caller when init data is sent in
// "Authorization: tma <initData>" or X-Telegram-Init-Data. Requests without
// it pass through untouched; requests with invalid init data are rejected.
func OptionalInitData(identifier Identifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := InitDataFromHeaders(c)
		if raw == "" {
			c.Next()
			return
		}

		userID, err := identifier.Identify(raw)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(TelegramUserIDKey, userID)
		c.Next()
	}
}

// InitDataFromHeaders extracts raw init data from the request headers.
func InitDataFromHeaders(c *gin.Context) string {
	if auth := c.GetHeader(authorizationKey); len(auth) > len(authScheme) && strings.EqualFold(auth[:len(authScheme)], authScheme) {
		return strings.TrimSpace(auth[len(authScheme):])
	}
	return strings.TrimSpace(c.GetHeader(initDataHeader))
}

// AuthenticatedUserID returns the id set by OptionalInitData, if any.
func AuthenticatedUserID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(TelegramUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
