package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	apperrors "tma-backend/internal/common/errors"
	"tma-backend/internal/common/middleware"
	"tma-backend/internal/common/response"
	authservice "tma-backend/internal/features/auth/service"
	"tma-backend/internal/features/user/models"
	userservice "tma-backend/internal/features/user/service"
)

type AuthHandler struct {
	auth  authservice.AuthService
	users userservice.UserService
}

func NewAuthHandler(auth authservice.AuthService, users userservice.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

func (h *AuthHandler) RegisterRoutes(router gin.IRouter) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", h.login)
		auth.GET("/me", h.me)

		owned := auth.Group("", middleware.OptionalInitData(h.auth))
		owned.GET("/referrals", h.referrals)
		owned.POST("/wallet/connect", h.connectWallet)
		owned.POST("/wallet/disconnect", h.disconnectWallet)
	}
}

type LoginRequest struct {
	InitData string `json:"initData" example:"query_id=AAH...&user=%7B%22id%22%3A1%7D&auth_date=1700000000&hash=abc"`
}

// WalletConnectRequest accepts telegram_id and chain as numbers or strings.
type WalletConnectRequest struct {
	TelegramID interface{}    `json:"telegram_id" swaggertype:"integer" example:"123456789"`
	Wallet     *WalletPayload `json:"wallet"`
}

type WalletPayload struct {
	Address         string      `json:"address" example:"0:83dfd552e63729b472fcbcc8c45ebcc6691702558b68ec7527e1ba403a0f31a8"`
	AddressFriendly string      `json:"addressFriendly"`
	Chain           interface{} `json:"chain" swaggertype:"string" example:"-239"`
	AppName         string      `json:"appName"`
}

type WalletDisconnectRequest struct {
	TelegramID interface{} `json:"telegram_id" swaggertype:"integer" example:"123456789"`
}

// @Summary Login with Telegram init data
// @Description Verifies the Mini App init data, creates or refreshes the user and applies a referral from start_param on first login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Init data"
// @Success 200 {object} response.Envelope{data=authservice.LoginResult}
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.InitData) == "" {
		_ = c.Error(apperrors.NewMissingInitDataError())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.InitData)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, result)
}

// @Summary Current user profile
// @Tags auth
// @Produce json
// @Failure 501 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) me(c *gin.Context) {
	_ = c.Error(apperrors.NewNotImplementedError("Profile endpoint is not implemented yet"))
}

// @Summary List referred users
// @Description Users whose referrer is telegram_id, newest first
// @Tags auth
// @Produce json
// @Param telegram_id query int true "Telegram user id"
// @Param limit query int false "Page size (default 100, max 1000)"
// @Param offset query int false "Offset"
// @Param Authorization header string false "tma <initData>"
// @Success 200 {object} response.Envelope{data=[]models.User}
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/referrals [get]
func (h *AuthHandler) referrals(c *gin.Context) {
	telegramID, ok := telegramIDFrom(c.Query("telegram_id"))
	if !ok {
		_ = c.Error(apperrors.NewMissingTelegramIDError())
		return
	}
	if !h.authorize(c, telegramID) {
		return
	}

	limit := queryInt(c, "limit")
	offset := queryInt(c, "offset")

	users, err := h.users.GetReferrals(c.Request.Context(), telegramID, limit, offset)
	if err != nil {
		_ = c.Error(apperrors.NewDatabaseError("list referrals", err))
		return
	}
	response.OK(c, users)
}

// @Summary Connect a TON wallet
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body WalletConnectRequest true "Wallet"
// @Param Authorization header string false "tma <initData>"
// @Success 200 {object} response.Envelope{data=models.User}
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/wallet/connect [post]
func (h *AuthHandler) connectWallet(c *gin.Context) {
	var req WalletConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.New(apperrors.ErrCodeBadRequest, "Invalid JSON body"))
		return
	}

	telegramID, ok := telegramIDFrom(req.TelegramID)
	if !ok {
		_ = c.Error(apperrors.NewMissingTelegramIDError())
		return
	}
	if req.Wallet == nil || strings.TrimSpace(req.Wallet.Address) == "" {
		_ = c.Error(apperrors.NewMissingWalletDataError("address is required"))
		return
	}
	chain, ok := chainFrom(req.Wallet.Chain)
	if !ok {
		_ = c.Error(apperrors.NewMissingWalletDataError("chain is required"))
		return
	}
	if !h.authorize(c, telegramID) {
		return
	}

	user, err := h.users.ConnectWallet(c.Request.Context(), telegramID, models.Wallet{
		Address:         req.Wallet.Address,
		AddressFriendly: req.Wallet.AddressFriendly,
		Chain:           chain,
		AppName:         req.Wallet.AppName,
	})
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrInvalidWallet):
			_ = c.Error(apperrors.NewMissingWalletDataError(err.Error()))
		case errors.Is(err, userservice.ErrWalletTaken):
			_ = c.Error(apperrors.New(apperrors.ErrCodeWalletConnectFailed, "Wallet is already connected to another account"))
		case errors.Is(err, userservice.ErrUserNotFound):
			_ = c.Error(apperrors.New(apperrors.ErrCodeWalletConnectFailed, "User not found"))
		default:
			_ = c.Error(apperrors.NewDatabaseError("connect wallet", err))
		}
		return
	}
	response.OK(c, user)
}

// @Summary Disconnect the TON wallet
// @Description Idempotent: disconnecting without a wallet succeeds
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body WalletDisconnectRequest true "User"
// @Param Authorization header string false "tma <initData>"
// @Success 200 {object} response.Envelope{data=models.User}
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/wallet/disconnect [post]
func (h *AuthHandler) disconnectWallet(c *gin.Context) {
	var req WalletDisconnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.New(apperrors.ErrCodeBadRequest, "Invalid JSON body"))
		return
	}

	telegramID, ok := telegramIDFrom(req.TelegramID)
	if !ok {
		_ = c.Error(apperrors.NewMissingTelegramIDError())
		return
	}
	if !h.authorize(c, telegramID) {
		return
	}

	user, err := h.users.DisconnectWallet(c.Request.Context(), telegramID)
	if err != nil {
		if errors.Is(err, userservice.ErrUserNotFound) {
			_ = c.Error(apperrors.New(apperrors.ErrCodeWalletDisconnectFailed, "User not found"))
			return
		}
		_ = c.Error(apperrors.NewDatabaseError("disconnect wallet", err))
		return
	}
	response.OK(c, user)
}

// authorize rejects requests whose init data names another user.
func (h *AuthHandler) authorize(c *gin.Context, telegramID int64) bool {
	callerID, ok := middleware.AuthenticatedUserID(c)
	if !ok || callerID == telegramID {
		return true
	}
	_ = c.Error(apperrors.NewForbiddenError(fmt.Sprintf("init data belongs to user %d", callerID)))
	return false
}

// parseInt64 reads strings and json.Number as base-10 text so "0777" is 777,
// never octal. Other JSON values go through cast.
func parseInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, errors.New("value is missing")
	case json.Number:
		return strconv.ParseInt(n.String(), 10, 64)
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	}
	return cast.ToInt64E(v)
}

func telegramIDFrom(v interface{}) (int64, bool) {
	id, err := parseInt64(v)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func chainFrom(v interface{}) (int32, bool) {
	chain, err := parseInt64(v)
	if err != nil || chain < math.MinInt32 || chain > math.MaxInt32 {
		return 0, false
	}
	return int32(chain), true
}

// queryInt returns 0 for absent or malformed values, the service applies defaults.
func queryInt(c *gin.Context, key string) int {
	v, err := parseInt64(c.Query(key))
	if err != nil || v < math.MinInt32 || v > math.MaxInt32 {
		return 0
	}
	return int(v)
}
