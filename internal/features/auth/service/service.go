package service

import (
	"context"
	"errors"
	"strings"

	apperrors "tma-backend/internal/common/errors"
	"tma-backend/internal/common/logger"
	"tma-backend/internal/features/auth/initdata"
	"tma-backend/internal/features/user/models"
	userservice "tma-backend/internal/features/user/service"
)

// LoginResult is the payload of a successful login.
type LoginResult struct {
	User            *models.User `json:"user"`
	IsNewUser       bool         `json:"isNewUser"`
	ReferralApplied bool         `json:"referralApplied"`
	Degraded        bool         `json:"degraded,omitempty"`
}

type AuthService interface {
	// Login verifies initData and records the login. Errors are *AppError.
	Login(ctx context.Context, initData string) (*LoginResult, error)
	// Identify verifies initData and returns the Telegram user id it carries.
	Identify(initData string) (int64, error)
}

type authService struct {
	strategy initdata.Strategy
	users    userservice.UserService
}

func NewAuthService(strategy initdata.Strategy, users userservice.UserService) AuthService {
	return &authService{strategy: strategy, users: users}
}

func (s *authService) Login(ctx context.Context, initData string) (*LoginResult, error) {
	payload, err := s.authenticate(initData)
	if err != nil {
		return nil, err
	}

	res, err := s.users.Upsert(ctx, payload.User, payload.StartParam)
	if err != nil {
		if errors.Is(err, userservice.ErrInvalidIdentity) {
			return nil, apperrors.NewParseError(err)
		}
		logger.Error().Err(err).Int64("user_id", payload.User.ID).Msg("Failed to upsert user")
		return nil, apperrors.NewDatabaseError("upsert user", err)
	}

	logger.Info().
		Int64("user_id", res.User.TelegramID).
		Bool("new_user", res.IsNewUser).
		Bool("referral_applied", res.ReferralApplied).
		Bool("mock", s.strategy.Mock && initdata.IsMock(initData)).
		Msg("User logged in")

	return &LoginResult{
		User:            res.User,
		IsNewUser:       res.IsNewUser,
		ReferralApplied: res.ReferralApplied,
		Degraded:        res.Degraded,
	}, nil
}

func (s *authService) Identify(initData string) (int64, error) {
	payload, err := s.authenticate(initData)
	if err != nil {
		return 0, err
	}
	return payload.User.ID, nil
}

func (s *authService) authenticate(initData string) (*initdata.Payload, error) {
	if strings.TrimSpace(initData) == "" {
		return nil, apperrors.NewMissingInitDataError()
	}

	payload, err := s.strategy.Authenticate(initData)
	if err != nil {
		var parseErr *initdata.ParseError
		switch {
		case errors.Is(err, initdata.ErrInvalidSignature):
			logger.Warn().Msg("Invalid init data signature")
			return nil, apperrors.NewInvalidSignatureError()
		case errors.As(err, &parseErr):
			logger.Warn().Str("reason", parseErr.Reason).Msg("Failed to parse init data")
			return nil, apperrors.NewParseError(err)
		default:
			return nil, apperrors.NewInternalError(err)
		}
	}
	return payload, nil
}
