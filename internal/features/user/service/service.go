package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tma-backend/internal/common/logger"
	"tma-backend/internal/features/user/models"
	"tma-backend/internal/features/user/repository"
)

const (
	defaultReferralLimit = 100
	maxReferralLimit     = 1000
	referralCodeLength   = 16
)

// UpsertResult describes what a login did to the user record.
type UpsertResult struct {
	User            *models.User
	IsNewUser       bool
	ReferralApplied bool
	// Degraded is set when the record was synthesized without storage.
	Degraded bool
}

type userService struct {
	repo      repository.UserRepository
	cache     UserCache
	referrals *ReferralResolver
	wallets   AddressNormalizer

	now     func() time.Time
	newCode func() string
}

// NewUserService wires the upsert engine. repo may be nil, in which case the
// service runs degraded and synthesizes records. Caches are optional.
func NewUserService(repo repository.UserRepository, cache UserCache, referrals *ReferralResolver, wallets AddressNormalizer) UserService {
	if referrals == nil {
		referrals = NewReferralResolver(repo, nil)
	}
	return &userService{
		repo:      repo,
		cache:     cache,
		referrals: referrals,
		wallets:   wallets,
		now:       time.Now,
		newCode:   newReferralCode,
	}
}

func (s *userService) Degraded() bool {
	return s.repo == nil
}

// Upsert создает пользователя при первом входе или обновляет профиль.
// Реферер назначается только при создании и больше никогда не меняется.
func (s *userService) Upsert(ctx context.Context, identity models.Identity, referralCode string) (*UpsertResult, error) {
	if identity.ID <= 0 {
		return nil, ErrInvalidIdentity
	}
	now := s.now().UTC()

	if s.repo == nil {
		logger.Warn().Int64("user_id", identity.ID).Msg("Storage not configured, returning synthesized user")
		return &UpsertResult{User: synthesizeUser(identity, now), IsNewUser: true, Degraded: true}, nil
	}

	existing, err := s.repo.GetByTelegramID(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	params := repository.UpsertParams{Identity: identity, At: now}
	var resolution Resolution
	if existing == nil {
		resolution, err = s.referrals.Resolve(ctx, referralCode, identity.ID)
		if err != nil {
			return nil, err
		}
		if resolution.Applied() {
			referrerID := resolution.ReferrerID
			params.ReferrerID = &referrerID
		}
		params.ReferralCode = s.newCode()
	} else {
		// ON CONFLICT keeps the stored code; any non-empty value satisfies NOT NULL.
		params.ReferralCode = existing.ReferralCode
	}

	user, inserted, err := s.repo.Upsert(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	result := &UpsertResult{
		User:      user,
		IsNewUser: inserted,
		// a concurrent first login may have won the insert, the referral then never applied
		ReferralApplied: inserted && user.ReferrerID != nil,
	}

	if inserted {
		logger.Info().Int64("user_id", user.TelegramID).Bool("referred", result.ReferralApplied).Msg("New user created")
	} else {
		logger.Debug().Int64("user_id", user.TelegramID).Msg("User profile updated")
	}

	s.cacheUser(ctx, user)
	return result, nil
}

// GetUser returns the stored user or ErrUserNotFound.
func (s *userService) GetUser(ctx context.Context, telegramID int64) (*models.User, error) {
	if s.repo == nil {
		return nil, ErrUserNotFound
	}
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, telegramID)
		if err != nil {
			logger.Warn().Err(err).Int64("user_id", telegramID).Msg("User cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	user, err := s.repo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	s.cacheUser(ctx, user)
	return user, nil
}

// GetReferrals returns users referred by telegramID, newest first.
func (s *userService) GetReferrals(ctx context.Context, telegramID int64, limit, offset int) ([]models.User, error) {
	if s.repo == nil {
		return []models.User{}, nil
	}
	if limit <= 0 {
		limit = defaultReferralLimit
	}
	if limit > maxReferralLimit {
		limit = maxReferralLimit
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.repo.ListReferrals(ctx, telegramID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list referrals: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *userService) cacheUser(ctx context.Context, user *models.User) {
	if s.cache == nil || user == nil {
		return
	}
	if err := s.cache.Set(ctx, user); err != nil {
		logger.Warn().Err(err).Int64("user_id", user.TelegramID).Msg("User cache write failed")
	}
}

func synthesizeUser(identity models.Identity, now time.Time) *models.User {
	id := fmt.Sprintf("%d", identity.ID)
	if len(id) > referralCodeLength-1 {
		id = id[:referralCodeLength-1]
	}
	lang := identity.LanguageCode
	if lang == "" {
		lang = "en"
	}
	return &models.User{
		TelegramID:   identity.ID,
		Username:     optional(identity.Username),
		FirstName:    identity.FirstName,
		LastName:     optional(identity.LastName),
		LanguageCode: lang,
		IsPremium:    identity.IsPremium,
		PhotoURL:     optional(identity.PhotoURL),
		Role:         models.DefaultRole,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastLogin:    now,
		ReferralCode: "r" + id,
	}
}

func newReferralCode() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "r" + hex[:referralCodeLength-1]
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
