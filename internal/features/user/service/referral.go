package service

import (
	"context"
	"fmt"
	"strings"

	"tma-backend/internal/common/logger"
	"tma-backend/internal/features/user/repository"
)

// Resolution is the outcome of looking up a referral code.
type Resolution struct {
	ReferrerID   int64
	Found        bool
	SelfReferral bool
}

// Applied reports whether the code names a referrer other than the requester.
func (r Resolution) Applied() bool { return r.Found && !r.SelfReferral }

// ReferralResolver turns a referral code into the id of the referring user.
// Callers must only consult it for users that do not exist yet.
type ReferralResolver struct {
	repo  repository.UserRepository
	cache ReferralCache
}

func NewReferralResolver(repo repository.UserRepository, cache ReferralCache) *ReferralResolver {
	return &ReferralResolver{repo: repo, cache: cache}
}

// Resolve looks up code on behalf of requesterID. Unknown codes and
// self-referrals are soft outcomes, not errors.
func (r *ReferralResolver) Resolve(ctx context.Context, code string, requesterID int64) (Resolution, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Resolution{}, nil
	}

	ownerID, found, err := r.lookup(ctx, code)
	if err != nil {
		return Resolution{}, err
	}
	if !found {
		logger.Warn().Str("referral_code", code).Int64("user_id", requesterID).Msg("Invalid referral code")
		return Resolution{}, nil
	}
	if ownerID == requesterID {
		logger.Warn().Str("referral_code", code).Int64("user_id", requesterID).Msg("Self-referral attempt blocked")
		return Resolution{ReferrerID: ownerID, Found: true, SelfReferral: true}, nil
	}

	logger.Info().Int64("user_id", requesterID).Int64("referrer_id", ownerID).Msg("Referral valid")
	return Resolution{ReferrerID: ownerID, Found: true}, nil
}

func (r *ReferralResolver) lookup(ctx context.Context, code string) (int64, bool, error) {
	if r.cache != nil {
		id, ok, err := r.cache.Lookup(ctx, code)
		if err != nil {
			logger.Warn().Err(err).Msg("Referral cache lookup failed")
		} else if ok {
			return id, true, nil
		}
	}

	if r.repo == nil {
		return 0, false, nil
	}
	owner, err := r.repo.GetByReferralCode(ctx, code)
	if err != nil {
		return 0, false, fmt.Errorf("resolve referral code: %w", err)
	}
	if owner == nil {
		return 0, false, nil
	}

	if r.cache != nil {
		if err := r.cache.Store(ctx, code, owner.TelegramID); err != nil {
			logger.Warn().Err(err).Msg("Referral cache store failed")
		}
	}
	return owner.TelegramID, true, nil
}
