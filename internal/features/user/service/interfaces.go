package service

import (
	"context"

	"tma-backend/internal/features/user/models"
	"tma-backend/internal/platform/ton"
)

type UserService interface {
	// Upsert records a verified login. referralCode is only honoured when the
	// user is created by this call.
	Upsert(ctx context.Context, identity models.Identity, referralCode string) (*UpsertResult, error)
	GetUser(ctx context.Context, telegramID int64) (*models.User, error)
	GetReferrals(ctx context.Context, telegramID int64, limit, offset int) ([]models.User, error)
	ConnectWallet(ctx context.Context, telegramID int64, wallet models.Wallet) (*models.User, error)
	DisconnectWallet(ctx context.Context, telegramID int64) (*models.User, error)
	// Degraded reports that no storage is configured and records are synthesized.
	Degraded() bool
}

// UserCache is an optional read-through cache in front of the repository.
type UserCache interface {
	Get(ctx context.Context, telegramID int64) (*models.User, error)
	Set(ctx context.Context, u *models.User) error
	Invalidate(ctx context.Context, telegramID int64) error
}

// ReferralCache is an optional referral code -> owner id cache.
type ReferralCache interface {
	Lookup(ctx context.Context, code string) (telegramID int64, ok bool, err error)
	Store(ctx context.Context, code string, telegramID int64) error
}

type AddressNormalizer interface {
	Normalize(address, friendly string, chain int32) (ton.Address, error)
}
