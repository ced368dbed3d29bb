package repository

import (
	"context"
	"errors"
	"time"

	"tma-backend/internal/features/user/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrWalletTaken is returned when the storage uniqueness constraint on
	// wallet_address rejects a write.
	ErrWalletTaken = errors.New("wallet address is bound to another user")
)

// UpsertParams carries one login write.
type UpsertParams struct {
	Identity models.Identity
	// Only used when the row is inserted.
	ReferrerID   *int64
	ReferralCode string
	At           time.Time
}

// WalletParams carries a normalized wallet binding.
type WalletParams struct {
	Address         string
	AddressFriendly string
	Chain           int32
	AppName         string
	ConnectedAt     time.Time
}

type UserRepository interface {
	// GetByTelegramID returns nil, nil when there is no such user.
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)
	GetByReferralCode(ctx context.Context, code string) (*models.User, error)
	GetByWalletAddress(ctx context.Context, address string) (*models.User, error)

	// Upsert inserts the user or refreshes its identity fields and last_login
	// in one atomic statement. inserted reports which of the two happened.
	Upsert(ctx context.Context, p UpsertParams) (user *models.User, inserted bool, err error)

	ListReferrals(ctx context.Context, referrerID int64, limit, offset int) ([]models.User, error)

	// SetWallet and ClearWallet return ErrUserNotFound for unknown ids.
	SetWallet(ctx context.Context, telegramID int64, w WalletParams) (*models.User, error)
	ClearWallet(ctx context.Context, telegramID int64) (*models.User, error)
}
