package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"tma-backend/internal/features/user/models"
	"tma-backend/internal/features/user/repository"
)

const (
	uniqueViolation        = "23505"
	walletAddressIndexName = "users_wallet_address_key"

	userColumns = `telegram_id, username, first_name, last_name, language_code, is_premium, photo_url,
		role, created_at, updated_at, last_login, referrer_id, referral_code,
		wallet_address, wallet_address_friendly, wallet_chain, wallet_app_name, wallet_connected_at,
		(wallet_address IS NOT NULL) AS wallet_connected`
)

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) repository.UserRepository {
	return &postgresRepository{db: db}
}

// GetByTelegramID получает пользователя по Telegram ID
func (r *postgresRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`
	return r.getOne(ctx, "get user", query, telegramID)
}

// GetByReferralCode получает пользователя по реферальному коду
func (r *postgresRepository) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE referral_code = $1`
	return r.getOne(ctx, "get user by referral code", query, code)
}

func (r *postgresRepository) GetByWalletAddress(ctx context.Context, address string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE wallet_address = $1`
	return r.getOne(ctx, "get user by wallet", query, address)
}

// Upsert создает пользователя или обновляет его профиль одной командой.
// referrer_id и referral_code пишутся только при вставке.
func (r *postgresRepository) Upsert(ctx context.Context, p repository.UpsertParams) (*models.User, bool, error) {
	query := `
		INSERT INTO users (
			telegram_id, username, first_name, last_name, language_code, is_premium, photo_url,
			referrer_id, referral_code, created_at, updated_at, last_login
		)
		VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), COALESCE(NULLIF($5, ''), 'en'), $6, NULLIF($7, ''), $8, $9, $10, $10, $10)
		ON CONFLICT (telegram_id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			language_code = EXCLUDED.language_code,
			is_premium = EXCLUDED.is_premium,
			photo_url = EXCLUDED.photo_url,
			last_login = EXCLUDED.last_login,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + userColumns + `, (xmax = 0) AS inserted`

	id := p.Identity
	var (
		user     models.User
		inserted bool
	)
	dest := append(scanTargets(&user), &inserted)
	err := r.db.QueryRow(ctx, query,
		id.ID, id.Username, id.FirstName, id.LastName, id.LanguageCode, id.IsPremium, id.PhotoURL,
		p.ReferrerID, p.ReferralCode, p.At,
	).Scan(dest...)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert user: %w", err)
	}
	return &user, inserted, nil
}

// ListReferrals возвращает приглашённых пользователем, новые первыми
func (r *postgresRepository) ListReferrals(ctx context.Context, referrerID int64, limit, offset int) ([]models.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE referrer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, referrerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(scanTargets(&u)...); err != nil {
			return nil, fmt.Errorf("failed to scan referral: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list referrals: %w", err)
	}
	return users, nil
}

// SetWallet привязывает кошелёк; уникальность адреса гарантирует индекс
func (r *postgresRepository) SetWallet(ctx context.Context, telegramID int64, w repository.WalletParams) (*models.User, error) {
	query := `
		UPDATE users SET
			wallet_address = $2,
			wallet_address_friendly = $3,
			wallet_chain = $4,
			wallet_app_name = NULLIF($5, ''),
			wallet_connected_at = $6,
			updated_at = $6
		WHERE telegram_id = $1
		RETURNING ` + userColumns

	var user models.User
	err := r.db.QueryRow(ctx, query, telegramID, w.Address, w.AddressFriendly, w.Chain, w.AppName, w.ConnectedAt).
		Scan(scanTargets(&user)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == walletAddressIndexName {
			return nil, repository.ErrWalletTaken
		}
		return nil, fmt.Errorf("failed to set wallet: %w", err)
	}
	return &user, nil
}

// ClearWallet отвязывает кошелёк; повторный вызов ничего не меняет
func (r *postgresRepository) ClearWallet(ctx context.Context, telegramID int64) (*models.User, error) {
	query := `
		UPDATE users SET
			wallet_address = NULL,
			wallet_address_friendly = NULL,
			wallet_chain = NULL,
			wallet_app_name = NULL,
			wallet_connected_at = NULL
		WHERE telegram_id = $1
		RETURNING ` + userColumns

	var user models.User
	if err := r.db.QueryRow(ctx, query, telegramID).Scan(scanTargets(&user)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to clear wallet: %w", err)
	}
	return &user, nil
}

func (r *postgresRepository) getOne(ctx context.Context, op, query string, arg any) (*models.User, error) {
	var user models.User
	if err := r.db.QueryRow(ctx, query, arg).Scan(scanTargets(&user)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return &user, nil
}

// scanTargets must stay in sync with userColumns.
func scanTargets(u *models.User) []any {
	return []any{
		&u.TelegramID, &u.Username, &u.FirstName, &u.LastName, &u.LanguageCode, &u.IsPremium, &u.PhotoURL,
		&u.Role, &u.CreatedAt, &u.UpdatedAt, &u.LastLogin, &u.ReferrerID, &u.ReferralCode,
		&u.WalletAddress, &u.WalletAddressFriendly, &u.WalletChain, &u.WalletAppName, &u.WalletConnectedAt,
		&u.WalletConnected,
	}
}
