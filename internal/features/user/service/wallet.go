package service

import (
	"context"
	"errors"
	"fmt"

	"tma-backend/internal/common/logger"
	"tma-backend/internal/features/user/models"
	"tma-backend/internal/features/user/repository"
)

// ConnectWallet привязывает TON-кошелёк к пользователю.
// Адрес, уже привязанный к другому пользователю, отклоняется без изменений.
func (s *userService) ConnectWallet(ctx context.Context, telegramID int64, wallet models.Wallet) (*models.User, error) {
	if s.wallets == nil {
		return nil, fmt.Errorf("%w: no address normalizer", ErrInvalidWallet)
	}
	addr, err := s.wallets.Normalize(wallet.Address, wallet.AddressFriendly, wallet.Chain)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWallet, err)
	}

	if _, err := s.GetUser(ctx, telegramID); err != nil {
		return nil, err
	}

	owner, err := s.repo.GetByWalletAddress(ctx, addr.Raw)
	if err != nil {
		return nil, fmt.Errorf("lookup wallet owner: %w", err)
	}
	if owner != nil && owner.TelegramID != telegramID {
		logger.Warn().
			Int64("user_id", telegramID).
			Int64("owner_id", owner.TelegramID).
			Str("wallet", addr.Raw).
			Msg("Wallet already connected to another user")
		return nil, ErrWalletTaken
	}

	s.invalidate(ctx, telegramID)
	user, err := s.repo.SetWallet(ctx, telegramID, repository.WalletParams{
		Address:         addr.Raw,
		AddressFriendly: addr.Friendly,
		Chain:           wallet.Chain,
		AppName:         wallet.AppName,
		ConnectedAt:     s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrWalletTaken) || errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("connect wallet: %w", err)
	}

	logger.Info().Int64("user_id", telegramID).Str("wallet", addr.Raw).Msg("Wallet connected")
	s.cacheUser(ctx, user)
	return user, nil
}

// DisconnectWallet отвязывает кошелёк. Повторный вызов не является ошибкой.
func (s *userService) DisconnectWallet(ctx context.Context, telegramID int64) (*models.User, error) {
	if s.repo == nil {
		return nil, ErrUserNotFound
	}

	s.invalidate(ctx, telegramID)
	user, err := s.repo.ClearWallet(ctx, telegramID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("disconnect wallet: %w", err)
	}

	logger.Info().Int64("user_id", telegramID).Msg("Wallet disconnected")
	s.cacheUser(ctx, user)
	return user, nil
}

func (s *userService) invalidate(ctx context.Context, telegramID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, telegramID); err != nil {
		logger.Warn().Err(err).Int64("user_id", telegramID).Msg("User cache invalidation failed")
	}
}
