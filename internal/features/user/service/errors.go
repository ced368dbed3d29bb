package service

import (
	"errors"

	"tma-backend/internal/features/user/repository"
)

var (
	ErrUserNotFound    = repository.ErrUserNotFound
	ErrWalletTaken     = repository.ErrWalletTaken
	ErrInvalidWallet   = errors.New("invalid wallet data")
	ErrInvalidIdentity = errors.New("invalid telegram identity")
)
