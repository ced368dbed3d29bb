package models

import "time"

// Identity is the Telegram user supplied with every Mini App launch.
// It is not owned by us and arrives fresh each time.
type Identity struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name,omitempty"`
	Username     string `json:"username,omitempty"`
	LanguageCode string `json:"language_code,omitempty"`
	IsPremium    bool   `json:"is_premium,omitempty"`
	PhotoURL     string `json:"photo_url,omitempty"`
}

// User is the durable record keyed by the Telegram user id.
// @Description Stored user profile
type User struct {
	TelegramID   int64     `json:"telegram_id" example:"123456789"`
	Username     *string   `json:"username" example:"johndoe"`
	FirstName    string    `json:"first_name" example:"John"`
	LastName     *string   `json:"last_name" example:"Doe"`
	LanguageCode string    `json:"language_code" example:"en"`
	IsPremium    bool      `json:"is_premium"`
	PhotoURL     *string   `json:"photo_url"`
	Role         string    `json:"role" example:"user" enums:"user,admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastLogin    time.Time `json:"last_login"`

	// Set once at creation, never updated afterwards.
	ReferrerID   *int64 `json:"referrer_id"`
	ReferralCode string `json:"referral_code" example:"r8d3d17b1e6b8ed5"`

	WalletAddress         *string    `json:"wallet_address"`
	WalletAddressFriendly *string    `json:"wallet_address_friendly"`
	WalletChain           *int32     `json:"wallet_chain" example:"-239"`
	WalletAppName         *string    `json:"wallet_app_name"`
	WalletConnectedAt     *time.Time `json:"wallet_connected_at"`
	WalletConnected       bool       `json:"wallet_connected"`
}

const DefaultRole = "user"

// Wallet is a TON wallet as reported by the wallet-connect UI.
type Wallet struct {
	Address         string `json:"address"`
	AddressFriendly string `json:"addressFriendly"`
	Chain           int32  `json:"chain"`
	AppName         string `json:"appName,omitempty"`
}
