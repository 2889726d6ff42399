package models

import (
	"time"
)

const (
	PlatformLinkedin  = "linkedin"
	PlatformTwitter   = "twitter"
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
)

const (
	AccountStatusActive   = "active"
	AccountStatusInactive = "inactive"
)

// SocialAccount holds one linked platform identity per (user, platform).
// Access and refresh tokens are stored AES-GCM encrypted.
type SocialAccount struct {
	ID              int64     `db:"id" json:"id"`
	UserID          int64     `db:"user_id" json:"user_id"`
	Platform        string    `db:"platform" json:"platform"`
	PlatformUserID  string    `db:"platform_user_id" json:"platform_user_id"`
	AccountName     string    `db:"account_name" json:"account_name"`
	AccountUsername string    `db:"account_username" json:"account_username"`
	AccessToken     string    `db:"access_token" json:"-"`
	RefreshToken    string    `db:"refresh_token" json:"-"`
	TokenExpiresAt  time.Time `db:"token_expires_at" json:"token_expires_at"`
	AccountStatus   string    `db:"account_status" json:"account_status"`
	ConnectedAt     time.Time `db:"connected_at" json:"connected_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

func IsSupportedPlatform(platform string) bool {
	switch platform {
	case PlatformLinkedin, PlatformTwitter, PlatformFacebook, PlatformInstagram:
		return true
	default:
		return false
	}
}
