package models

import "time"

// Profile carries the denormalized subscription tier so feature gating
// reads one field instead of joining subscriptions.
type Profile struct {
	UserID           int64     `db:"user_id" json:"user_id"`
	PaddleCustomerID string    `db:"paddle_customer_id" json:"paddle_customer_id"`
	SubscriptionTier string    `db:"subscription_tier" json:"subscription_tier"`
	CreditsRemaining int       `db:"credits_remaining" json:"credits_remaining"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}
