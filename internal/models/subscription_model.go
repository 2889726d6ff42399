package models

import (
	"time"
)

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusPastDue  = "past_due"
	SubscriptionStatusUnpaid   = "unpaid"
	SubscriptionStatusTrialing = "trialing"
	SubscriptionStatusPaused   = "paused"
)

// Subscription mirrors the Paddle subscription object. SubscriptionID is
// the provider-assigned id and the idempotency key for webhook upserts.
type Subscription struct {
	ID                int64      `db:"id" json:"id"`
	UserID            int64      `db:"user_id" json:"user_id"`
	SubscriptionID    string     `db:"subscription_id" json:"subscription_id"`
	CustomerID        string     `db:"customer_id" json:"customer_id"`
	PriceID           string     `db:"price_id" json:"price_id"`
	Status            string     `db:"status" json:"status"`
	PeriodStart       time.Time  `db:"period_start" json:"period_start"`
	PeriodEnd         time.Time  `db:"period_end" json:"period_end"`
	TrialEnd          *time.Time `db:"trial_end" json:"trial_end"`
	CancelAtPeriodEnd bool       `db:"cancel_at_period_end" json:"cancel_at_period_end"`
	CanceledAt        *time.Time `db:"canceled_at" json:"canceled_at"`
	EndedAt           *time.Time `db:"ended_at" json:"ended_at"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}
