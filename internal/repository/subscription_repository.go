package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/contentflow/contentflow-api/internal/models"
)

type SubscriptionRepository interface {
	Upsert(ctx context.Context, subscription *models.Subscription) (int64, error)
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*models.Subscription, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Subscription, error)
	MarkCanceled(ctx context.Context, subscriptionID string, canceledAt time.Time) error
}

type subscriptionRepository struct {
	db *sql.DB
}

func NewSubscriptionRepository(db *sql.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Upsert is keyed on the Paddle subscription id so webhook redelivery
// never creates duplicate rows; the later delivery's fields win.
func (r *subscriptionRepository) Upsert(ctx context.Context, subscription *models.Subscription) (int64, error) {
	query := `
		INSERT INTO subscriptions (
			user_id, subscription_id, customer_id, price_id, status,
			period_start, period_end, trial_end, cancel_at_period_end, canceled_at, ended_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (subscription_id)
		DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			price_id = EXCLUDED.price_id,
			status = EXCLUDED.status,
			period_start = EXCLUDED.period_start,
			period_end = EXCLUDED.period_end,
			trial_end = EXCLUDED.trial_end,
			cancel_at_period_end = EXCLUDED.cancel_at_period_end,
			canceled_at = EXCLUDED.canceled_at,
			ended_at = EXCLUDED.ended_at,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		subscription.UserID,
		subscription.SubscriptionID,
		subscription.CustomerID,
		subscription.PriceID,
		subscription.Status,
		subscription.PeriodStart,
		subscription.PeriodEnd,
		subscription.TrialEnd,
		subscription.CancelAtPeriodEnd,
		subscription.CanceledAt,
		subscription.EndedAt,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *subscriptionRepository) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	query := `
		SELECT id, user_id, subscription_id, customer_id, price_id, status,
			period_start, period_end, trial_end, cancel_at_period_end, canceled_at, ended_at,
			created_at, updated_at
		FROM subscriptions WHERE subscription_id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, subscriptionID))
}

func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID int64) (*models.Subscription, error) {
	query := `
		SELECT id, user_id, subscription_id, customer_id, price_id, status,
			period_start, period_end, trial_end, cancel_at_period_end, canceled_at, ended_at,
			created_at, updated_at
		FROM subscriptions WHERE user_id = $1
		ORDER BY created_at DESC LIMIT 1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID))
}

func (r *subscriptionRepository) scanOne(row *sql.Row) (*models.Subscription, error) {
	var s models.Subscription
	err := row.Scan(&s.ID, &s.UserID, &s.SubscriptionID, &s.CustomerID, &s.PriceID, &s.Status,
		&s.PeriodStart, &s.PeriodEnd, &s.TrialEnd, &s.CancelAtPeriodEnd, &s.CanceledAt, &s.EndedAt,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &s, nil
}

func (r *subscriptionRepository) MarkCanceled(ctx context.Context, subscriptionID string, canceledAt time.Time) error {
	query := `
		UPDATE subscriptions
		SET status = $2,
			canceled_at = $3,
			updated_at = CURRENT_TIMESTAMP
		WHERE subscription_id = $1
	`
	_, err := r.db.ExecContext(ctx, query, subscriptionID, models.SubscriptionStatusCanceled, canceledAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
