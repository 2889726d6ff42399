package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/contentflow/contentflow-api/internal/models"
)

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, bool, error)
	UpsertTier(ctx context.Context, userID int64, tier string) error
	SetCustomerID(ctx context.Context, userID int64, customerID string) error
}

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, bool, error) {
	query := `
		SELECT user_id, paddle_customer_id, subscription_tier, credits_remaining, updated_at
		FROM profiles WHERE user_id = $1
	`
	var p models.Profile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.PaddleCustomerID, &p.SubscriptionTier, &p.CreditsRemaining, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		slog.Info(err.Error())
		return nil, false, err
	}
	return &p, true, nil
}

func (r *profileRepository) UpsertTier(ctx context.Context, userID int64, tier string) error {
	query := `
		INSERT INTO profiles (user_id, subscription_tier)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET subscription_tier = EXCLUDED.subscription_tier, updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.db.ExecContext(ctx, query, userID, tier)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *profileRepository) SetCustomerID(ctx context.Context, userID int64, customerID string) error {
	query := `
		INSERT INTO profiles (user_id, paddle_customer_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET paddle_customer_id = EXCLUDED.paddle_customer_id, updated_at = CURRENT_TIMESTAMP
	`
	_, err := r.db.ExecContext(ctx, query, userID, customerID)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
