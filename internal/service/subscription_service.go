package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	config "github.com/contentflow/contentflow-api/configs"
	"github.com/contentflow/contentflow-api/internal/models"
	"github.com/contentflow/contentflow-api/internal/repository"
	"github.com/contentflow/contentflow-api/internal/transfer"
)

var (
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrMalformedEvent   = errors.New("malformed webhook event")
)

type SubscriptionService interface {
	HandleWebhook(ctx context.Context, body []byte, signature string) error
	Plans() []models.Plan
}

type subscriptionService struct {
	cfg   config.Config
	plans []models.Plan
	s     repository.SubscriptionRepository
	p     repository.ProfileRepository
}

func NewSubscriptionService(cfg config.Config, s repository.SubscriptionRepository, p repository.ProfileRepository) SubscriptionService {
	return &subscriptionService{
		cfg: cfg,
		plans: []models.Plan{
			{Name: "starter", PaddlePriceID: cfg.Paddle.PriceStarter, MonthlyCredits: 50},
			{Name: "pro", PaddlePriceID: cfg.Paddle.PricePro, MonthlyCredits: 200},
			{Name: "agency", PaddlePriceID: cfg.Paddle.PriceAgency, MonthlyCredits: 1000},
		},
		s: s,
		p: p,
	}
}

func (s *subscriptionService) Plans() []models.Plan {
	return s.plans
}

// VerifySignature computes HMAC-SHA256 of the raw body and compares it
// to the hex signature in constant time. An empty secret always fails:
// a misconfigured server must not accept events.
func VerifySignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// HandleWebhook verifies and applies one Paddle event. Verification
// failures are returned to the caller; store write failures after a
// verified event are logged and swallowed so Paddle gets its 200 and
// does not amplify a store outage with redeliveries.
func (s *subscriptionService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !VerifySignature(s.cfg.Paddle.WebhookSecret, body, signature) {
		return ErrInvalidSignature
	}

	var event transfer.PaddleWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		slog.Info(err.Error())
		return ErrMalformedEvent
	}

	switch event.EventType {
	case "subscription.created", "subscription.activated":
		if err := s.applySubscription(ctx, &event.Data); err != nil {
			slog.Error("webhook processing failed", "event_type", event.EventType, "error", err)
		}
	case "subscription.updated":
		if err := s.applySubscription(ctx, &event.Data); err != nil {
			slog.Error("webhook processing failed", "event_type", event.EventType, "error", err)
		}
	case "subscription.canceled":
		if err := s.applyCancellation(ctx, &event.Data); err != nil {
			slog.Error("webhook processing failed", "event_type", event.EventType, "error", err)
		}
	case "payment.succeeded", "transaction.completed":
		// Acknowledged without state change; credit top-ups hang off
		// these once metering lands.
	default:
		slog.Info("ignoring unknown webhook event type", "event_type", event.EventType)
	}

	return nil
}

func (s *subscriptionService) applySubscription(ctx context.Context, data *transfer.PaddleEventData) error {
	userID, err := eventUserID(data)
	if err != nil {
		return err
	}

	sub := &models.Subscription{
		UserID:         userID,
		SubscriptionID: data.ID,
		CustomerID:     data.CustomerID,
		PriceID:        data.PriceID(),
		Status:         data.Status,
		PeriodStart:    data.CurrentBillingPeriod.StartsAt,
		PeriodEnd:      data.CurrentBillingPeriod.EndsAt,
		CanceledAt:     data.CanceledAt,
		EndedAt:        data.EndedAt,
	}
	if data.TrialDates != nil {
		trialEnd := data.TrialDates.EndsAt
		sub.TrialEnd = &trialEnd
	}
	if data.ScheduledChange != nil && data.ScheduledChange.Action == "cancel" {
		sub.CancelAtPeriodEnd = true
	}

	if _, err := s.s.Upsert(ctx, sub); err != nil {
		return fmt.Errorf("upserting subscription %s: %w", data.ID, err)
	}

	if data.CustomerID != "" {
		if err := s.p.SetCustomerID(ctx, userID, data.CustomerID); err != nil {
			return fmt.Errorf("setting customer id for user %d: %w", userID, err)
		}
	}

	if priceID := data.PriceID(); priceID != "" {
		tier := models.PlanNameByPriceID(s.plans, priceID)
		if err := s.p.UpsertTier(ctx, userID, tier); err != nil {
			return fmt.Errorf("updating tier for user %d: %w", userID, err)
		}
	}

	return nil
}

func (s *subscriptionService) applyCancellation(ctx context.Context, data *transfer.PaddleEventData) error {
	canceledAt := time.Now()
	if data.CanceledAt != nil {
		canceledAt = *data.CanceledAt
	}

	if err := s.s.MarkCanceled(ctx, data.ID, canceledAt); err != nil {
		return fmt.Errorf("canceling subscription %s: %w", data.ID, err)
	}

	userID, err := eventUserID(data)
	if err != nil {
		// Cancellation events do not always carry custom data; fall back
		// to the stored row.
		sub, getErr := s.s.GetBySubscriptionID(ctx, data.ID)
		if getErr != nil || sub == nil {
			return err
		}
		userID = sub.UserID
	}
	if err := s.p.UpsertTier(ctx, userID, models.PlanFree); err != nil {
		return fmt.Errorf("resetting tier for user %d: %w", userID, err)
	}

	return nil
}

// eventUserID reads the owning user from the checkout's custom data.
func eventUserID(data *transfer.PaddleEventData) (int64, error) {
	if data.CustomData.UserID == "" {
		return 0, fmt.Errorf("subscription event %s carries no user id", data.ID)
	}
	userID, err := strconv.ParseInt(data.CustomData.UserID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user id %q on event %s", data.CustomData.UserID, data.ID)
	}
	return userID, nil
}
