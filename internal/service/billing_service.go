package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	config "github.com/contentflow/contentflow-api/configs"
	"github.com/contentflow/contentflow-api/internal/models"
	"github.com/contentflow/contentflow-api/internal/repository"
	"github.com/contentflow/contentflow-api/internal/transfer"
)

var ErrNoSubscription = errors.New("no subscription on record")

// ProviderError carries the raw Paddle error body so operators can
// diagnose billing failures from the API response.
type ProviderError struct {
	Status  int
	Details string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("paddle api returned status %d", e.Status)
}

type BillingService interface {
	CreateCheckout(ctx context.Context, userID int64, priceID string) (string, error)
	CancelSubscription(ctx context.Context, userID int64) error
	PortalSession(ctx context.Context, userID int64) (string, error)
	GetSubscription(ctx context.Context, userID int64) (*models.Subscription, error)
}

type billingService struct {
	cfg    config.Config
	client *http.Client
	s      repository.SubscriptionRepository
	p      repository.ProfileRepository
}

func NewBillingService(cfg config.Config, client *http.Client, s repository.SubscriptionRepository, p repository.ProfileRepository) BillingService {
	return &billingService{
		cfg:    cfg,
		client: client,
		s:      s,
		p:      p,
	}
}

// CreateCheckout opens a Paddle transaction for the given price and
// returns the hosted checkout URL. The user id rides along as custom
// data so the webhook reconciler can attribute the subscription.
func (b *billingService) CreateCheckout(ctx context.Context, userID int64, priceID string) (string, error) {
	payload := map[string]interface{}{
		"items": []map[string]interface{}{
			{"price_id": priceID, "quantity": 1},
		},
		"custom_data": map[string]string{
			"user_id": strconv.FormatInt(userID, 10),
		},
	}

	profile, ok, err := b.p.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if ok && profile.PaddleCustomerID != "" {
		payload["customer_id"] = profile.PaddleCustomerID
	}

	var resp transfer.PaddleTransactionResponse
	if err := b.paddlePost(ctx, "/transactions", payload, &resp); err != nil {
		return "", err
	}

	return resp.Data.Checkout.URL, nil
}

// CancelSubscription schedules cancellation at the end of the current
// billing period; the state change lands via webhook.
func (b *billingService) CancelSubscription(ctx context.Context, userID int64) error {
	sub, err := b.s.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if sub == nil {
		return ErrNoSubscription
	}

	payload := map[string]string{"effective_from": "next_billing_period"}
	path := fmt.Sprintf("/subscriptions/%s/cancel", sub.SubscriptionID)
	return b.paddlePost(ctx, path, payload, nil)
}

func (b *billingService) PortalSession(ctx context.Context, userID int64) (string, error) {
	profile, ok, err := b.p.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if !ok || profile.PaddleCustomerID == "" {
		return "", ErrNoSubscription
	}

	var resp transfer.PaddlePortalSessionResponse
	path := fmt.Sprintf("/customers/%s/portal-sessions", profile.PaddleCustomerID)
	if err := b.paddlePost(ctx, path, map[string]string{}, &resp); err != nil {
		return "", err
	}

	return resp.Data.URLs.General.Overview, nil
}

func (b *billingService) GetSubscription(ctx context.Context, userID int64) (*models.Subscription, error) {
	return b.s.GetByUserID(ctx, userID)
}

func (b *billingService) paddlePost(ctx context.Context, path string, payload interface{}, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.Paddle.APIURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	req.Header.Set("Authorization", "Bearer "+b.cfg.Paddle.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Info("paddle api error", "status", resp.StatusCode, "body", string(body))
		return &ProviderError{Status: resp.StatusCode, Details: string(body)}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			slog.Info(err.Error())
			return err
		}
	}
	return nil
}
