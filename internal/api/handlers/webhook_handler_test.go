package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	config "github.com/contentflow/contentflow-api/configs"
	"github.com/contentflow/contentflow-api/internal/models"
	"github.com/contentflow/contentflow-api/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "whsec_test_secret"

type stubSubscriptionRepo struct {
	subs map[string]*models.Subscription
}

func (s *stubSubscriptionRepo) Upsert(ctx context.Context, sub *models.Subscription) (int64, error) {
	s.subs[sub.SubscriptionID] = sub
	return 1, nil
}

func (s *stubSubscriptionRepo) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	return s.subs[subscriptionID], nil
}

func (s *stubSubscriptionRepo) GetByUserID(ctx context.Context, userID int64) (*models.Subscription, error) {
	return nil, nil
}

func (s *stubSubscriptionRepo) MarkCanceled(ctx context.Context, subscriptionID string, canceledAt time.Time) error {
	return nil
}

type stubProfileRepo struct{}

func (s *stubProfileRepo) GetByUserID(ctx context.Context, userID int64) (*models.Profile, bool, error) {
	return nil, false, nil
}

func (s *stubProfileRepo) UpsertTier(ctx context.Context, userID int64, tier string) error {
	return nil
}

func (s *stubProfileRepo) SetCustomerID(ctx context.Context, userID int64, customerID string) error {
	return nil
}

func webhookApp() (*fiber.App, *stubSubscriptionRepo) {
	cfg := config.Config{Paddle: config.Paddle{WebhookSecret: webhookSecret, PricePro: "pri_pro"}}
	subs := &stubSubscriptionRepo{subs: make(map[string]*models.Subscription)}
	svc := service.NewSubscriptionService(cfg, subs, &stubProfileRepo{})

	app := fiber.New()
	app.Post("/webhooks/paddle", NewWebhookHandler(svc).PaddleWebhook)
	return app, subs
}

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaddleWebhookMissingSignature(t *testing.T) {
	app, _ := webhookApp()

	req := httptest.NewRequest("POST", "/webhooks/paddle", bytes.NewReader([]byte(`{}`)))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestPaddleWebhookInvalidSignature(t *testing.T) {
	app, _ := webhookApp()

	req := httptest.NewRequest("POST", "/webhooks/paddle", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("paddle-signature", "deadbeef")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestPaddleWebhookAccepted(t *testing.T) {
	app, subs := webhookApp()

	body := []byte(`{
		"event_type": "subscription.created",
		"data": {
			"id": "sub_9",
			"status": "active",
			"customer_id": "ctm_1",
			"items": [{"price": {"id": "pri_pro"}}],
			"custom_data": {"user_id": "42"}
		}
	}`)

	req := httptest.NewRequest("POST", "/webhooks/paddle", bytes.NewReader(body))
	req.Header.Set("paddle-signature", sign(body))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.True(t, payload["received"])

	require.NotNil(t, subs.subs["sub_9"])
	assert.Equal(t, int64(42), subs.subs["sub_9"].UserID)
}
