package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	config "github.com/contentflow/contentflow-api/configs"
	"github.com/contentflow/contentflow-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func billingConfig(apiURL string) config.Config {
	return config.Config{
		Paddle: config.Paddle{APIURL: apiURL, APIKey: "pdl_key"},
	}
}

func TestCreateCheckout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions", r.URL.Path)
		assert.Equal(t, "Bearer pdl_key", r.Header.Get("Authorization"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		customData := payload["custom_data"].(map[string]any)
		assert.Equal(t, "42", customData["user_id"])

		w.Write([]byte(`{"data":{"id":"txn_1","status":"draft","checkout":{"url":"https://pay.example.com/txn_1"}}}`))
	}))
	defer server.Close()

	b := NewBillingService(billingConfig(server.URL), server.Client(), newMockSubscriptionRepo(), newMockProfileRepo())

	url, err := b.CreateCheckout(context.Background(), 42, "pri_pro")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/txn_1", url)
}

func TestCreateCheckoutReusesCustomerID(t *testing.T) {
	var gotCustomerID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotCustomerID, _ = payload["customer_id"].(string)
		w.Write([]byte(`{"data":{"checkout":{"url":"u"}}}`))
	}))
	defer server.Close()

	profiles := newMockProfileRepo()
	profiles.tiers[42] = "pro"
	profiles.customerIDs[42] = "ctm_9"

	b := NewBillingService(billingConfig(server.URL), server.Client(), newMockSubscriptionRepo(), profiles)

	_, err := b.CreateCheckout(context.Background(), 42, "pri_pro")
	require.NoError(t, err)
	assert.Equal(t, "ctm_9", gotCustomerID)
}

func TestCreateCheckoutProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"bad_request","detail":"price not found"}}`))
	}))
	defer server.Close()

	b := NewBillingService(billingConfig(server.URL), server.Client(), newMockSubscriptionRepo(), newMockProfileRepo())

	_, err := b.CreateCheckout(context.Background(), 42, "pri_missing")
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusBadRequest, provErr.Status)
	assert.Contains(t, provErr.Details, "price not found")
}

func TestCancelSubscription(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "next_billing_period", payload["effective_from"])

		w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	subs := newMockSubscriptionRepo()
	subs.subs["sub_1"] = &models.Subscription{
		UserID:         42,
		SubscriptionID: "sub_1",
		Status:         models.SubscriptionStatusActive,
	}

	b := NewBillingService(billingConfig(server.URL), server.Client(), subs, newMockProfileRepo())

	require.NoError(t, b.CancelSubscription(context.Background(), 42))
	assert.Equal(t, "/subscriptions/sub_1/cancel", gotPath)
}

func TestCancelSubscriptionWithoutSubscription(t *testing.T) {
	b := NewBillingService(billingConfig("http://unused"), http.DefaultClient, newMockSubscriptionRepo(), newMockProfileRepo())

	err := b.CancelSubscription(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNoSubscription)
}

func TestPortalSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customers/ctm_9/portal-sessions", r.URL.Path)
		w.Write([]byte(`{"data":{"id":"pts_1","urls":{"general":{"overview":"https://portal.example.com"}}}}`))
	}))
	defer server.Close()

	profiles := newMockProfileRepo()
	profiles.tiers[42] = "pro"
	profiles.customerIDs[42] = "ctm_9"

	b := NewBillingService(billingConfig(server.URL), server.Client(), newMockSubscriptionRepo(), profiles)

	url, err := b.PortalSession(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "https://portal.example.com", url)
}

func TestPortalSessionWithoutCustomer(t *testing.T) {
	b := NewBillingService(billingConfig("http://unused"), http.DefaultClient, newMockSubscriptionRepo(), newMockProfileRepo())

	_, err := b.PortalSession(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNoSubscription)
}
