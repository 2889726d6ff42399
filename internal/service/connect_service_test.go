package service

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	config "github.com/contentflow/contentflow-api/configs"
	"github.com/contentflow/contentflow-api/internal/models"
	"github.com/contentflow/contentflow-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connectConfig() config.Config {
	return config.Config{
		SecretKey:            testSecretKey,
		LinkedinClientID:     "li_client",
		LinkedinClientSecret: "li_secret",
		LinkedinRedirectURI:  "https://app.example.com/auth/linkedin/callback",
		TwitterClientID:      "tw_client",
		TwitterClientSecret:  "tw_secret",
		TwitterRedirectURI:   "https://app.example.com/auth/twitter/callback",
	}
}

func TestLinkedinCallbackStoresEncryptedAccount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.Form.Get("grant_type"))
		assert.Equal(t, "code-abc", r.Form.Get("code"))
		assert.Equal(t, "li_client", r.Form.Get("client_id"))
		assert.Equal(t, "li_secret", r.Form.Get("client_secret"))

		w.Write([]byte(`{"access_token":"li-access","refresh_token":"li-refresh","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer li-access", r.Header.Get("Authorization"))
		w.Write([]byte(`{"sub":"li-user-1","name":"Jamie Doe"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	accounts := newMockAccountRepo()
	cs := &connectService{
		cfg:    connectConfig(),
		client: server.Client(),
		sa:     accounts,
		endpoints: oauthEndpoints{
			linkedinToken: server.URL + "/token",
			linkedinUser:  server.URL + "/userinfo",
		},
	}

	require.NoError(t, cs.Callback(context.Background(), "linkedin", "code-abc", 7))

	account := accounts.accounts["linkedin"]
	require.NotNil(t, account)
	assert.Equal(t, int64(7), account.UserID)
	assert.Equal(t, "linkedin", account.Platform)
	assert.Equal(t, "li-user-1", account.PlatformUserID)
	assert.Equal(t, "Jamie Doe", account.AccountName)
	assert.WithinDuration(t, time.Now().Add(time.Hour), account.TokenExpiresAt, time.Minute)

	// Tokens land encrypted, never as the provider returned them.
	assert.NotEqual(t, "li-access", account.AccessToken)
	decrypted, err := utils.Decrypt(account.AccessToken, []byte(testSecretKey))
	require.NoError(t, err)
	assert.Equal(t, "li-access", decrypted)

	decrypted, err = utils.Decrypt(account.RefreshToken, []byte(testSecretKey))
	require.NoError(t, err)
	assert.Equal(t, "li-refresh", decrypted)
}

func TestTwitterCallbackUsesBasicAuthAndVerifier(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		basic := base64.StdEncoding.EncodeToString([]byte("tw_client:tw_secret"))
		assert.Equal(t, "Basic "+basic, r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, twitterCodeChallenge, r.Form.Get("code_verifier"))

		w.Write([]byte(`{"access_token":"tw-access","refresh_token":"tw-refresh","expires_in":7200}`))
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"id":"tw-user-1","name":"Jamie Doe","username":"jamied"}}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	accounts := newMockAccountRepo()
	cs := &connectService{
		cfg:    connectConfig(),
		client: server.Client(),
		sa:     accounts,
		endpoints: oauthEndpoints{
			twitterToken: server.URL + "/token",
			twitterUser:  server.URL + "/me",
		},
	}

	require.NoError(t, cs.Callback(context.Background(), "twitter", "code-xyz", 7))

	account := accounts.accounts["twitter"]
	require.NotNil(t, account)
	assert.Equal(t, "tw-user-1", account.PlatformUserID)
	assert.Equal(t, "jamied", account.AccountUsername)
	assert.Equal(t, models.PlatformTwitter, account.Platform)
}

func TestCallbackEmptyCode(t *testing.T) {
	accounts := newMockAccountRepo()
	cs := NewConnectService(connectConfig(), http.DefaultClient, accounts)

	err := cs.Callback(context.Background(), "linkedin", "", 7)
	assert.Error(t, err)
	assert.Empty(t, accounts.accounts)
}

func TestCallbackUnsupportedPlatform(t *testing.T) {
	cs := NewConnectService(connectConfig(), http.DefaultClient, newMockAccountRepo())

	err := cs.Callback(context.Background(), "youtube", "code", 7)
	assert.ErrorContains(t, err, "unsupported platform")
}

func TestCallbackExchangeFailureNoUpsert(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	accounts := newMockAccountRepo()
	cs := &connectService{
		cfg:    connectConfig(),
		client: server.Client(),
		sa:     accounts,
		endpoints: oauthEndpoints{
			linkedinToken: server.URL + "/token",
			linkedinUser:  server.URL + "/userinfo",
		},
	}

	err := cs.Callback(context.Background(), "linkedin", "expired-code", 7)
	assert.ErrorContains(t, err, "linkedin token exchange failed")
	assert.Empty(t, accounts.accounts)
}
