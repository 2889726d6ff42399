package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryGet(t *testing.T) {
	registry := NewRegistry(
		NewLinkedin(http.DefaultClient),
		NewTwitter(http.DefaultClient),
		NewFacebook(http.DefaultClient),
		NewInstagram(http.DefaultClient),
	)

	for _, name := range []string{"linkedin", "twitter", "facebook", "instagram"} {
		integration, ok := registry.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, name, integration.Name())
	}

	_, ok := registry.Get("youtube")
	assert.False(t, ok)

	assert.Len(t, registry.Platforms(), 4)
}

func TestTwitterPublish(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2/tweets", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["text"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"t123","text":"hello"}}`))
	}))
	defer server.Close()

	twitter := &twitterIntegration{client: server.Client(), baseURL: server.URL}

	result, err := twitter.Publish(context.Background(), &PublishRequest{
		Content:     "hello",
		AccessToken: "token-123",
	})
	require.NoError(t, err)
	assert.Equal(t, "t123", result.PostID)
	assert.NotEmpty(t, result.RawResponse)
}

func TestTwitterPublishAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"detail":"You are not permitted to create Tweets"}`))
	}))
	defer server.Close()

	twitter := &twitterIntegration{client: server.Client(), baseURL: server.URL}

	result, err := twitter.Publish(context.Background(), &PublishRequest{Content: "hello", AccessToken: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not permitted")
	require.NotNil(t, result)
	assert.Empty(t, result.PostID)
	assert.Contains(t, result.RawResponse, "not permitted")
}

func TestLinkedinPublish(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/ugcPosts", r.URL.Path)
		assert.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "urn:li:person:abc", body["author"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"urn:li:share:999"}`))
	}))
	defer server.Close()

	linkedin := &linkedinIntegration{client: server.Client(), baseURL: server.URL}

	result, err := linkedin.Publish(context.Background(), &PublishRequest{
		Content:        "hello",
		AccessToken:    "token",
		PlatformUserID: "abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:999", result.PostID)
}

func TestLinkedinPublishIDFromHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RestLi-Id", "urn:li:share:1000")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	linkedin := &linkedinIntegration{client: server.Client(), baseURL: server.URL}

	result, err := linkedin.Publish(context.Background(), &PublishRequest{Content: "x", AccessToken: "t", PlatformUserID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:1000", result.PostID)
}

func TestFacebookPublish(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/page-1/feed", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "hello", r.Form.Get("message"))
		assert.Equal(t, "token", r.Form.Get("access_token"))

		w.Write([]byte(`{"id":"page-1_555"}`))
	}))
	defer server.Close()

	facebook := &facebookIntegration{client: server.Client(), baseURL: server.URL}

	result, err := facebook.Publish(context.Background(), &PublishRequest{
		Content:        "hello",
		AccessToken:    "token",
		PlatformUserID: "page-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "page-1_555", result.PostID)
}

func TestInstagramPublishRequiresMedia(t *testing.T) {
	instagram := NewInstagram(http.DefaultClient)

	result, err := instagram.Publish(context.Background(), &PublishRequest{Content: "text only"})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInstagramMediaRequired)
}

func TestRefreshSentinels(t *testing.T) {
	_, err := NewFacebook(http.DefaultClient).Refresh(context.Background(), "rt")
	assert.ErrorIs(t, err, ErrRefreshUnsupported)

	for _, i := range []Integration{
		NewLinkedin(http.DefaultClient),
		NewTwitter(http.DefaultClient),
		NewInstagram(http.DefaultClient),
	} {
		_, err := i.Refresh(context.Background(), "rt")
		assert.ErrorIs(t, err, ErrRefreshNotImplemented, i.Name())
	}
}
