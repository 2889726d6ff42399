package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/contentflow/contentflow-api/internal/models"
	"github.com/contentflow/contentflow-api/internal/transfer"
)

const facebookAPIURL = "https://graph.facebook.com/v19.0"

type facebookIntegration struct {
	client  *http.Client
	baseURL string
}

func NewFacebook(client *http.Client) Integration {
	return &facebookIntegration{client: client, baseURL: facebookAPIURL}
}

func (f *facebookIntegration) Name() string {
	return models.PlatformFacebook
}

func (f *facebookIntegration) CharacterLimit() int {
	return 63206
}

func (f *facebookIntegration) SupportedMedia() []string {
	return []string{"image", "video", "link"}
}

func (f *facebookIntegration) Publish(ctx context.Context, req *PublishRequest) (*PublishResult, error) {
	data := url.Values{}
	data.Set("message", req.Content)
	data.Set("access_token", req.AccessToken)

	feedURL := fmt.Sprintf("%s/%s/feed", f.baseURL, req.PlatformUserID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, feedURL, strings.NewReader(data.Encode()))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.client.Do(httpReq)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	result := &PublishResult{RawResponse: string(respBody)}

	if resp.StatusCode != http.StatusOK {
		var apiErr transfer.FacebookErrorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return result, fmt.Errorf("facebook feed post failed: %s", apiErr.Error.Message)
		}
		return result, fmt.Errorf("facebook feed post failed with status %d", resp.StatusCode)
	}

	var feedResp transfer.FacebookFeedResponse
	if err := json.Unmarshal(respBody, &feedResp); err != nil {
		slog.Info(err.Error())
		return result, err
	}
	result.PostID = feedResp.ID

	return result, nil
}

func (f *facebookIntegration) Refresh(ctx context.Context, refreshToken string) (*RefreshedToken, error) {
	// Facebook user tokens have no refresh token; long-lived tokens are
	// exchanged, not refreshed.
	return nil, ErrRefreshUnsupported
}
