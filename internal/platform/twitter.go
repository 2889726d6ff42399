package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/contentflow/contentflow-api/internal/models"
	"github.com/contentflow/contentflow-api/internal/transfer"
)

const twitterAPIURL = "https://api.twitter.com"

type twitterIntegration struct {
	client  *http.Client
	baseURL string
}

func NewTwitter(client *http.Client) Integration {
	return &twitterIntegration{client: client, baseURL: twitterAPIURL}
}

func (t *twitterIntegration) Name() string {
	return models.PlatformTwitter
}

func (t *twitterIntegration) CharacterLimit() int {
	return 280
}

func (t *twitterIntegration) SupportedMedia() []string {
	return []string{"image", "video", "gif"}
}

func (t *twitterIntegration) Publish(ctx context.Context, req *PublishRequest) (*PublishResult, error) {
	jsonData, err := json.Marshal(transfer.TweetCreateRequest{Text: req.Content})
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/2/tweets", bytes.NewBuffer(jsonData))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.AccessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(httpReq)
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

	if resp.StatusCode != http.StatusCreated {
		var apiErr transfer.TwitterErrorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Detail != "" {
			return result, fmt.Errorf("tweet create failed: %s", apiErr.Detail)
		}
		return result, fmt.Errorf("tweet create failed with status %d", resp.StatusCode)
	}

	var tweetResp transfer.TweetCreateResponse
	if err := json.Unmarshal(respBody, &tweetResp); err != nil {
		slog.Info(err.Error())
		return result, err
	}
	result.PostID = tweetResp.Data.ID

	return result, nil
}

func (t *twitterIntegration) Refresh(ctx context.Context, refreshToken string) (*RefreshedToken, error) {
	// Twitter's OAuth2 refresh grant needs the confidential client flow;
	// not wired up yet.
	return nil, ErrRefreshNotImplemented
}
