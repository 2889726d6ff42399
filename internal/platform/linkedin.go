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

const linkedinAPIURL = "https://api.linkedin.com"

type linkedinIntegration struct {
	client  *http.Client
	baseURL string
}

func NewLinkedin(client *http.Client) Integration {
	return &linkedinIntegration{client: client, baseURL: linkedinAPIURL}
}

func (l *linkedinIntegration) Name() string {
	return models.PlatformLinkedin
}

func (l *linkedinIntegration) CharacterLimit() int {
	return 3000
}

func (l *linkedinIntegration) SupportedMedia() []string {
	return []string{"image", "video", "article"}
}

// Publish creates a UGC post. The author URN is built from the stored
// platform user id, never hardcoded.
func (l *linkedinIntegration) Publish(ctx context.Context, req *PublishRequest) (*PublishResult, error) {
	var body transfer.LinkedinUgcPostRequest
	body.Author = fmt.Sprintf("urn:li:person:%s", req.PlatformUserID)
	body.LifecycleState = "PUBLISHED"
	body.SpecificContent.ShareContent = transfer.LinkedinShareContent{
		ShareCommentary:    transfer.LinkedinShareCommentary{Text: req.Content},
		ShareMediaCategory: "NONE",
	}
	body.Visibility.MemberNetworkVisibility = "PUBLIC"

	jsonData, err := json.Marshal(body)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL+"/v2/ugcPosts", bytes.NewBuffer(jsonData))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+req.AccessToken)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := l.client.Do(httpReq)
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

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var apiErr transfer.LinkedinErrorResponse
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Message != "" {
			return result, fmt.Errorf("linkedin ugc post failed: %s", apiErr.Message)
		}
		return result, fmt.Errorf("linkedin ugc post failed with status %d", resp.StatusCode)
	}

	var ugcResp transfer.LinkedinUgcPostResponse
	if err := json.Unmarshal(respBody, &ugcResp); err != nil {
		slog.Info(err.Error())
		return result, err
	}
	result.PostID = ugcResp.ID
	if result.PostID == "" {
		result.PostID = resp.Header.Get("X-RestLi-Id")
	}

	return result, nil
}

func (l *linkedinIntegration) Refresh(ctx context.Context, refreshToken string) (*RefreshedToken, error) {
	// LinkedIn issues refresh tokens on approved apps only; the refresh
	// grant is not wired up yet.
	return nil, ErrRefreshNotImplemented
}
