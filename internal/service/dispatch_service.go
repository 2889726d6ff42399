package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	config "github.com/contentflow/contentflow-api/configs"
	"github.com/contentflow/contentflow-api/internal/models"
	"github.com/contentflow/contentflow-api/internal/platform"
	"github.com/contentflow/contentflow-api/internal/repository"
	"github.com/contentflow/contentflow-api/internal/transfer"
	"github.com/contentflow/contentflow-api/pkg/utils"
)

var ErrPostNotFound = errors.New("post not found")

// Per-platform publish calls are bounded so one stalled API cannot hang
// the whole dispatch.
const publishTimeout = 15 * time.Second

const dispatchConcurrency = 4

type DispatchService interface {
	Dispatch(ctx context.Context, userID, postID int64, platforms []string, content string) ([]transfer.PlatformResult, error)
}

type dispatchService struct {
	cfg      config.Config
	registry *platform.Registry
	pr       repository.ScheduledPostRepository
	sa       repository.SocialAccountRepository
	pe       repository.PostExecutionRepository
}

func NewDispatchService(
	cfg config.Config,
	registry *platform.Registry,
	pr repository.ScheduledPostRepository,
	sa repository.SocialAccountRepository,
	pe repository.PostExecutionRepository) DispatchService {
	return &dispatchService{
		cfg:      cfg,
		registry: registry,
		pr:       pr,
		sa:       sa,
		pe:       pe,
	}
}

// Dispatch publishes content to each target platform independently and
// records one PostExecution per platform. All attempts complete before
// the aggregate post status is written. The post is marked posted when
// at least one platform succeeded; posted_at is set only when every
// platform succeeded.
func (s *dispatchService) Dispatch(ctx context.Context, userID, postID int64, platforms []string, content string) ([]transfer.PlatformResult, error) {
	post, err := s.pr.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	// Another user's post id looks the same as a missing one; existence
	// is not leaked to non-owners.
	if post == nil || post.UserID != userID {
		return nil, ErrPostNotFound
	}

	results := make([]transfer.PlatformResult, len(platforms))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, dispatchConcurrency)

	for i, name := range platforms {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(i int, name string) {
			defer wg.Done()
			defer func() { <-semaphore }()
			results[i] = s.dispatchOne(ctx, post, name, content)
		}(i, name)
	}

	wg.Wait()

	succeeded := 0
	for _, r := range results {
		if r.Status == models.ExecutionStatusPosted {
			succeeded++
		}
	}

	status := models.PostStatusFailed
	var postedAt *time.Time
	var errMsg string
	if succeeded > 0 {
		status = models.PostStatusPosted
		if succeeded == len(platforms) {
			now := time.Now()
			postedAt = &now
		}
	} else {
		errMsg = joinErrors(results)
	}

	if err := s.pr.UpdateStatus(ctx, post.ID, status, postedAt, errMsg); err != nil {
		// Publishing already happened; the status write is best effort.
		slog.Error("failed to update post status", "post_id", post.ID, "error", err)
	}

	return results, nil
}

func (s *dispatchService) dispatchOne(ctx context.Context, post *models.ScheduledPost, name, content string) transfer.PlatformResult {
	result := transfer.PlatformResult{Platform: name, Status: models.ExecutionStatusFailed}

	execution := &models.PostExecution{
		PostID:   post.ID,
		Platform: name,
		Status:   models.ExecutionStatusFailed,
	}
	defer func() {
		if _, err := s.pe.Create(ctx, execution); err != nil {
			slog.Error("failed to record post execution", "post_id", post.ID, "platform", name, "error", err)
		}
	}()

	integration, ok := s.registry.Get(name)
	if !ok {
		result.Error = fmt.Sprintf("unsupported platform: %s", name)
		execution.ErrorMessage = result.Error
		return result
	}

	account, err := s.sa.GetActive(ctx, post.UserID, name)
	if err != nil {
		result.Error = "failed to load social account"
		execution.ErrorMessage = result.Error
		return result
	}
	if account == nil {
		result.Error = "no connected account"
		execution.ErrorMessage = result.Error
		return result
	}

	accessToken, err := utils.Decrypt(account.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		result.Error = "failed to decrypt access token"
		execution.ErrorMessage = result.Error
		return result
	}

	if !account.TokenExpiresAt.IsZero() && account.TokenExpiresAt.Before(time.Now()) {
		accessToken, err = s.refreshToken(ctx, integration, account)
		if err != nil {
			result.Error = fmt.Sprintf("access token expired and refresh failed: %v", err)
			execution.ErrorMessage = result.Error
			return result
		}
	}

	prepared := platform.PrepareContent(content, integration.CharacterLimit())

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	pubResult, err := integration.Publish(publishCtx, &platform.PublishRequest{
		Content:        prepared,
		AccessToken:    accessToken,
		PlatformUserID: account.PlatformUserID,
	})
	if pubResult != nil {
		execution.RawResponse = pubResult.RawResponse
	}
	if err != nil {
		result.Error = err.Error()
		execution.ErrorMessage = result.Error
		return result
	}

	result.Status = models.ExecutionStatusPosted
	result.PostID = pubResult.PostID
	execution.Status = models.ExecutionStatusPosted
	execution.PlatformPostID = pubResult.PostID

	return result
}

// refreshToken attempts a platform token refresh and persists the new
// token on success. No platform implements refresh yet, so today this
// always surfaces the integration's sentinel error.
func (s *dispatchService) refreshToken(ctx context.Context, integration platform.Integration, account *models.SocialAccount) (string, error) {
	refreshToken, err := utils.Decrypt(account.RefreshToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return "", err
	}

	refreshed, err := integration.Refresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	encryptedAccess, err := utils.Encrypt([]byte(refreshed.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return "", err
	}
	var encryptedRefresh string
	if refreshed.RefreshToken != "" {
		encryptedRefresh, err = utils.Encrypt([]byte(refreshed.RefreshToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return "", err
		}
	}

	if err := s.sa.SetToken(ctx, account.ID, encryptedAccess, encryptedRefresh, refreshed.ExpiresAt); err != nil {
		slog.Error("failed to persist refreshed token", "account_id", account.ID, "error", err)
	}

	return refreshed.AccessToken, nil
}

// joinErrors is used by callers that want a single error message for a
// fully failed dispatch.
func joinErrors(results []transfer.PlatformResult) string {
	var parts []string
	for _, r := range results {
		if r.Error != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", r.Platform, r.Error))
		}
	}
	return strings.Join(parts, "; ")
}
