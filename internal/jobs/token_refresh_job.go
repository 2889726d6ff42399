package job

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	config "github.com/contentflow/contentflow-api/configs"
	"github.com/contentflow/contentflow-api/internal/models"
	"github.com/contentflow/contentflow-api/internal/platform"
	"github.com/contentflow/contentflow-api/internal/repository"
	"github.com/contentflow/contentflow-api/pkg/utils"
)

type TokenRefreshJob struct {
	cfg      config.Config
	sr       repository.SocialAccountRepository
	registry *platform.Registry
}

func NewTokenRefreshJob(cfg config.Config, sr repository.SocialAccountRepository, registry *platform.Registry) *TokenRefreshJob {
	return &TokenRefreshJob{
		cfg:      cfg,
		sr:       sr,
		registry: registry,
	}
}

// RefreshTokens walks accounts whose tokens expire within the next 30
// minutes and asks each platform integration for a refresh. Until the
// integrations implement refresh this only logs the gap; the structure
// is in place so a working refresh persists without job changes.
func (c *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	currentTime := time.Now()
	timeIn30Minutes := currentTime.Add(30 * time.Minute)

	accounts, err := c.sr.ListExpiring(ctx, currentTime, timeIn30Minutes)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.SocialAccount) {
			defer wg.Done()
			defer func() { <-semaphore }()

			c.refreshOne(ctx, acc)
		}(acc)
	}

	wg.Wait()
}

func (c *TokenRefreshJob) refreshOne(ctx context.Context, acc *models.SocialAccount) {
	integration, ok := c.registry.Get(acc.Platform)
	if !ok {
		slog.Info("no integration registered for platform", "platform", acc.Platform)
		return
	}

	refreshToken, err := utils.Decrypt(acc.RefreshToken, []byte(c.cfg.SecretKey))
	if err != nil {
		slog.Info("unable to decrypt refresh token", "account_id", acc.ID)
		return
	}

	refreshed, err := integration.Refresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, platform.ErrRefreshUnsupported) || errors.Is(err, platform.ErrRefreshNotImplemented) {
			slog.Info("token refresh unavailable", "platform", acc.Platform, "account_id", acc.ID)
		} else {
			slog.Info("token refresh failed", "platform", acc.Platform, "account_id", acc.ID, "error", err.Error())
		}
		return
	}

	encryptedAccess, err := utils.Encrypt([]byte(refreshed.AccessToken), []byte(c.cfg.SecretKey))
	if err != nil {
		slog.Info(err.Error())
		return
	}
	var encryptedRefresh string
	if refreshed.RefreshToken != "" {
		encryptedRefresh, err = utils.Encrypt([]byte(refreshed.RefreshToken), []byte(c.cfg.SecretKey))
		if err != nil {
			slog.Info(err.Error())
			return
		}
	}

	if err := c.sr.SetToken(ctx, acc.ID, encryptedAccess, encryptedRefresh, refreshed.ExpiresAt); err != nil {
		slog.Info("unable to persist refreshed token", "account_id", acc.ID)
	}
}
