package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	config "github.com/contentflow/contentflow-api/configs"
	"github.com/contentflow/contentflow-api/internal/models"
	"github.com/contentflow/contentflow-api/internal/repository"
	"github.com/contentflow/contentflow-api/internal/transfer"
	"github.com/contentflow/contentflow-api/pkg/utils"
)

const (
	linkedinTokenURL  = "https://www.linkedin.com/oauth/v2/accessToken"
	linkedinUserURL   = "https://api.linkedin.com/v2/userinfo"
	twitterTokenURL   = "https://api.twitter.com/2/oauth2/token"
	twitterUserURL    = "https://api.twitter.com/2/users/me"
	facebookTokenURL  = "https://graph.facebook.com/v19.0/oauth/access_token"
	facebookUserURL   = "https://graph.facebook.com/v19.0/me"
	instagramTokenURL = "https://api.instagram.com/oauth/access_token"
	instagramUserURL  = "https://graph.instagram.com/me"
)

// Twitter's code flow requires PKCE; a static plain-text challenge is
// enough for a confidential client.
const twitterCodeChallenge = "contentflow-oauth-challenge"

// ConnectService exchanges OAuth callback codes for tokens and stores
// the linked account.
type ConnectService interface {
	Callback(ctx context.Context, platform, code string, userID int64) error
}

// oauthEndpoints carries the provider URLs so tests can point the
// exchange at a local server.
type oauthEndpoints struct {
	linkedinToken  string
	linkedinUser   string
	twitterToken   string
	twitterUser    string
	facebookToken  string
	facebookUser   string
	instagramToken string
	instagramUser  string
}

func defaultOauthEndpoints() oauthEndpoints {
	return oauthEndpoints{
		linkedinToken:  linkedinTokenURL,
		linkedinUser:   linkedinUserURL,
		twitterToken:   twitterTokenURL,
		twitterUser:    twitterUserURL,
		facebookToken:  facebookTokenURL,
		facebookUser:   facebookUserURL,
		instagramToken: instagramTokenURL,
		instagramUser:  instagramUserURL,
	}
}

type connectService struct {
	cfg       config.Config
	client    *http.Client
	sa        repository.SocialAccountRepository
	endpoints oauthEndpoints
}

func NewConnectService(cfg config.Config, client *http.Client, sa repository.SocialAccountRepository) ConnectService {
	return &connectService{
		cfg:       cfg,
		client:    client,
		sa:        sa,
		endpoints: defaultOauthEndpoints(),
	}
}

func (s *connectService) Callback(ctx context.Context, platform, code string, userID int64) error {
	if code == "" {
		err := errors.New("authorization code is empty")
		slog.Info(err.Error())
		return err
	}

	var account *models.SocialAccount
	var err error

	switch platform {
	case models.PlatformLinkedin:
		account, err = s.linkedinCallback(ctx, code)
	case models.PlatformTwitter:
		account, err = s.twitterCallback(ctx, code)
	case models.PlatformFacebook:
		account, err = s.facebookCallback(ctx, code)
	case models.PlatformInstagram:
		account, err = s.instagramCallback(ctx, code)
	default:
		return fmt.Errorf("unsupported platform: %s", platform)
	}
	if err != nil {
		return err
	}

	account.UserID = userID
	account.Platform = platform

	account.AccessToken, err = utils.Encrypt([]byte(account.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}
	if account.RefreshToken != "" {
		account.RefreshToken, err = utils.Encrypt([]byte(account.RefreshToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return err
		}
	}

	_, err = s.sa.Upsert(ctx, account)
	return err
}

func (s *connectService) linkedinCallback(ctx context.Context, code string) (*models.SocialAccount, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("client_id", s.cfg.LinkedinClientID)
	data.Set("client_secret", s.cfg.LinkedinClientSecret)
	data.Set("redirect_uri", s.cfg.LinkedinRedirectURI)

	var token transfer.LinkedinTokenResponse
	if err := s.postForm(ctx, s.endpoints.linkedinToken, data, nil, &token); err != nil {
		return nil, fmt.Errorf("linkedin token exchange failed: %w", err)
	}

	var info transfer.LinkedinUserInfo
	if err := s.getJSON(ctx, s.endpoints.linkedinUser, token.AccessToken, &info); err != nil {
		return nil, fmt.Errorf("linkedin userinfo failed: %w", err)
	}

	return &models.SocialAccount{
		PlatformUserID: info.Sub,
		AccountName:    info.Name,
		AccessToken:    token.AccessToken,
		RefreshToken:   token.RefreshToken,
		TokenExpiresAt: expiresAt(token.ExpiresIn),
	}, nil
}

func (s *connectService) twitterCallback(ctx context.Context, code string) (*models.SocialAccount, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", s.cfg.TwitterRedirectURI)
	data.Set("code_verifier", twitterCodeChallenge)

	basic := base64.StdEncoding.EncodeToString([]byte(s.cfg.TwitterClientID + ":" + s.cfg.TwitterClientSecret))
	headers := map[string]string{"Authorization": "Basic " + basic}

	var token transfer.TwitterTokenResponse
	if err := s.postForm(ctx, s.endpoints.twitterToken, data, headers, &token); err != nil {
		return nil, fmt.Errorf("twitter token exchange failed: %w", err)
	}

	var info transfer.TwitterUserInfo
	if err := s.getJSON(ctx, s.endpoints.twitterUser, token.AccessToken, &info); err != nil {
		return nil, fmt.Errorf("twitter userinfo failed: %w", err)
	}

	return &models.SocialAccount{
		PlatformUserID:  info.Data.ID,
		AccountName:     info.Data.Name,
		AccountUsername: info.Data.Username,
		AccessToken:     token.AccessToken,
		RefreshToken:    token.RefreshToken,
		TokenExpiresAt:  expiresAt(token.ExpiresIn),
	}, nil
}

func (s *connectService) facebookCallback(ctx context.Context, code string) (*models.SocialAccount, error) {
	params := url.Values{}
	params.Set("client_id", s.cfg.FacebookClientID)
	params.Set("client_secret", s.cfg.FacebookClientSecret)
	params.Set("redirect_uri", s.cfg.FacebookRedirectURI)
	params.Set("code", code)

	var token transfer.FacebookTokenResponse
	if err := s.getJSON(ctx, s.endpoints.facebookToken+"?"+params.Encode(), "", &token); err != nil {
		return nil, fmt.Errorf("facebook token exchange failed: %w", err)
	}

	infoURL := s.endpoints.facebookUser + "?fields=id,name&access_token=" + url.QueryEscape(token.AccessToken)
	var info transfer.FacebookUserInfo
	if err := s.getJSON(ctx, infoURL, "", &info); err != nil {
		return nil, fmt.Errorf("facebook userinfo failed: %w", err)
	}

	return &models.SocialAccount{
		PlatformUserID: info.ID,
		AccountName:    info.Name,
		AccessToken:    token.AccessToken,
		TokenExpiresAt: expiresAt(token.ExpiresIn),
	}, nil
}

func (s *connectService) instagramCallback(ctx context.Context, code string) (*models.SocialAccount, error) {
	data := url.Values{}
	data.Set("client_id", s.cfg.InstagramClientID)
	data.Set("client_secret", s.cfg.InstagramClientSecret)
	data.Set("grant_type", "authorization_code")
	data.Set("redirect_uri", s.cfg.InstagramRedirectURI)
	data.Set("code", code)

	var token transfer.InstagramTokenResponse
	if err := s.postForm(ctx, s.endpoints.instagramToken, data, nil, &token); err != nil {
		return nil, fmt.Errorf("instagram token exchange failed: %w", err)
	}

	infoURL := s.endpoints.instagramUser + "?fields=id,username&access_token=" + url.QueryEscape(token.AccessToken)
	var info transfer.InstagramUserInfo
	if err := s.getJSON(ctx, infoURL, "", &info); err != nil {
		return nil, fmt.Errorf("instagram userinfo failed: %w", err)
	}

	return &models.SocialAccount{
		PlatformUserID:  info.UserID,
		AccountName:     info.Name,
		AccountUsername: info.Username,
		AccessToken:     token.AccessToken,
		TokenExpiresAt:  expiresAt(token.ExpiresIn),
	}, nil
}

func (s *connectService) postForm(ctx context.Context, rawURL string, data url.Values, headers map[string]string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(data.Encode()))
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return s.doJSON(req, out)
}

func (s *connectService) getJSON(ctx context.Context, rawURL, bearer string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	return s.doJSON(req, out)
}

func (s *connectService) doJSON(req *http.Request, out interface{}) error {
	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		slog.Info("oauth endpoint returned non-200 status", "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func expiresAt(expiresIn int) time.Time {
	if expiresIn <= 0 {
		return time.Time{}
	}
	return time.Now().Add(time.Duration(expiresIn) * time.Second)
}
