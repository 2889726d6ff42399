package platform

import (
	"context"
	"errors"
	"net/http"

	"github.com/contentflow/contentflow-api/internal/models"
)

// ErrInstagramMediaRequired is returned for every text-only publish;
// the Instagram content API has no text-only post type.
var ErrInstagramMediaRequired = errors.New("Instagram posts require media content")

type instagramIntegration struct {
	client *http.Client
}

func NewInstagram(client *http.Client) Integration {
	return &instagramIntegration{client: client}
}

func (i *instagramIntegration) Name() string {
	return models.PlatformInstagram
}

func (i *instagramIntegration) CharacterLimit() int {
	return 2200
}

func (i *instagramIntegration) SupportedMedia() []string {
	return []string{"image", "video"}
}

func (i *instagramIntegration) Publish(ctx context.Context, req *PublishRequest) (*PublishResult, error) {
	return nil, ErrInstagramMediaRequired
}

func (i *instagramIntegration) Refresh(ctx context.Context, refreshToken string) (*RefreshedToken, error) {
	return nil, ErrRefreshNotImplemented
}
