package platform

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrRefreshUnsupported means the platform has no refresh flow at all.
	ErrRefreshUnsupported = errors.New("token refresh is not supported by this platform")
	// ErrRefreshNotImplemented marks platforms whose refresh flow exists
	// but has not been wired up yet. TODO(linkedin, twitter): implement
	// the programmatic refresh grant so expired accounts recover without
	// a manual reconnect.
	ErrRefreshNotImplemented = errors.New("token refresh is not implemented for this platform")
)

// PublishRequest carries everything an integration needs to create a
// post. AccessToken arrives already decrypted.
type PublishRequest struct {
	Content        string
	AccessToken    string
	PlatformUserID string
}

type PublishResult struct {
	PostID      string
	RawResponse string
}

type RefreshedToken struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Integration is one social platform. Adding a platform means writing
// an implementation and registering it, nothing else.
type Integration interface {
	Name() string
	Publish(ctx context.Context, req *PublishRequest) (*PublishResult, error)
	Refresh(ctx context.Context, refreshToken string) (*RefreshedToken, error)
	CharacterLimit() int
	SupportedMedia() []string
}

type Registry struct {
	integrations map[string]Integration
}

func NewRegistry(integrations ...Integration) *Registry {
	r := &Registry{integrations: make(map[string]Integration)}
	for _, i := range integrations {
		r.Register(i)
	}
	return r
}

func (r *Registry) Register(i Integration) {
	r.integrations[i.Name()] = i
}

func (r *Registry) Get(platform string) (Integration, bool) {
	i, ok := r.integrations[platform]
	return i, ok
}

func (r *Registry) Platforms() []string {
	names := make([]string, 0, len(r.integrations))
	for name := range r.integrations {
		names = append(names, name)
	}
	return names
}
