package service

import (
	"context"
	"sync"
	"time"

	"github.com/contentflow/contentflow-api/internal/models"
)

type mockPostRepo struct {
	posts map[int64]*models.ScheduledPost

	mu             sync.Mutex
	updatedID      int64
	updatedStatus  string
	updatedAt      *time.Time
	updatedErrMsg  string
	updateStatusN  int
	updateStatusFn func() error
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{posts: make(map[int64]*models.ScheduledPost)}
}

func (m *mockPostRepo) Create(ctx context.Context, post *models.ScheduledPost) (int64, error) {
	id := int64(len(m.posts) + 1)
	post.ID = id
	m.posts[id] = post
	return id, nil
}

func (m *mockPostRepo) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	return m.posts[id], nil
}

func (m *mockPostRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	var posts []*models.ScheduledPost
	for _, p := range m.posts {
		if p.UserID == userID {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (m *mockPostRepo) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	p, ok := m.posts[postID]
	return ok && p.UserID == userID, nil
}

func (m *mockPostRepo) UpdateStatus(ctx context.Context, postID int64, status string, postedAt *time.Time, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateStatusFn != nil {
		if err := m.updateStatusFn(); err != nil {
			return err
		}
	}
	m.updatedID = postID
	m.updatedStatus = status
	m.updatedAt = postedAt
	m.updatedErrMsg = errMsg
	m.updateStatusN++
	return nil
}

func (m *mockPostRepo) Remove(ctx context.Context, id int64) error {
	delete(m.posts, id)
	return nil
}

type mockAccountRepo struct {
	// keyed by platform; single test user
	accounts      map[string]*models.SocialAccount
	getErr        error
	deactivateErr error
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{accounts: make(map[string]*models.SocialAccount)}
}

func (m *mockAccountRepo) Upsert(ctx context.Context, sa *models.SocialAccount) (int64, error) {
	m.accounts[sa.Platform] = sa
	return 1, nil
}

func (m *mockAccountRepo) GetByID(ctx context.Context, id int64) (*models.SocialAccount, error) {
	for _, a := range m.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockAccountRepo) GetActive(ctx context.Context, userID int64, platform string) (*models.SocialAccount, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.accounts[platform], nil
}

func (m *mockAccountRepo) ListByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	var accounts []*models.SocialAccount
	for _, a := range m.accounts {
		accounts = append(accounts, a)
	}
	return accounts, nil
}

func (m *mockAccountRepo) ListExpiring(ctx context.Context, initialTime, finalTime time.Time) ([]*models.SocialAccount, error) {
	return nil, nil
}

func (m *mockAccountRepo) CheckByUserID(ctx context.Context, accountID, userID int64) (bool, error) {
	return true, nil
}

func (m *mockAccountRepo) SetToken(ctx context.Context, accountID int64, accessToken, refreshToken string, expiresAt time.Time) error {
	return nil
}

func (m *mockAccountRepo) Deactivate(ctx context.Context, userID, accountID int64) error {
	return m.deactivateErr
}

type mockExecutionRepo struct {
	mu         sync.Mutex
	executions []*models.PostExecution
	createErr  error
}

func (m *mockExecutionRepo) Create(ctx context.Context, pe *models.PostExecution) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.executions = append(m.executions, pe)
	return int64(len(m.executions)), nil
}

func (m *mockExecutionRepo) ListByPostID(ctx context.Context, postID int64) ([]*models.PostExecution, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var executions []*models.PostExecution
	for _, e := range m.executions {
		if e.PostID == postID {
			executions = append(executions, e)
		}
	}
	return executions, nil
}

type mockSubscriptionRepo struct {
	subs      map[string]*models.Subscription
	upsertErr error
	upsertN   int
}

func newMockSubscriptionRepo() *mockSubscriptionRepo {
	return &mockSubscriptionRepo{subs: make(map[string]*models.Subscription)}
}

func (m *mockSubscriptionRepo) Upsert(ctx context.Context, subscription *models.Subscription) (int64, error) {
	m.upsertN++
	if m.upsertErr != nil {
		return 0, m.upsertErr
	}
	if existing, ok := m.subs[subscription.SubscriptionID]; ok {
		subscription.ID = existing.ID
	} else {
		subscription.ID = int64(len(m.subs) + 1)
	}
	m.subs[subscription.SubscriptionID] = subscription
	return subscription.ID, nil
}

func (m *mockSubscriptionRepo) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*models.Subscription, error) {
	return m.subs[subscriptionID], nil
}

func (m *mockSubscriptionRepo) GetByUserID(ctx context.Context, userID int64) (*models.Subscription, error) {
	for _, s := range m.subs {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockSubscriptionRepo) MarkCanceled(ctx context.Context, subscriptionID string, canceledAt time.Time) error {
	if s, ok := m.subs[subscriptionID]; ok {
		s.Status = models.SubscriptionStatusCanceled
		s.CanceledAt = &canceledAt
	}
	return nil
}

type mockProfileRepo struct {
	tiers       map[int64]string
	customerIDs map[int64]string
	upsertErr   error
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{
		tiers:       make(map[int64]string),
		customerIDs: make(map[int64]string),
	}
}

func (m *mockProfileRepo) GetByUserID(ctx context.Context, userID int64) (*models.Profile, bool, error) {
	tier, ok := m.tiers[userID]
	if !ok {
		return nil, false, nil
	}
	return &models.Profile{
		UserID:           userID,
		SubscriptionTier: tier,
		PaddleCustomerID: m.customerIDs[userID],
	}, true, nil
}

func (m *mockProfileRepo) UpsertTier(ctx context.Context, userID int64, tier string) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.tiers[userID] = tier
	return nil
}

func (m *mockProfileRepo) SetCustomerID(ctx context.Context, userID int64, customerID string) error {
	m.customerIDs[userID] = customerID
	return nil
}
