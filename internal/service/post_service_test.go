package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/contentflow/contentflow-api/internal/models"
	"github.com/contentflow/contentflow-api/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost(t *testing.T) {
	posts := newMockPostRepo()
	s := NewPostService(posts, &mockExecutionRepo{})

	scheduled := time.Now().Add(2 * time.Hour).Format("2006-01-02T15:04")
	id, delay, err := s.CreatePost(context.Background(), 7, &transfer.PostCreation{
		Content:       "hello world",
		Platforms:     []string{"twitter", "linkedin"},
		ScheduledTime: scheduled,
	})
	require.NoError(t, err)
	assert.Greater(t, delay, time.Hour)

	post := posts.posts[id]
	require.NotNil(t, post)
	assert.Equal(t, models.PostStatusScheduled, post.Status)
	assert.Equal(t, []string{"twitter", "linkedin"}, post.Platforms)
}

func TestCreatePostDraft(t *testing.T) {
	posts := newMockPostRepo()
	s := NewPostService(posts, &mockExecutionRepo{})

	id, _, err := s.CreatePost(context.Background(), 7, &transfer.PostCreation{
		Content:       "draft content",
		Platforms:     []string{"facebook"},
		ScheduledTime: "2026-12-01T09:00",
		Draft:         true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, posts.posts[id].Status)
}

func TestCreatePostValidation(t *testing.T) {
	s := NewPostService(newMockPostRepo(), &mockExecutionRepo{})
	ctx := context.Background()

	_, _, err := s.CreatePost(ctx, 7, &transfer.PostCreation{Platforms: []string{"twitter"}, ScheduledTime: "2026-12-01T09:00"})
	assert.ErrorContains(t, err, "content")

	_, _, err = s.CreatePost(ctx, 7, &transfer.PostCreation{Content: "x", ScheduledTime: "2026-12-01T09:00"})
	assert.ErrorContains(t, err, "platforms")

	_, _, err = s.CreatePost(ctx, 7, &transfer.PostCreation{Content: "x", Platforms: []string{"youtube"}, ScheduledTime: "2026-12-01T09:00"})
	assert.ErrorContains(t, err, "unsupported platform")

	_, _, err = s.CreatePost(ctx, 7, &transfer.PostCreation{Content: "x", Platforms: []string{"twitter"}, ScheduledTime: "not-a-time"})
	assert.ErrorContains(t, err, "scheduled time")
}

func TestCreatePostPastTimeZeroDelay(t *testing.T) {
	s := NewPostService(newMockPostRepo(), &mockExecutionRepo{})

	past := time.Now().Add(-time.Hour).Format("2006-01-02T15:04")
	_, delay, err := s.CreatePost(context.Background(), 7, &transfer.PostCreation{
		Content:       "late",
		Platforms:     []string{"twitter"},
		ScheduledTime: past,
	})
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), delay)
}

func TestCancelPost(t *testing.T) {
	posts := newMockPostRepo()
	post := seedPost(posts, []string{"twitter"})
	s := NewPostService(posts, &mockExecutionRepo{})

	require.NoError(t, s.Cancel(context.Background(), post.UserID, post.ID))
	assert.Equal(t, models.PostStatusCancelled, posts.updatedStatus)
}

func TestCancelPostWrongOwner(t *testing.T) {
	posts := newMockPostRepo()
	post := seedPost(posts, []string{"twitter"})
	s := NewPostService(posts, &mockExecutionRepo{})

	err := s.Cancel(context.Background(), post.UserID+1, post.ID)
	assert.Error(t, err)
	assert.Equal(t, 0, posts.updateStatusN)
}

func TestCancelPostKeepsRepoCause(t *testing.T) {
	posts := newMockPostRepo()
	post := seedPost(posts, []string{"twitter"})
	cause := errors.New("pq: connection reset")
	posts.updateStatusFn = func() error { return cause }
	s := NewPostService(posts, &mockExecutionRepo{})

	err := s.Cancel(context.Background(), post.UserID, post.ID)
	require.Error(t, err)
	assert.ErrorContains(t, err, "Error cancelling post")
	assert.ErrorIs(t, err, cause)
}
