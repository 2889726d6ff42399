package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/contentflow/contentflow-api/internal/models"
	"github.com/lib/pq"
)

type ScheduledPostRepository interface {
	Create(ctx context.Context, post *models.ScheduledPost) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error)
	ListByUserID(ctx context.Context, userID int64) ([]*models.ScheduledPost, error)
	CheckByUserID(ctx context.Context, postID, userID int64) (bool, error)
	UpdateStatus(ctx context.Context, postID int64, status string, postedAt *time.Time, errMsg string) error
	Remove(ctx context.Context, id int64) error
}

type scheduledPostRepository struct {
	db *sql.DB
}

func NewScheduledPostRepository(db *sql.DB) ScheduledPostRepository {
	return &scheduledPostRepository{db: db}
}

func (r *scheduledPostRepository) Create(ctx context.Context, post *models.ScheduledPost) (int64, error) {
	query := `
		INSERT INTO scheduled_posts (user_id, content, platforms, scheduled_time, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		post.UserID,
		post.Content,
		pq.Array(post.Platforms),
		post.ScheduledTime,
		post.Status,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *scheduledPostRepository) GetByID(ctx context.Context, id int64) (*models.ScheduledPost, error) {
	query := `
		SELECT id, user_id, content, platforms, scheduled_time, status, error_message, posted_at, created_at, updated_at
		FROM scheduled_posts WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, query, id)

	var post models.ScheduledPost
	err := row.Scan(&post.ID, &post.UserID, &post.Content, pq.Array(&post.Platforms),
		&post.ScheduledTime, &post.Status, &post.ErrorMessage, &post.PostedAt,
		&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &post, nil
}

func (r *scheduledPostRepository) ListByUserID(ctx context.Context, userID int64) ([]*models.ScheduledPost, error) {
	query := `
		SELECT id, user_id, content, platforms, scheduled_time, status, error_message, posted_at, created_at, updated_at
		FROM scheduled_posts WHERE user_id = $1
		ORDER BY scheduled_time DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.ScheduledPost
	for rows.Next() {
		var post models.ScheduledPost
		err := rows.Scan(&post.ID, &post.UserID, &post.Content, pq.Array(&post.Platforms),
			&post.ScheduledTime, &post.Status, &post.ErrorMessage, &post.PostedAt,
			&post.CreatedAt, &post.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}

func (r *scheduledPostRepository) CheckByUserID(ctx context.Context, postID, userID int64) (bool, error) {
	query := "SELECT 1 FROM scheduled_posts WHERE id = $1 AND user_id = $2"

	var result int
	err := r.db.QueryRowContext(ctx, query, postID, userID).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	return result == 1, nil
}

// UpdateStatus only moves forward: a post already marked posted keeps
// its status and posted_at even if a manual retry later fails.
func (r *scheduledPostRepository) UpdateStatus(ctx context.Context, postID int64, status string, postedAt *time.Time, errMsg string) error {
	query := `
		UPDATE scheduled_posts
		SET status = $2,
			posted_at = COALESCE(posted_at, $3),
			error_message = $4,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND status NOT IN ($5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, postID, status, postedAt, errMsg,
		models.PostStatusPosted, models.PostStatusCancelled)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *scheduledPostRepository) Remove(ctx context.Context, id int64) error {
	query := `DELETE FROM scheduled_posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
