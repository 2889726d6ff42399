package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/contentflow/contentflow-api/internal/models"
)

// PostExecutionRepository is insert-only; execution rows are never
// updated or deleted.
type PostExecutionRepository interface {
	Create(ctx context.Context, pe *models.PostExecution) (int64, error)
	ListByPostID(ctx context.Context, postID int64) ([]*models.PostExecution, error)
}

type postExecutionRepository struct {
	db *sql.DB
}

func NewPostExecutionRepository(db *sql.DB) PostExecutionRepository {
	return &postExecutionRepository{db: db}
}

func (r *postExecutionRepository) Create(ctx context.Context, pe *models.PostExecution) (int64, error) {
	query := `
		INSERT INTO post_executions (post_id, platform, platform_post_id, status, raw_response, error_message)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		pe.PostID,
		pe.Platform,
		pe.PlatformPostID,
		pe.Status,
		pe.RawResponse,
		pe.ErrorMessage,
	).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

func (r *postExecutionRepository) ListByPostID(ctx context.Context, postID int64) ([]*models.PostExecution, error) {
	query := `
		SELECT id, post_id, platform, platform_post_id, status, raw_response, error_message, created_at
		FROM post_executions WHERE post_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var executions []*models.PostExecution
	for rows.Next() {
		var pe models.PostExecution
		err := rows.Scan(&pe.ID, &pe.PostID, &pe.Platform, &pe.PlatformPostID,
			&pe.Status, &pe.RawResponse, &pe.ErrorMessage, &pe.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		executions = append(executions, &pe)
	}
	return executions, rows.Err()
}
