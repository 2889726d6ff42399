package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/contentflow/contentflow-api/internal/models"
	"github.com/contentflow/contentflow-api/internal/repository"
	"github.com/contentflow/contentflow-api/internal/service"
	"github.com/hibiken/asynq"
)

type Worker struct {
	pr repository.ScheduledPostRepository
	ds service.DispatchService
}

func NewWorker(pr repository.ScheduledPostRepository, ds service.DispatchService) *Worker {
	return &Worker{
		pr: pr,
		ds: ds,
	}
}

// HandleDispatchPostTask runs a due scheduled post through the
// dispatcher. Cancelled and already-posted posts are skipped; the task
// never errors for them since a retry would not change the outcome.
func (w *Worker) HandleDispatchPostTask(ctx context.Context, task *asynq.Task) error {
	var payload DispatchPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	post, err := w.pr.GetByID(ctx, payload.PostID)
	if err != nil {
		return err
	}
	if post == nil {
		slog.Info("scheduled post no longer exists", "post_id", payload.PostID)
		return nil
	}
	if post.Status != models.PostStatusScheduled {
		slog.Info("skipping post not in scheduled state", "post_id", post.ID, "status", post.Status)
		return nil
	}

	results, err := w.ds.Dispatch(ctx, post.UserID, post.ID, post.Platforms, post.Content)
	if err != nil {
		return err
	}

	for _, r := range results {
		if r.Error != "" {
			slog.Info("platform dispatch failed", "post_id", post.ID, "platform", r.Platform, "error", r.Error)
		}
	}

	return nil
}
