package models

import "time"

const (
	ExecutionStatusPosted = "posted"
	ExecutionStatusFailed = "failed"
)

// PostExecution is an append-only audit row, one per (post, platform)
// publish attempt. Never updated after insert.
type PostExecution struct {
	ID             int64     `db:"id" json:"id"`
	PostID         int64     `db:"post_id" json:"post_id"`
	Platform       string    `db:"platform" json:"platform"`
	PlatformPostID string    `db:"platform_post_id" json:"platform_post_id"`
	Status         string    `db:"status" json:"status"`
	RawResponse    string    `db:"raw_response" json:"raw_response"`
	ErrorMessage   string    `db:"error_message" json:"error_message"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
