package transfer

import "github.com/golang-jwt/jwt/v5"

type CustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type PostCreation struct {
	Content       string   `json:"content"`
	Platforms     []string `json:"platforms"`
	ScheduledTime string   `json:"scheduled_time"`
	Draft         bool     `json:"draft"`
}

type DispatchRequest struct {
	PostID    int64    `json:"postId"`
	Platforms []string `json:"platforms"`
	Content   string   `json:"content"`
}

// PlatformResult is one entry of the dispatcher's per-platform result
// list returned to the caller.
type PlatformResult struct {
	Platform string `json:"platform"`
	Status   string `json:"status"`
	PostID   string `json:"postId,omitempty"`
	Error    string `json:"error,omitempty"`
}

type GoogleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}
