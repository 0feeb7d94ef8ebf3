package models

import "time"

// Session is a logged-in visitor, stored in redis under its opaque id.
type Session struct {
	SessionID string    `json:"session_id"`
	AccountID string    `json:"account_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
