package model

import "time"

// User is a back-office operator. Roles gate nothing server-side beyond
// role-wide notification fan-out; authentication is session or API key.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionData is the payload stored in Redis for an agent session token.
type SessionData struct {
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
