package models

import "time"

// User represents a dashboard account.
type User struct {
	ID           int64     `json:"id"`
	CompanyName  string    `json:"companyName"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Stripped returns a copy of u safe to hand to callers outside the auth core.
func (u User) Stripped() User {
	u.PasswordHash = ""
	return u
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID   int64
	Username string
}
