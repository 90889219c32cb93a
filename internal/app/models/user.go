package models

import "time"

// User is the authenticated identity attached to a request context.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

// UserAuth is the credential record stored for a registered user. Password
// holds the bcrypt hash, never the plaintext.
type UserAuth struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
