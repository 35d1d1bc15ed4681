// Package models defines the wire/domain types exchanged with the LearnLoop
// backend. All types are plain data carriers with JSON tags matching the
// REST API field names.
package models

// UserRef is the short author reference embedded in posts and comments.
type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// User is the full profile as returned by /me and /users/{id}.
type User struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Bio           string `json:"bio,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// UpdateUserRequest carries the editable profile fields. Nil pointers mean
// "leave unchanged".
type UpdateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
