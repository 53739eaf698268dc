package users

import (
	"time"
)

// MaxUsernameLength is the maximum username length in characters
const MaxUsernameLength = 14

// ProfileDateLayout formats Profile.DateJoined, e.g. "March 4, 2025"
const ProfileDateLayout = "January 2, 2006"

// User represents a registered user.
// Users are created once and never mutated afterwards.
type User struct {
	JoinedAt time.Time `json:"joinedAt" db:"joined_at"`
	ID       string    `json:"id" db:"id"`
	Username string    `json:"username" db:"username"`
}

// CreateUserRequest represents the input for creating a new user
type CreateUserRequest struct {
	JoinedAt *time.Time `json:"joinedAt,omitempty"` // Defaults to now
	Username string     `json:"username"`
}

// Profile is the public profile response
type Profile struct {
	Username   string `json:"username"`
	DateJoined string `json:"dateJoined"`
	PostCount  int    `json:"postCount"`
}
