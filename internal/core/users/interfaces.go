package users

import (
	"context"
	"time"
)

// UserRepository defines the interface for user data persistence
type UserRepository interface {
	// Create inserts a user. ID is assigned by the repository; JoinedAt defaults to now when zero.
	// Returns ErrUsernameTaken on a duplicate username.
	Create(ctx context.Context, user *User) (*User, error)

	// GetByID retrieves a user by ID. Returns ErrUserNotFound when absent.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByUsername retrieves a user by exact username. Returns ErrUserNotFound when absent.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// CountPosts returns the number of posts (all types) authored by the user
	CountPosts(ctx context.Context, userID string) (int, error)
}

// UserService defines the interface for user business logic
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// EnsureUser returns the user with the given username, creating it with joinedAt if absent.
	// Safe to call repeatedly (used by seeding).
	EnsureUser(ctx context.Context, username string, joinedAt time.Time) (*User, error)

	// GetProfile returns the username, formatted join date and total post count
	GetProfile(ctx context.Context, username string) (*Profile, error)
}
