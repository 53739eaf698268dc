package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

// Usernames: letters, digits, underscore, dot and hyphen; must not start with dot or hyphen
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_.-]*$`)

type userService struct {
	userRepo UserRepository
	location *time.Location // calendar used to format join dates
}

// NewUserService creates a new user service.
// loc is the time zone used to render profile join dates; nil means time.Local.
func NewUserService(userRepo UserRepository, loc *time.Location) UserService {
	if loc == nil {
		loc = time.Local
	}
	return &userService{
		userRepo: userRepo,
		location: loc,
	}
}

// CreateUser creates a new user
func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	username := strings.TrimSpace(req.Username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	user := &User{Username: username}
	if req.JoinedAt != nil {
		user.JoinedAt = *req.JoinedAt
	}

	// Repository will handle duplicate constraint errors
	return s.userRepo.Create(ctx, user)
}

// GetUserByUsername retrieves a user by their username
func (s *userService) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &InvalidUsernameError{Username: username, Reason: "username is required"}
	}

	return s.userRepo.GetByUsername(ctx, username)
}

// EnsureUser gets or creates a user
func (s *userService) EnsureUser(ctx context.Context, username string, joinedAt time.Time) (*User, error) {
	existing, err := s.GetUserByUsername(ctx, username)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	created, err := s.CreateUser(ctx, CreateUserRequest{Username: username, JoinedAt: &joinedAt})
	if errors.Is(err, ErrUsernameTaken) {
		// Lost a race with a concurrent creator
		return s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	}
	return created, err
}

// GetProfile builds the public profile for a user
func (s *userService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	postCount, err := s.userRepo.CountPosts(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts for %s: %w", user.Username, err)
	}

	return &Profile{
		Username:   user.Username,
		DateJoined: user.JoinedAt.In(s.location).Format(ProfileDateLayout),
		PostCount:  postCount,
	}, nil
}

// ValidateUsername checks length and character rules
func ValidateUsername(username string) error {
	if username == "" {
		return &InvalidUsernameError{Username: username, Reason: "username is required"}
	}

	if uniseg.GraphemeClusterCount(username) > MaxUsernameLength {
		return &InvalidUsernameError{
			Username: username,
			Reason:   fmt.Sprintf("must be at most %d characters", MaxUsernameLength),
		}
	}

	if !usernameRegex.MatchString(username) {
		return &InvalidUsernameError{
			Username: username,
			Reason:   "must contain only letters, digits, '_', '.' and '-', and start with a letter, digit or '_'",
		}
	}

	return nil
}
