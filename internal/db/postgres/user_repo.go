package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"Posterr/internal/core/users"
)

type postgresUserRepo struct {
	db dbtx
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) users.UserRepository {
	return &postgresUserRepo{db: db}
}

// Create inserts a new user into the users table.
// A zero JoinedAt is filled in by the database.
func (r *postgresUserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	query := `
		INSERT INTO users (id, username, joined_at)
		VALUES ($1, $2, COALESCE($3::timestamptz, NOW()))
		RETURNING id, username, joined_at`

	var joinedAt sql.NullTime
	if !user.JoinedAt.IsZero() {
		joinedAt = sql.NullTime{Time: user.JoinedAt, Valid: true}
	}

	created := &users.User{}
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), user.Username, joinedAt).
		Scan(&created.ID, &created.Username, &created.JoinedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, users.ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return created, nil
}

// GetByID retrieves a user by ID
func (r *postgresUserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	user := &users.User{}
	query := `SELECT id, username, joined_at FROM users WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Username, &user.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) || pqErrorCode(err) == invalidTextRepr {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetByUsername retrieves a user by username
func (r *postgresUserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	user := &users.User{}
	query := `SELECT id, username, joined_at FROM users WHERE username = $1`

	err := r.db.QueryRowContext(ctx, query, username).Scan(&user.ID, &user.Username, &user.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// CountPosts counts every post authored by the user
func (r *postgresUserRepo) CountPosts(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE author_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts for user %s: %w", userID, err)
	}
	return count, nil
}
