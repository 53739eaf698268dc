package users

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of users kept by NewCachingRepository when size <= 0
const DefaultCacheSize = 1024

// cachingRepository wraps a base repository with an in-memory LRU.
// Users are immutable, so cached entries never need invalidation.
// Misses (ErrUserNotFound) are not cached: the user may be created later.
type cachingRepository struct {
	base       UserRepository
	byID       *lru.Cache[string, *User]
	byUsername *lru.Cache[string, *User]
}

// NewCachingRepository creates a read-through cache in front of base
func NewCachingRepository(base UserRepository, size int) (UserRepository, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}

	byID, err := lru.New[string, *User](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create user id cache: %w", err)
	}
	byUsername, err := lru.New[string, *User](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create username cache: %w", err)
	}

	return &cachingRepository{
		base:       base,
		byID:       byID,
		byUsername: byUsername,
	}, nil
}

func (r *cachingRepository) Create(ctx context.Context, user *User) (*User, error) {
	created, err := r.base.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	r.store(created)
	return created, nil
}

func (r *cachingRepository) GetByID(ctx context.Context, id string) (*User, error) {
	if cached, ok := r.byID.Get(id); ok {
		return copyUser(cached), nil
	}

	user, err := r.base.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(user)
	return user, nil
}

func (r *cachingRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	if cached, ok := r.byUsername.Get(username); ok {
		return copyUser(cached), nil
	}

	user, err := r.base.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	r.store(user)
	return user, nil
}

// CountPosts changes with every post, so it always hits the base repository
func (r *cachingRepository) CountPosts(ctx context.Context, userID string) (int, error) {
	return r.base.CountPosts(ctx, userID)
}

func (r *cachingRepository) store(user *User) {
	if user == nil {
		return
	}
	entry := copyUser(user)
	r.byID.Add(entry.ID, entry)
	r.byUsername.Add(entry.Username, entry)
}

// copyUser keeps callers from mutating cached entries
func copyUser(u *User) *User {
	c := *u
	return &c
}
