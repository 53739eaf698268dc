package posts

import (
	"context"

	"Posterr/internal/core/users"
)

// Service defines the business logic interface for posts
type Service interface {
	// CreatePost creates a post on behalf of the named user, or fails without side effects.
	// Flow: Validate shape -> Resolve user -> Daily limit -> Resolve original -> Chain rules -> Create
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)

	// ListPosts returns one page of posts ordered newest-first with the total match count.
	// An unknown FilterByAuthor yields an empty page, not an error.
	ListPosts(ctx context.Context, req ListPostsRequest) (*ListPostsResponse, error)
}

// Repository defines the data access interface for posts
type Repository interface {
	// Create inserts a new post. ID is assigned by the repository, and so is CreatedAt unless already set.
	Create(ctx context.Context, post *Post) error

	// GetByID retrieves a post by its ID. Returns ErrPostNotFound when absent.
	GetByID(ctx context.Context, id string) (*Post, error)

	// Count returns the number of posts matching filter
	Count(ctx context.Context, filter PostFilter) (int, error)

	// List returns posts matching filter ordered by created_at descending,
	// hydrated with author and original post views
	List(ctx context.Context, filter PostFilter, skip, take int) ([]*PostView, error)

	// WithAuthorLock runs fn with a repository whose calls are serialized against
	// every other WithAuthorLock call for the same author.
	// The daily limit check and the insert both happen inside fn.
	WithAuthorLock(ctx context.Context, authorID string, fn func(repo Repository) error) error
}

// UserFinder resolves usernames. Satisfied by users.UserRepository.
type UserFinder interface {
	GetByUsername(ctx context.Context, username string) (*users.User, error)
}
