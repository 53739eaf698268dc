package posts

import (
	"time"
)

// PostType is the variant of a post
type PostType string

const (
	// PostTypeOriginal is a post authored directly, not referencing another post
	PostTypeOriginal PostType = "ORIGINAL"
	// PostTypeRepost re-shares another post verbatim and carries no content of its own
	PostTypeRepost PostType = "REPOST"
	// PostTypeQuote carries its own content and references another post
	PostTypeQuote PostType = "QUOTE"
)

// Valid reports whether t is one of the known post types
func (t PostType) Valid() bool {
	switch t {
	case PostTypeOriginal, PostTypeRepost, PostTypeQuote:
		return true
	}
	return false
}

// IsChained reports whether posts of this type must reference an original post
func (t PostType) IsChained() bool {
	return t == PostTypeRepost || t == PostTypeQuote
}

// Post represents a post row
type Post struct {
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	Content        *string   `json:"content" db:"content"`
	OriginalPostID *string   `json:"originalPostId" db:"original_post_id"`
	ID             string    `json:"id" db:"id"`
	AuthorID       string    `json:"authorId" db:"author_id"`
	Type           PostType  `json:"type" db:"type"`
}

// CreatePostRequest represents input for creating a new post
type CreatePostRequest struct {
	Content        *string  `json:"content,omitempty"`
	OriginalPostID *string  `json:"originalPostId,omitempty"`
	Username       string   `json:"username"`
	Type           PostType `json:"type"`
}

// ListPostsRequest represents input for listing posts.
// StartDate and EndDate are raw strings as received from the client; the service parses them.
type ListPostsRequest struct {
	FilterByAuthor string
	StartDate      string
	EndDate        string
	Page           int
	Limit          int
}

// ListPostsResponse is a single page of posts, newest first
type ListPostsResponse struct {
	Data       []*PostView `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	TotalPages int         `json:"totalPages"`
}

// PostView is a post enriched with its author and, for reposts and quotes, the referenced post
type PostView struct {
	Post
	Author       *AuthorView       `json:"author"`
	OriginalPost *OriginalPostView `json:"originalPost"`
}

// AuthorView represents author information in post views
type AuthorView struct {
	JoinedAt *time.Time `json:"joinedAt,omitempty"`
	Username string     `json:"username"`
}

// OriginalPostView is the referenced post of a repost or quote, with its author's username
type OriginalPostView struct {
	Post
	Author *AuthorView `json:"author"`
}

// PostFilter narrows Count and List queries.
// Zero values mean "no constraint"; CreatedFrom and CreatedTo are inclusive.
type PostFilter struct {
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	AuthorID    string
}
