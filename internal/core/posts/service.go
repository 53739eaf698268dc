package posts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"
	"golang.org/x/sync/errgroup"

	"Posterr/internal/core/users"
)

const (
	// DailyPostLimit is the number of posts (of any type) a user may create per calendar day
	DailyPostLimit = 5

	// MaxContentLength is the maximum post length in characters
	MaxContentLength = 777

	// DefaultPageSize is used when ListPostsRequest.Limit is not set
	DefaultPageSize = 10

	// MaxPageSize caps ListPostsRequest.Limit
	MaxPageSize = 100
)

type postService struct {
	repo     Repository
	userRepo UserFinder
	now      func() time.Time
	location *time.Location
}

// Option configures optional post service dependencies
type Option func(*postService)

// WithClock overrides the clock used for the daily limit window
func WithClock(now func() time.Time) Option {
	return func(s *postService) {
		s.now = now
	}
}

// WithLocation sets the time zone whose calendar days bound the daily limit and end dates.
// Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *postService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// NewPostService creates a new post service
func NewPostService(repo Repository, userRepo UserFinder, opts ...Option) Service {
	s := &postService{
		repo:     repo,
		userRepo: userRepo,
		now:      time.Now,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePost creates a new post
// Flow:
// 1. Validate request shape
// 2. Resolve author by username
// 3. Under the author lock: enforce the daily limit
// 4. For reposts/quotes: resolve the original post and apply chain rules
// 5. Insert the post
func (s *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	req = normalizeCreateRequest(req)

	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, NewNotFoundError(ResourceUser, req.Username)
		}
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}

	var created *Post
	err = s.repo.WithAuthorLock(ctx, author.ID, func(repo Repository) error {
		if err := s.checkDailyLimit(ctx, repo, author.ID); err != nil {
			return err
		}

		if req.Type.IsChained() {
			if err := s.checkChain(ctx, repo, req); err != nil {
				return err
			}
		}

		post := &Post{
			AuthorID:       author.ID,
			Content:        req.Content,
			Type:           req.Type,
			OriginalPostID: req.OriginalPostID,
		}
		if err := repo.Create(ctx, post); err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}
		created = post
		return nil
	})
	if err != nil {
		if isRuleViolation(err) {
			slog.DebugContext(ctx, "post rejected",
				slog.String("username", req.Username),
				slog.String("type", string(req.Type)),
				slog.String("reason", err.Error()))
		}
		return nil, err
	}

	slog.InfoContext(ctx, "post created",
		slog.String("post_id", created.ID),
		slog.String("username", req.Username),
		slog.String("type", string(created.Type)))

	return created, nil
}

// checkDailyLimit counts every post the author created during the current calendar day
func (s *postService) checkDailyLimit(ctx context.Context, repo Repository, authorID string) error {
	start, end := DayBounds(s.now(), s.location)

	count, err := repo.Count(ctx, PostFilter{
		AuthorID:    authorID,
		CreatedFrom: &start,
		CreatedTo:   &end,
	})
	if err != nil {
		return fmt.Errorf("failed to count posts for daily limit: %w", err)
	}

	if count >= DailyPostLimit {
		return &LimitExceededError{Limit: DailyPostLimit, Count: count}
	}
	return nil
}

// checkChain resolves the referenced post and forbids same-type chaining
func (s *postService) checkChain(ctx context.Context, repo Repository, req CreatePostRequest) error {
	if req.OriginalPostID == nil {
		return NewValidationError("originalPostId", "Original post ID is required for Reposts/Quotes")
	}

	original, err := repo.GetByID(ctx, *req.OriginalPostID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return NewNotFoundError(ResourceOriginalPost, *req.OriginalPostID)
		}
		return fmt.Errorf("failed to fetch original post: %w", err)
	}

	if req.Type == PostTypeRepost && original.Type == PostTypeRepost {
		return &ChainError{Type: req.Type, OriginalType: original.Type}
	}
	if req.Type == PostTypeQuote && original.Type == PostTypeQuote {
		return &ChainError{Type: req.Type, OriginalType: original.Type}
	}
	return nil
}

// normalizeCreateRequest treats empty optional strings as absent
func normalizeCreateRequest(req CreatePostRequest) CreatePostRequest {
	req.Username = strings.TrimSpace(req.Username)
	if req.Content != nil && *req.Content == "" {
		req.Content = nil
	}
	if req.OriginalPostID != nil && strings.TrimSpace(*req.OriginalPostID) == "" {
		req.OriginalPostID = nil
	}
	return req
}

// validateCreateRequest validates the request shape. It never touches the store.
// A missing originalPostId on a repost/quote is left to checkChain so it is reported after the daily limit.
func (s *postService) validateCreateRequest(req CreatePostRequest) error {
	if !req.Type.Valid() {
		return NewValidationError("type",
			fmt.Sprintf("type must be one of %s, %s, %s", PostTypeOriginal, PostTypeRepost, PostTypeQuote))
	}

	if req.Username == "" {
		return NewValidationError("username", "username is required")
	}
	if uniseg.GraphemeClusterCount(req.Username) > users.MaxUsernameLength {
		return NewValidationError("username",
			fmt.Sprintf("username too long (max %d characters)", users.MaxUsernameLength))
	}

	if req.Content != nil && uniseg.GraphemeClusterCount(*req.Content) > MaxContentLength {
		return NewValidationError("content",
			fmt.Sprintf("content too long (max %d characters)", MaxContentLength))
	}

	hasContent := req.Content != nil && strings.TrimSpace(*req.Content) != ""
	switch req.Type {
	case PostTypeOriginal:
		if !hasContent {
			return NewValidationError("content", "content is required for original posts")
		}
		if req.OriginalPostID != nil {
			return NewValidationError("originalPostId", "original posts cannot reference another post")
		}
	case PostTypeQuote:
		if !hasContent {
			return NewValidationError("content", "content is required for quote-posts")
		}
	case PostTypeRepost:
		if req.Content != nil {
			return NewValidationError("content", "reposts cannot have content")
		}
	}

	if req.OriginalPostID != nil {
		if _, err := uuid.Parse(*req.OriginalPostID); err != nil {
			return NewValidationError("originalPostId", "originalPostId must be a valid UUID")
		}
	}

	return nil
}

// ListPosts returns a page of posts, newest first
func (s *postService) ListPosts(ctx context.Context, req ListPostsRequest) (*ListPostsResponse, error) {
	if req.Page < 1 {
		return nil, NewValidationError("page", "page must be greater than or equal to 1")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	// (page-1)*limit must fit in an int
	if req.Page-1 > math.MaxInt/limit {
		return nil, NewValidationError("page", "page is too large")
	}

	var filter PostFilter

	if author := strings.TrimSpace(req.FilterByAuthor); author != "" {
		user, err := s.userRepo.GetByUsername(ctx, author)
		if err != nil {
			if errors.Is(err, users.ErrUserNotFound) {
				// Unknown author means no results, not an error
				return &ListPostsResponse{
					Data:  []*PostView{},
					Total: 0,
					Page:  req.Page,
				}, nil
			}
			return nil, fmt.Errorf("failed to resolve author filter: %w", err)
		}
		filter.AuthorID = user.ID
	}

	from, to, err := s.parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	filter.CreatedFrom = from
	filter.CreatedTo = to

	skip := (req.Page - 1) * limit

	var (
		views []*PostView
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var listErr error
		views, listErr = s.repo.List(gctx, filter, skip, limit)
		if listErr != nil {
			return fmt.Errorf("failed to list posts: %w", listErr)
		}
		return nil
	})
	g.Go(func() error {
		var countErr error
		total, countErr = s.repo.Count(gctx, filter)
		if countErr != nil {
			return fmt.Errorf("failed to count posts: %w", countErr)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if views == nil {
		views = []*PostView{}
	}

	return &ListPostsResponse{
		Data:       views,
		Total:      total,
		Page:       req.Page,
		TotalPages: totalPages(total, limit),
	}, nil
}

// parseDateRange parses the optional bounds; the end bound is widened to the end of its day
func (s *postService) parseDateRange(startDate, endDate string) (from, to *time.Time, err error) {
	if startDate = strings.TrimSpace(startDate); startDate != "" {
		start, parseErr := ParseDate(startDate, s.location)
		if parseErr != nil {
			return nil, nil, NewValidationError("startDate", parseErr.Error())
		}
		from = &start
	}

	if endDate = strings.TrimSpace(endDate); endDate != "" {
		end, parseErr := ParseDate(endDate, s.location)
		if parseErr != nil {
			return nil, nil, NewValidationError("endDate", parseErr.Error())
		}
		end = EndOfDay(end, s.location)
		to = &end
	}

	return from, to, nil
}

func totalPages(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func isRuleViolation(err error) bool {
	return IsNotFound(err) || IsLimitExceeded(err) || IsValidationError(err) || IsInvalidChain(err)
}
