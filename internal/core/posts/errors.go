package posts

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by repositories
var (
	// ErrPostNotFound is returned when a post lookup finds no matching record
	ErrPostNotFound = errors.New("post not found")
)

// Resource names used in NotFoundError
const (
	ResourceUser         = "User"
	ResourceOriginalPost = "Original post"
)

// NotFoundError represents a missing user or referenced post
type NotFoundError struct {
	Resource string // e.g., "User", "Original post"
	ID       string // Identifier that was looked up
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr) || errors.Is(err, ErrPostNotFound)
}

// LimitExceededError is returned when the author already reached the daily post cap
type LimitExceededError struct {
	Limit int
	Count int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("Daily post limit reached (max %d)", e.Limit)
}

// IsLimitExceeded checks if error is a daily limit error
func IsLimitExceeded(err error) bool {
	var limitErr *LimitExceededError
	return errors.As(err, &limitErr)
}

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// ChainError is returned when a repost or quote points at a post it may not reference
type ChainError struct {
	Type         PostType // type of the post being created
	OriginalType PostType // type of the referenced post
}

func (e *ChainError) Error() string {
	if e.Type == PostTypeQuote {
		return "Cannot quote-post a quote-post"
	}
	return "Cannot repost a repost"
}

// IsInvalidChain checks if error is a chain rule violation
func IsInvalidChain(err error) bool {
	var chainErr *ChainError
	return errors.As(err, &chainErr)
}
