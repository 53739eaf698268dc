package users

import (
	"errors"
	"fmt"
)

// Sentinel errors for common user operations
var (
	// ErrUserNotFound is returned when a user lookup finds no matching record
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned when creating a user whose username already exists
	ErrUsernameTaken = errors.New("username already taken")
)

// InvalidUsernameError is returned when a username does not meet format requirements
type InvalidUsernameError struct {
	Username string
	Reason   string
}

func (e *InvalidUsernameError) Error() string {
	return fmt.Sprintf("invalid username %q: %s", e.Username, e.Reason)
}

// IsInvalidUsername checks if error is an invalid username error
func IsInvalidUsername(err error) bool {
	var invalid *InvalidUsernameError
	return errors.As(err, &invalid)
}
