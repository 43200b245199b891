package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
	ErrUserNotFound       = fmt.Errorf("user not found")
	ErrReceiverNotFound   = fmt.Errorf("receiver not found")
	ErrAdNotFound         = fmt.Errorf("ad not found")
	ErrNotAdOwner         = fmt.Errorf("ad belongs to another user")
	ErrInvalidAd          = fmt.Errorf("ad fields are invalid")
)

// MapToHTTPStatus translates domain errors into HTTP status codes at the API boundary.
// Unknown errors map to 500 so internal details never leak to clients.
func MapToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUserAlreadyExists),
		errors.Is(err, ErrInvalidPassword),
		errors.Is(err, ErrInvalidAd):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotAdOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrReceiverNotFound),
		errors.Is(err, ErrAdNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
