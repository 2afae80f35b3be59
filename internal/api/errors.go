package api

import (
	"errors"
	"fmt"
)

// Error is a non-2xx response from the backend. Detail carries the
// backend's {"detail": "..."} message, or a generic status message when the
// body could not be decoded.
type Error struct {
	Status int
	Method string
	Path   string
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend error (%d) on %s %s: %s", e.Status, e.Method, e.Path, e.Detail)
}

// AuthError indicates the bearer credential was rejected.
type AuthError struct {
	Err *Error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Err.Detail)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// Detail returns the message a user should see for err: the backend detail
// when err came from a non-2xx response, otherwise err's own text.
func Detail(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return err.Error()
}
