package client

import (
	"errors"

	"google.golang.org/grpc/codes"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a failure reported by the server. Message is meant to be shown
// to the user as is.
type APIError struct {
	Code    codes.Code
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Is makes errors.Is(err, ErrUnauthorized) true for authentication failures.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Code == codes.Unauthenticated
}
