package services

import (
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"google.golang.org/grpc/codes"
)

// Kind classifies every failure surfaced by AuthService.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindAlreadyExists
	KindInvalidCredentials
	KindTokenInvalid
	KindTokenExpired
)

// Caller-visible messages.
const (
	MsgFieldsRequired     = "Email and password are required"
	MsgInvalidEmail       = "Invalid email format"
	MsgPasswordTooShort   = "Password must be at least 8 characters"
	MsgUserExists         = "User already exists"
	MsgInvalidCredentials = "Invalid credentials"
	MsgInternal           = "Internal server error"
	MsgTokenInvalid       = "Invalid token"
	MsgTokenExpired       = "Token expired"
	MsgTokenMissing       = "Missing token"
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindAlreadyExists:
		return "already_exists"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindTokenInvalid:
		return "token_invalid"
	case KindTokenExpired:
		return "token_expired"
	default:
		return "internal"
	}
}

// HTTPStatus is the response status for k.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidInput:
		return 400
	case KindAlreadyExists:
		return 409
	case KindInvalidCredentials, KindTokenInvalid, KindTokenExpired:
		return 401
	default:
		return 500
	}
}

// GRPCCode is the status code for k.
func (k Kind) GRPCCode() codes.Code {
	switch k {
	case KindInvalidInput:
		return codes.InvalidArgument
	case KindAlreadyExists:
		return codes.AlreadyExists
	case KindInvalidCredentials, KindTokenInvalid, KindTokenExpired:
		return codes.Unauthenticated
	default:
		return codes.Internal
	}
}

// AuthError is the only error type AuthService returns. Message is safe to
// show to the caller; internal detail never ends up in it.
type AuthError struct {
	Kind    Kind
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap lets errors.Is match the shared sentinels in common.
func (e *AuthError) Unwrap() error {
	switch e.Kind {
	case KindInvalidInput:
		return common.ErrorValidation
	case KindAlreadyExists:
		return common.ErrorAlreadyExists
	case KindInvalidCredentials:
		return common.ErrorUnauthorized
	case KindTokenInvalid:
		return common.ErrInvalidToken
	case KindTokenExpired:
		return common.ErrTokenExpired
	default:
		return common.ErrorInternal
	}
}

func newAuthError(kind Kind, msg string) *AuthError {
	return &AuthError{Kind: kind, Message: msg}
}

func errInternal() *AuthError {
	return newAuthError(KindInternal, MsgInternal)
}
