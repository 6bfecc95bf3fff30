// api/errors/auth_errors.go
package errors

import "errors"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrMissingToken       = errors.New("missing credential")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountExists      = errors.New("account already exists")
)
