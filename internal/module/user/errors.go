package user

import "errors"

// User module errors.
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrCredentialsRequired = errors.New("email and password are required")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrAccountDeactivated  = errors.New("account is deactivated")
)
