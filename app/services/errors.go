package services

import "errors"

var (
	// ErrInvalidForm means the submitted form carries field errors.
	ErrInvalidForm = errors.New("invalid form")
	// ErrInvalidCredentials means the username/password pair did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLoginRequired means the operation needs a signed-in user.
	ErrLoginRequired = errors.New("login required")
)
