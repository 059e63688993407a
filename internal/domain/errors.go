package domain

import "errors"

// Sentinel errors for the storage layer.
var (
	ErrNotFound      = errors.New("requested resource not found")
	ErrAccountExists = errors.New("account with this email or username already exists")
)
