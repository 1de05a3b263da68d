package domain

import "errors"

var (
	// ErrInvalidInput means a tenant or realm identifier failed validation.
	ErrInvalidInput = errors.New("invalid tenant or realm id")

	// ErrInvalidUUID means an account identifier is not a syntactically valid UUID.
	ErrInvalidUUID = errors.New("invalid uuid")

	// ErrAccountExists is returned when the tenant/realm pair is already registered.
	ErrAccountExists = errors.New("account already exists")
)
