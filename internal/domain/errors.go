package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by services, repositories and the HTTP layer.
var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConflict      = errors.New("conflict")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidFilter = errors.New("filter contains invalid field or operator")

	// ErrUnsupportedOperator is returned when an operator is valid in general but
	// not for the field it is applied to (e.g. a range comparison on an enum).
	ErrUnsupportedOperator = errors.New("unsupported operator for field")

	// ErrUnknownEnumValue is returned when a symbolic enum value names no member.
	ErrUnknownEnumValue = errors.New("unknown enum value")

	// ErrTransientConflict is returned when the store aborted a transaction because
	// of concurrent access. Register/unregister may be retried by the caller.
	ErrTransientConflict = errors.New("transaction aborted by concurrent update")
)

// Conflict errors. All of them match ErrConflict with errors.Is.
var (
	ErrAlreadyRegistered = fmt.Errorf("%w: you have already registered for this conference", ErrConflict)
	ErrNoSeatsAvailable  = fmt.Errorf("%w: there are no seats available", ErrConflict)
	ErrAlreadyInWishlist = fmt.Errorf("%w: you have already added this session to your wishlist", ErrConflict)
)
