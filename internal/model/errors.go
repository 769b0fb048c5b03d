package model

import "errors"

var (
	// ErrNotFound is returned when the requested entity does not exist.
	// For shared links it also covers "wrong recipient" and "expired":
	// callers must not be able to tell those cases apart.
	ErrNotFound = errors.New("not found")

	// ErrUniqueViolation is returned when an insert or update would
	// duplicate a unique column (username, email).
	ErrUniqueViolation = errors.New("unique constraint violation")

	// ErrUnavailable marks transient store failures (broken connection,
	// timeout). Safe for the caller to retry.
	ErrUnavailable = errors.New("store unavailable")

	// ErrInvalidPassword is returned by the access gate when the supplied
	// shared-link password does not match.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvariant indicates a broken storage invariant, e.g. a shared
	// link whose file row is gone. Never expected in normal operation.
	ErrInvariant = errors.New("storage invariant violation")
)
