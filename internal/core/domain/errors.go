package domain

import "errors"

var (
	// ErrUnauthorized covers a missing key, a key that resolves to nothing,
	// and a resolved tier below the operation's minimum. The API boundary
	// maps all three to 401; the core does not distinguish them further.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned by login on wrong email or password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrBadRequest marks caller errors: an empty search query, a missing
	// date-range bound, a malformed tier.
	ErrBadRequest = errors.New("bad request")

	ErrUserExists = errors.New("user already exists")
)
