package calculator

import "errors"

var (
	// ErrMalformedExpression means the buffer does not parse as arithmetic.
	ErrMalformedExpression = errors.New("malformed expression")

	// ErrNonFiniteResult means the expression parsed but evaluated to
	// infinity or NaN, e.g. division by zero.
	ErrNonFiniteResult = errors.New("non-finite result")

	// ErrUnsupportedToken is returned by Append for runes outside the
	// token alphabet.
	ErrUnsupportedToken = errors.New("unsupported token")
)

var (
	// ErrUnsupportedKey is returned for keys outside the keyboard contract.
	ErrUnsupportedKey = errors.New("unsupported key")

	// ErrSessionNotFound is returned by Store lookups for unknown or
	// expired sessions.
	ErrSessionNotFound = errors.New("session not found")
)
