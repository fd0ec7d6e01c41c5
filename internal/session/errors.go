package session

import "errors"

// Sentinel errors
var (
	// ErrMissingToken is returned by Login when no token is supplied.
	ErrMissingToken = errors.New("token is required")

	// ErrNoSession is returned by Validate when no token is stored.
	ErrNoSession = errors.New("no session")

	// ErrMalformedToken is returned when a token is not three dot-separated segments.
	ErrMalformedToken = errors.New("malformed token")

	// ErrTokenDecode is returned when the payload segment cannot be decoded.
	ErrTokenDecode = errors.New("failed to decode token payload")

	// ErrExpiredToken is returned by Validate when the exp claim is in the past.
	ErrExpiredToken = errors.New("token expired")

	// ErrStorageCorruption is logged when a stored value cannot be parsed.
	ErrStorageCorruption = errors.New("corrupt session storage")
)
