package resettoken

import "errors"

var (
	ErrTokenDoesNotExist = errors.New("password reset token does not exist")
	// ErrTokenAlreadyExists signals a generated token collided with a stored
	// one. With 256 bits of entropy this is practically unreachable, but the
	// repository still retries on it.
	ErrTokenAlreadyExists = errors.New("password reset token already exists")
	ErrDeliveryFailed     = errors.New("could not deliver password reset token")
)
