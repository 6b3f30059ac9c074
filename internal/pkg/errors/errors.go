package errors

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid")
	ErrTooMany  = errors.New("too many requests")
	ErrUpstream = errors.New("upstream failure")
	ErrInternal = errors.New("internal")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}
