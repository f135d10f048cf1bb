package client

import "errors"

var (
	ErrUnavailable = errors.New("server unavailable")
	// ErrBadResponse means the server answered with a payload of the wrong shape.
	ErrBadResponse = errors.New("malformed server response")
)
