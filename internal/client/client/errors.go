package client

import "errors"

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrTransport   = errors.New("rpc error")
)
