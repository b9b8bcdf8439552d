package modem

import "errors"

var (
	ErrNoResponse     = errors.New("modem: no response to AT")
	ErrNotRegistered  = errors.New("modem: not registered on network")
	ErrHTTPNoResponse = errors.New("modem: no +HTTPACTION result")
	ErrBadResponse    = errors.New("modem: unexpected response")
)
