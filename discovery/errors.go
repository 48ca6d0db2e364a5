package discovery

import "errors"

// ErrTimeout is returned when no beacon arrives within the configured window.
var ErrTimeout = errors.New("discovery: timeout")
