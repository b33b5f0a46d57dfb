package tap

import (
	"errors"
)

// Errors of the tap.
var (
	ErrReadFailure         = errors.New("read failure")
	ErrAlreadyOpen         = errors.New("transport already open")
	ErrConfigurationFrozen = errors.New("filter configuration is frozen")
)
