package models

import (
	"errors"
)

// Business-rule failures are branched on with errors.Is and translated into
// user-facing responses by the handler layer. ErrUnavailable marks
// infrastructure failures (store unreachable, timeout) that handlers surface
// as 5xx; this layer never retries them.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnavailable   = errors.New("store unavailable")
)
