package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is the shared sentinel for a missing record. Every
// Repository backend wraps it so callers can distinguish absence from
// transport failure with errors.Is regardless of the backend in use.
var ErrNotFound = goerr.New("record not found")
