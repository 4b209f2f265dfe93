package journal

import "errors"

// ErrNotFound marks lookups for entities that do not exist. Callers check it
// with errors.Is; the wrapped message names the entity and identifier.
var ErrNotFound = errors.New("not found")

// ErrInvalid marks rejected input (unknown frequency, empty name, bad window).
var ErrInvalid = errors.New("invalid")
