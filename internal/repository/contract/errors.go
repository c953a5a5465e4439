package contract

import "errors"

// ErrStoreUnavailable signals that the backing database never came up.
// Callers degrade to empty results instead of crashing the turn.
var ErrStoreUnavailable = errors.New("vector store unavailable")
