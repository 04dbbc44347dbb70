package store

import "errors"

// ErrNotFound is returned when no document matches the lookup
var ErrNotFound = errors.New("document not found")
