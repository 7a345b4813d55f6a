package cache

import "errors"

// ErrNotFound is returned when a key is missing or has expired.
var ErrNotFound = errors.New("cache: entry not found")
