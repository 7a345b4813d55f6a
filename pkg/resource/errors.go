package resource

import "errors"

var (
	ErrUnknownScheme = errors.New("resource: unknown resource uri")
	ErrInvalidURI    = errors.New("resource: invalid resource uri")
	ErrNotFound      = errors.New("resource: file not found")
)
