package template

import "errors"

var (
	ErrTemplateNotFound = errors.New("template: not found")
	ErrParse            = errors.New("template: parse failed")
	ErrRender           = errors.New("template: render failed")
	ErrUnknownMimeType  = errors.New("template: unrecognized mime type")
	ErrNoReload         = errors.New("template: environment was not built from directories")
	ErrBadArguments     = errors.New("template: invalid keyword arguments")
)
