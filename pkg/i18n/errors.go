package i18n

import "errors"

var (
	ErrEmptyLanguage = errors.New("i18n: language cannot be empty")
	ErrEmptyDomain   = errors.New("i18n: domain cannot be empty")
	ErrNilPluralRule = errors.New("i18n: plural rule cannot be nil")
	ErrInvalidFile   = errors.New("i18n: invalid translation file")
	ErrUnknownDomain = errors.New("i18n: invalid translation domain")
)
