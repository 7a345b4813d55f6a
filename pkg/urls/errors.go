package urls

import "errors"

var (
	// ErrNoApplications is returned when the url file has no apps section or it is empty.
	ErrNoApplications = errors.New("urls: no applications mapped in url file")

	// ErrNoRootApplication is returned when no application is mapped to "/".
	ErrNoRootApplication = errors.New("urls: no root application mapped in url file")

	// ErrUnknownApp is returned when an app-relative URL names an app that is not mapped.
	ErrUnknownApp = errors.New("urls: application not installed")

	// ErrInvalidAppURL is returned for app-relative URLs with more than one colon.
	ErrInvalidAppURL = errors.New("urls: invalid app url format")

	// ErrUnsupportedFormat is returned when the url file extension is not recognized.
	ErrUnsupportedFormat = errors.New("urls: unsupported url file format")

	// ErrLoad wraps read and decode failures of the url file.
	ErrLoad = errors.New("urls: failed to load url file")
)
