// Package logger builds the slog loggers used across duende.
//
// New selects JSON or text output and the level from Config, adds
// request scoped attributes through ContextExtractors and optionally
// forwards warnings and errors to Sentry:
//
//	log := logger.New(logger.Config{Level: "debug", Format: "text"},
//		logger.StringValue("request_id", requestIDKey{}),
//	)
//
// NewNope returns a logger discarding everything; it is the application
// default until one is configured.
package logger
