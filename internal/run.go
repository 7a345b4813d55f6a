package internal

import (
	"cmp"
	"context"
	"errors"
	"slices"
)

// Run starts an HTTP server for app and blocks until shutdown.
// Lifecycle hooks registered on the app run first at startup and last at
// shutdown. Job workers start before requests are served and stop gracefully
// during shutdown.
//
// Example:
//
//	err := duende.Run(app,
//	    duende.Address(":8080"),
//	    duende.Logger(log),
//	    duende.ShutdownHook(db.Shutdown(pool)),
//	)
func Run(app *App, opts ...RunOption) error {
	if app == nil {
		return errors.New("duende.Run: app is required")
	}
	cfg := buildRunConfig(opts...)

	startupHooks := append(slices.Clone(app.startupHooks), cfg.startupHooks...)
	shutdownHooks := append(slices.Clone(cfg.shutdownHooks), app.shutdownHooks...)

	if worker := app.JobWorker(); worker != nil {
		startupHooks = append([]func(context.Context) error{worker.Start}, startupHooks...)
		// Workers stop before the pool they use is closed.
		shutdownHooks = append([]func(context.Context) error{worker.Shutdown()}, shutdownHooks...)
	}

	cfg.startupHooks = startupHooks
	cfg.shutdownHooks = shutdownHooks
	cfg.logger = cmp.Or(cfg.logger, app.logger)

	return newServer(app, cfg).run()
}
