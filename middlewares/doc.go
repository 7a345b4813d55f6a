// Package middlewares provides the request pipeline of duende applications.
//
// Every middleware works on the single internal.Context of a request, so
// services installed by one (translations, templates, database session, flash)
// are visible to the ones after it and to the view.
//
// # Default order
//
// duende.NewApp assembles the chain below, outermost first. Apps built with
// duende.New pick their own:
//
//	duende.WithMiddleware(
//	    middlewares.RequestID(),             // tag requests and logs
//	    middlewares.Recover(),               // panics become *PanicError
//	    middlewares.Requests(),              // "[status] uri" debug log
//	    middlewares.Errors(),                // render errors, JSON-RPC for XHR
//	    middlewares.LimitUploadSize(10<<20), // reject oversized POST bodies
//	    middlewares.ResolveView(),           // 404 before any other work
//	    middlewares.Locale(catalog),         // translation manager and locale
//	    middlewares.Template(env),           // template environment
//	    middlewares.Database(pool),          // scoped DB session, released after the view
//	    middlewares.RequestContext(),        // sessions must be enabled
//	    middlewares.Flash(),                 // flash messages
//	    middlewares.Auth(middlewares.WithAuthLoginURL("site:/login")),
//	)
//
// # Errors
//
// Views return errors instead of writing failure responses. Errors renders
// *internal.HTTPError with its own status, *jsonrpc.Error as a JSON-RPC
// envelope, *TimeoutError as 504 and anything else as 500. XHR requests that
// accept JSON get a JSON-RPC internal error instead of the 500 page. With
// WithErrorsNotifier every 5xx is reported by mail.
//
// # Logging
//
// RequestIDExtractor, ViewExtractor and UserExtractor add request attributes
// to every log entry:
//
//	duende.WithLogger("site", logger.Config{}, middlewares.RequestIDExtractor(), middlewares.ViewExtractor())
package middlewares
