package internal

// Handler registers the views of an application module.
//
// Example:
//
//	type Posts struct {
//	    repo *repository.Queries
//	}
//
//	func (h *Posts) Views(r duende.Registrar) {
//	    r.View("index", h.list, duende.Public(true))
//	    r.View("edit", h.edit)
//	}
type Handler interface {
	Views(r Registrar)
}

// HandlerFunc is the signature for views.
// It receives a Context and returns an error.
// Returning a non-nil error triggers the error handling middleware.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns.
// Middleware can inspect/modify the request, short-circuit processing,
// or wrap the response.
//
// Example:
//
//	func Audit(next duende.HandlerFunc) duende.HandlerFunc {
//	    return func(c duende.Context) error {
//	        c.LogInfo("view called", "view", c.View().Name)
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors that escape the middleware chain.
type ErrorHandler func(Context, error) error

// Chain wraps h with middlewares. The first middleware is the outermost.
func Chain(h HandlerFunc, mws ...Middleware) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
