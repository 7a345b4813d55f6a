// Package internal provides the core types and implementation for the duende framework.
//
// This package is internal and should not be used directly. Import "github.com/dmitrymomot/duende"
// instead, which re-exports the public API.
//
// # Core Types
//
//   - App: owns the URL mapping, the view registry, the resolver and the server lifecycle
//   - Context: request/response access, session, translations, templates, flash and DB
//   - Registrar: the interface handlers use to declare views and modules
//   - Handler: implemented by types that declare views on a Registrar
//   - HandlerFunc: signature of a view, returns an error mapped to an HTTP response
//   - Middleware: wraps a HandlerFunc; the first middleware in a chain runs first
//   - ViewResolver: turns a request path into an app, module and view name
//
// # Convention URLs
//
// A request path is resolved against the URL mapping. The last segment names the
// view. A first segment matching the base url of an enabled app selects the app,
// the segments in between form the dotted module path:
//
//	/blog/posts/list   -> app "blog", module "posts", view "list"
//	/blog/list         -> app "blog", module "root",  view "list"
//	/about             -> root app,   module "root",  view "about"
//	/                  -> root app,   module "root",  view "index"
//
// Views whose name starts with an underscore are never reachable from a URL.
// Resource entries of the mapping (url:, call: and egg:) are resolved before the
// convention rules apply.
//
// # Declaring views
//
//	type Posts struct{ repo *Repo }
//
//	func (p *Posts) Views(r internal.Registrar) {
//	    r.Module("posts", func(r internal.Registrar) {
//	        r.View("index", p.list, internal.Public(true))
//	        r.View("edit", p.edit)
//	    })
//	}
//
//	app, err := internal.New(
//	    internal.WithURLFile("urls.ini"),
//	    internal.WithViews("blog", &Posts{repo: repo}),
//	)
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to any function
// that expects a standard library context:
//
//	func (p *Posts) list(c internal.Context) error {
//	    posts, err := p.repo.List(c)
//	    if err != nil {
//	        return err
//	    }
//	    return c.RenderTemplate(http.StatusOK, "posts/list.html", posts)
//	}
//
// Request scoped services (translations, templates, database handle, flash) are
// installed by middlewares. Accessors return a typed error when the middleware
// providing the service is missing from the chain.
//
// # Errors
//
// A view returns an error instead of writing a failure response. HTTPError values
// carry their status code; everything else becomes a 500. The Errors middleware
// renders JSON-RPC errors for XHR requests that accept JSON.
package internal
