// Package duende is a convention based web framework. Request paths resolve to
// views by naming convention instead of a route table:
//
//	/<app url>/<module path>/<view name>
//
// The url file maps application names to url prefixes. The application whose
// prefix is "/" is the root app. An empty view name resolves to "index", a
// path without modules to the "root" module, so "/" resolves to
// "site.root.index" and "/blog/posts/list" to "blog.posts.list". Views whose
// name starts with "_" are hidden.
//
// # Quick Start
//
//	cfg, err := duende.LoadConfig()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	app, err := duende.NewApp(cfg, duende.Services{},
//	    duende.WithHandlers(handlers.NewPages()),
//	    duende.WithViews("blog", handlers.NewPosts(repo)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := duende.Run(app, duende.Address(cfg.Address)); err != nil {
//	    log.Fatal(err)
//	}
//
// # Views
//
// Handlers declare the views of one application:
//
//	type Posts struct{ repo *repository.Queries }
//
//	func (h *Posts) Views(r duende.Registrar) {
//	    r.View("index", view.Template("blog/posts.html", h.list))
//	    r.Module("api", func(r duende.Registrar) {
//	        r.Use(view.Restrict(http.MethodPost))
//	        r.View("save", view.JSONRPC(h.save), duende.Public(false))
//	    })
//	}
//
// # Resources
//
// Each application keeps its templates, translations and static files under
// the resources directory:
//
//	resources/blog/templates/   html/template files, named "blog/<file>"
//	resources/blog/locale/      es.yaml, pt_BR.json... in the "blog" domain
//	resources/blog/static/      served as is before any view
//
// # Middleware
//
// NewApp installs the default chain documented in the middlewares package.
// Services.Middlewares run after it, right before the view. Apps built with
// New choose every middleware themselves.
//
// # Errors
//
// Views return errors. *HTTPError values keep their status, unknown views
// answer 404 and anything else is a 500. XHR requests receive JSON-RPC error
// envelopes.
package duende
