package internal

import "strings"

// Registrar is the interface handlers use to declare views.
// Views are addressed by convention: /<app base url>/<module path>/<view>.
type Registrar interface {
	// View registers h under name in the current module.
	View(name string, h HandlerFunc, opts ...ViewOption)

	// Module registers the views declared in fn under a sub-module.
	// Module paths are dotted: Module("admin") inside Module("blog") gives "blog.admin".
	Module(path string, fn func(r Registrar))

	// Use appends middleware applied to the views registered afterwards
	// in this module and its sub-modules.
	Use(mw ...Middleware)
}

// registrar binds a Registry to one app and module path.
type registrar struct {
	registry *Registry
	app      string
	module   string
	mws      []Middleware
	errs     *[]error
}

func newRegistrar(reg *Registry, app string, errs *[]error) *registrar {
	return &registrar{registry: reg, app: app, errs: errs}
}

func (r *registrar) View(name string, h HandlerFunc, opts ...ViewOption) {
	if h != nil && len(r.mws) > 0 {
		h = Chain(h, r.mws...)
	}
	if err := r.registry.Register(r.app, r.module, name, h, opts...); err != nil {
		*r.errs = append(*r.errs, err)
	}
}

func (r *registrar) Module(path string, fn func(Registrar)) {
	path = strings.Trim(path, ".")
	if r.module != "" && r.module != RootModule {
		path = r.module + "." + path
	}
	fn(&registrar{
		registry: r.registry,
		app:      r.app,
		module:   path,
		mws:      append([]Middleware(nil), r.mws...),
		errs:     r.errs,
	})
}

func (r *registrar) Use(mw ...Middleware) {
	r.mws = append(r.mws, mw...)
}
