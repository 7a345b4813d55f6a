package internal

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// RootModule is the module path of views registered at the top of an app.
const RootModule = "root"

// DefaultView is the view name used when the URL names none.
const DefaultView = "index"

// View is a request handler registered under an app, a module path and a name.
type View struct {
	Handler HandlerFunc

	// Public overrides the default access rule of the Auth middleware.
	// nil means the default applies.
	Public *bool

	Name string
}

// IsPublic reports whether the view can be called without a signed in user.
func (v View) IsPublic(def bool) bool {
	if v.Public == nil {
		return def
	}
	return *v.Public
}

// ViewOption configures a View at registration.
type ViewOption func(*View)

// Public marks a view as reachable without authentication, or explicitly
// protected with false.
func Public(public bool) ViewOption {
	return func(v *View) {
		v.Public = boolPtr(public)
	}
}

// ResolvedView is the outcome of resolving a request path.
type ResolvedView struct {
	View   View
	App    string
	Module string
	Name   string

	// Resource is the resource URI when the path matched the resource mapping.
	Resource string
}

// String returns the dotted view path, e.g. "blog.posts.edit".
func (rv *ResolvedView) String() string {
	if rv == nil {
		return ""
	}
	return rv.App + "." + rv.Module + "." + rv.Name
}

// Registry maps app -> module path -> view name to views.
// It is safe for concurrent use; registration normally happens at startup.
type Registry struct {
	views map[string]map[string]map[string]View
	mu    sync.RWMutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{views: make(map[string]map[string]map[string]View)}
}

// Register adds a view. An empty module registers at RootModule.
// Registering the same app, module and name twice replaces the view.
func (r *Registry) Register(app, module, name string, h HandlerFunc, opts ...ViewOption) error {
	if app == "" || name == "" || h == nil {
		return fmt.Errorf("%w: app, name and handler are required", ErrInvalidView)
	}
	if module == "" {
		module = RootModule
	}

	v := View{Name: name, Handler: h}
	for _, opt := range opts {
		opt(&v)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	modules, ok := r.views[app]
	if !ok {
		modules = make(map[string]map[string]View)
		r.views[app] = modules
	}
	views, ok := modules[module]
	if !ok {
		views = make(map[string]View)
		modules[module] = views
	}
	views[strings.ToLower(name)] = v
	return nil
}

// Lookup returns the view registered at app, module and name.
func (r *Registry) Lookup(app, module, name string) (View, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.views[app][module][strings.ToLower(name)]
	return v, ok
}

// Apps returns the names of apps with registered views, sorted.
func (r *Registry) Apps() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	apps := make([]string, 0, len(r.views))
	for app := range r.views {
		apps = append(apps, app)
	}
	slices.Sort(apps)
	return apps
}

// Modules returns the module paths registered in app, sorted.
func (r *Registry) Modules(app string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mods := make([]string, 0, len(r.views[app]))
	for m := range r.views[app] {
		mods = append(mods, m)
	}
	slices.Sort(mods)
	return mods
}

func boolPtr(b bool) *bool { return &b }
