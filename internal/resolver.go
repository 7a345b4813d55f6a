package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/dmitrymomot/duende/pkg/cache"
	"github.com/dmitrymomot/duende/pkg/resource"
	"github.com/dmitrymomot/duende/pkg/urls"
)

var reInvalidURLChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

const defaultResolverCacheSize = 1024

// ViewResolver maps request paths to registered views.
// Resolutions are cached by normalized path; the registry and the url
// mapping must not change after the first request.
type ViewResolver struct {
	registry     *Registry
	mapping      *urls.Mapping
	cache        *cache.Memory[*ResolvedView]
	resourcesDir string
}

// ResolverOption configures a ViewResolver.
type ResolverOption func(*ViewResolver)

// WithResolverCacheSize bounds the number of cached resolutions. Zero disables the bound.
func WithResolverCacheSize(n int) ResolverOption {
	return func(vr *ViewResolver) {
		vr.cache = cache.NewMemory[*ResolvedView](cache.WithMaxEntries(n))
	}
}

// WithResolverResources sets the directory holding per-app resources,
// used by egg: resources.
func WithResolverResources(dir string) ResolverOption {
	return func(vr *ViewResolver) {
		vr.resourcesDir = dir
	}
}

// NewViewResolver creates a resolver over reg using the app and resource
// mappings of m.
func NewViewResolver(reg *Registry, m *urls.Mapping, opts ...ResolverOption) *ViewResolver {
	vr := &ViewResolver{
		registry: reg,
		mapping:  m,
		cache:    cache.NewMemory[*ResolvedView](cache.WithMaxEntries(defaultResolverCacheSize)),
	}
	for _, opt := range opts {
		opt(vr)
	}
	return vr
}

// Resolve returns the view handling path.
// Unknown views, hidden views (leading "_") and bad resources give a 404 HTTPError.
// A path under the url prefix is resolved relative to it.
func (vr *ViewResolver) Resolve(ctx context.Context, path string) (*ResolvedView, error) {
	if p := vr.mapping.Prefix(); p != "" && (path == p || strings.HasPrefix(path, p+"/")) {
		path = strings.TrimPrefix(path, p)
	}
	key := urls.NormalizePath(path)
	return vr.cache.GetOrSet(ctx, key, func(context.Context) (*ResolvedView, error) {
		return vr.resolve(key)
	})
}

func (vr *ViewResolver) resolve(url string) (*ResolvedView, error) {
	if uri, ok := vr.mapping.Resource(url); ok {
		return vr.resolveResource(uri)
	}

	app, module, name, err := vr.Parts(url)
	if err != nil {
		return nil, err
	}
	return vr.lookup(app, module, name)
}

// Parts splits a normalized URL into app, module path and view name.
//
//	app/path-to/module-name/view-name -> (app, "pathto.modulename", "view_name")
//
// Segments that are not an app base url belong to the root app.
func (vr *ViewResolver) Parts(url string) (app, module, name string, err error) {
	root := vr.mapping.RootApp()
	app, module, name = root, RootModule, DefaultView

	if url == "" {
		return app, module, name, nil
	}

	segments := strings.Split(url, "/")
	name = segments[len(segments)-1]
	if strings.HasPrefix(name, "_") {
		return "", "", "", ErrNotFound("", WithError(fmt.Errorf("%w: hidden view %q", ErrViewNotFound, name)))
	}
	name = reInvalidURLChars.ReplaceAllString(name, "_")

	if len(segments) == 1 {
		return app, module, name, nil
	}

	segments = segments[:len(segments)-1]
	for i, s := range segments {
		segments[i] = reInvalidURLChars.ReplaceAllString(s, "")
	}

	found, ok := vr.mapping.AppForURL(segments[0])
	switch {
	case !ok || !vr.mapping.IsEnabled(found):
		module = strings.Join(segments, ".")
	case len(segments) > 1:
		app = found
		module = strings.Join(segments[1:], ".")
	default:
		app = found
	}
	return app, module, name, nil
}

func (vr *ViewResolver) lookup(app, module, name string) (*ResolvedView, error) {
	v, ok := vr.registry.Lookup(app, module, name)
	if !ok {
		return nil, ErrNotFound("", WithError(fmt.Errorf("%w: %s.%s.%s", ErrViewNotFound, app, module, name)))
	}
	return &ResolvedView{View: v, App: app, Module: module, Name: name}, nil
}

func (vr *ViewResolver) resolveResource(raw string) (*ResolvedView, error) {
	uri, err := resource.Parse(raw)
	if err != nil {
		return nil, ErrNotFound("", WithError(err))
	}

	root := vr.mapping.RootApp()
	switch uri.Scheme {
	case resource.SchemeURL:
		target, err := vr.mapping.URL(uri.Target)
		if err != nil {
			return nil, ErrNotFound("", WithError(err))
		}
		return &ResolvedView{
			App:      root,
			Module:   RootModule,
			Name:     "redirect",
			Resource: raw,
			View: View{
				Name: "redirect",
				Handler: func(c Context) error {
					return c.Redirect(http.StatusFound, target)
				},
				Public: boolPtr(true),
			},
		}, nil

	case resource.SchemeCall:
		module, name, err := uri.Call()
		if err != nil {
			return nil, ErrNotFound("", WithError(err))
		}
		app, module := vr.splitModule(module)
		rv, err := vr.lookup(app, module, name)
		if err != nil {
			return nil, err
		}
		rv.Resource = raw
		return rv, nil

	case resource.SchemeEgg:
		app, file, err := uri.Egg()
		if err != nil || !vr.mapping.IsEnabled(app) {
			return nil, ErrNotFound("", WithError(errors.Join(resource.ErrNotFound, err)))
		}
		dir := vr.resourcesDir
		return &ResolvedView{
			App:      app,
			Module:   RootModule,
			Name:     file,
			Resource: raw,
			View: View{
				Name: file,
				Handler: func(c Context) error {
					if err := resource.ServeEgg(c.Response(), c.Request(), dir, app, file); err != nil {
						return ErrNotFound("", WithError(err))
					}
					return nil
				},
				Public: boolPtr(true),
			},
		}, nil
	}

	return nil, ErrNotFound("", WithError(resource.ErrUnknownScheme))
}

// splitModule finds the longest enabled app that prefixes a dotted module path.
// Paths without an app prefix belong to the root app.
func (vr *ViewResolver) splitModule(module string) (app, rest string) {
	best := ""
	for _, name := range vr.mapping.EnabledApps() {
		if (module == name || strings.HasPrefix(module, name+".")) && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		return vr.mapping.RootApp(), module
	}
	rest = strings.TrimPrefix(strings.TrimPrefix(module, best), ".")
	if rest == "" {
		rest = RootModule
	}
	return best, rest
}
