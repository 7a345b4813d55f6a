package urls

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Mapping holds the application and resource mappings of a site.
// It is immutable after creation and safe for concurrent use.
type Mapping struct {
	apps      map[string]string // app name -> base url
	urlApps   map[string]string // stripped base url -> app name
	resources map[string]string // normalized url -> resource uri
	rootApp   string
	prefix    string
}

// Option configures a Mapping.
type Option func(*Mapping)

// WithPrefix sets the prefix prepended to every URL built by Mapping.URL.
// Trailing slashes are removed.
func WithPrefix(prefix string) Option {
	return func(m *Mapping) {
		m.prefix = strings.TrimRight(prefix, "/")
	}
}

// New builds a Mapping from app and resource maps.
// Returns ErrNoApplications when apps is empty and ErrNoRootApplication when no
// app is mapped to "/".
func New(apps, resources map[string]string, opts ...Option) (*Mapping, error) {
	if len(apps) == 0 {
		return nil, ErrNoApplications
	}

	m := &Mapping{
		apps:      make(map[string]string, len(apps)),
		urlApps:   make(map[string]string, len(apps)),
		resources: make(map[string]string, len(resources)),
	}

	for name, base := range apps {
		name = strings.TrimSpace(name)
		base = strings.TrimSpace(base)
		m.apps[name] = base
		m.urlApps[stripBase(base)] = name
		if base == "/" {
			m.rootApp = name
		}
	}

	if m.rootApp == "" {
		return nil, ErrNoRootApplication
	}

	for u, uri := range resources {
		m.resources[NormalizePath(u)] = strings.TrimSpace(uri)
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// NormalizePath trims slashes and lowercases a request path the way
// resource and view lookups expect it.
func NormalizePath(p string) string {
	return strings.ToLower(strings.Trim(strings.TrimSpace(p), "/"))
}

func stripBase(base string) string {
	if base == "/" {
		return base
	}
	return strings.TrimLeft(base, "/")
}

// RootApp returns the name of the application mapped to "/".
func (m *Mapping) RootApp() string {
	return m.rootApp
}

// Prefix returns the configured URL prefix.
func (m *Mapping) Prefix() string {
	return m.prefix
}

// Apps returns a copy of the app name to base URL mapping.
func (m *Mapping) Apps() map[string]string {
	return maps.Clone(m.apps)
}

// EnabledApps returns the sorted names of all mapped applications.
func (m *Mapping) EnabledApps() []string {
	return slices.Sorted(maps.Keys(m.apps))
}

// IsEnabled reports whether app is mapped.
func (m *Mapping) IsEnabled(app string) bool {
	_, ok := m.apps[app]
	return ok
}

// BaseURL returns the base URL of app.
func (m *Mapping) BaseURL(app string) (string, bool) {
	base, ok := m.apps[app]
	return base, ok
}

// URLAppMapping returns a copy of the base URL to app name mapping.
// Base URLs have their leading slash removed, except for the root "/".
func (m *Mapping) URLAppMapping() map[string]string {
	return maps.Clone(m.urlApps)
}

// AppForURL returns the app whose base URL equals segment.
// segment is compared without leading slashes.
func (m *Mapping) AppForURL(segment string) (string, bool) {
	if segment == "" || segment == "/" {
		return m.rootApp, true
	}
	app, ok := m.urlApps[strings.TrimLeft(segment, "/")]
	return app, ok
}

// Resources returns a copy of the resource mapping.
func (m *Mapping) Resources() map[string]string {
	return maps.Clone(m.resources)
}

// Resource returns the resource uri mapped to a request path.
func (m *Mapping) Resource(path string) (string, bool) {
	uri, ok := m.resources[NormalizePath(path)]
	return uri, ok
}

// URL builds a site URL.
//
// Full URLs (containing "://") are returned as they are. An "app:relative" URL is
// resolved against the app's base URL. Everything else is treated as site-relative.
// The configured prefix is prepended and, when args are given, the result is
// formatted with fmt.Sprintf.
func (m *Mapping) URL(u string, args ...any) (string, error) {
	if strings.Contains(u, "://") {
		return format(u, args), nil
	}

	full := m.prefix + u
	if strings.Contains(u, ":") && !strings.HasPrefix(u, "/") {
		app, rel, _ := strings.Cut(u, ":")
		if strings.Contains(rel, ":") {
			return "", ErrInvalidAppURL
		}
		base, ok := m.apps[app]
		if !ok {
			return "", errors.Join(ErrUnknownApp, fmt.Errorf("application %q", app))
		}
		full = m.prefix + strings.TrimRight(base, "/") + rel
	}

	return format(full, args), nil
}

// MustURL is like URL but returns the input unchanged on failure.
// Intended for templates where an error cannot be surfaced.
func (m *Mapping) MustURL(u string, args ...any) string {
	out, err := m.URL(u, args...)
	if err != nil {
		return u
	}
	return out
}

func format(s string, args []any) string {
	if len(args) == 0 {
		return s
	}
	return fmt.Sprintf(s, args...)
}
