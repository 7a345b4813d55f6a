package template

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/dmitrymomot/duende/pkg/flash"
	"github.com/dmitrymomot/duende/pkg/i18n"
	"github.com/dmitrymomot/duende/pkg/sanitizer"
	"github.com/dmitrymomot/duende/pkg/slug"
)

// Translator is the translation surface used by gettext globals.
// *i18n.TranslationManager satisfies it.
type Translator interface {
	Gettext(domain, msg string, args ...i18n.M) string
	NGettext(domain, singular, plural string, n int, args ...i18n.M) string
}

// Bindings are the request-bound values behind the gettext and flash globals.
type Bindings struct {
	Translator Translator
	Flash      *flash.Flash
}

type bindingsKey struct{}

// WithBindings stores request bindings in ctx for Component rendering.
func WithBindings(ctx context.Context, b Bindings) context.Context {
	return context.WithValue(ctx, bindingsKey{}, b)
}

// BindingsFrom returns the bindings stored in ctx, or empty bindings.
func BindingsFrom(ctx context.Context) Bindings {
	b, _ := ctx.Value(bindingsKey{}).(Bindings)
	return b
}

// baseFuncs declares every global at parse time. Request-bound entries are
// replaced on each render.
func (e *Environment) baseFuncs() template.FuncMap {
	funcs := template.FuncMap{}
	for name, fn := range e.extra {
		funcs[name] = fn
	}
	for name, fn := range e.requestFuncs("", Bindings{}) {
		funcs[name] = fn
	}
	return funcs
}

func (e *Environment) requestFuncs(name string, b Bindings) template.FuncMap {
	tr := b.Translator
	if tr == nil {
		tr = passthrough{}
	}
	domain := Domain(name)
	fl := b.Flash

	return template.FuncMap{
		"url":   e.url,
		"DEBUG": func() bool { return e.debug },
		"gettext": func(domain, msg string, args ...any) (string, error) {
			kw, err := kwargs(args)
			if err != nil {
				return "", err
			}
			return tr.Gettext(domain, msg, kw), nil
		},
		"ngettext": func(domain, singular, plural string, n any, args ...any) (string, error) {
			count, err := toInt(n)
			if err != nil {
				return "", err
			}
			kw, err := kwargs(args)
			if err != nil {
				return "", err
			}
			return tr.NGettext(domain, singular, plural, count, kw), nil
		},
		// _ "msg" uses the template's own domain; _ "msg" "domain" names it.
		// Keyword arguments may follow either form.
		"_": func(msg string, args ...any) (string, error) {
			d := domain
			if len(args)%2 == 1 {
				explicit, ok := args[0].(string)
				if !ok {
					return "", fmt.Errorf("%w: domain must be a string", ErrBadArguments)
				}
				d, args = explicit, args[1:]
			}
			kw, err := kwargs(args)
			if err != nil {
				return "", err
			}
			return tr.Gettext(d, msg, kw), nil
		},
		"flash": func() *flash.Flash {
			if fl == nil {
				e.logger.Debug("Flash is not enabled")
			}
			return fl
		},
		"markdown": func(src string) (template.HTML, error) {
			out, err := sanitizer.Markdown(src)
			if err != nil {
				return "", err
			}
			return template.HTML(out), nil //nolint:gosec // sanitized above
		},
		"sanitize": func(s string) template.HTML {
			return template.HTML(sanitizer.SanitizeHTML(s)) //nolint:gosec // sanitized
		},
		"striptags": sanitizer.StripHTML,
		"slugify":   func(s string) string { return slug.Make(s) },
		"dict": func(args ...any) (map[string]any, error) {
			kw, err := kwargs(args)
			return map[string]any(kw), err
		},
	}
}

// kwargs accepts either a single map or alternating key and value arguments.
func kwargs(args []any) (i18n.M, error) {
	if len(args) == 0 {
		return i18n.M{}, nil
	}
	if len(args) == 1 {
		switch m := args[0].(type) {
		case i18n.M:
			return m, nil
		case map[string]any:
			return i18n.M(m), nil
		}
	}
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("%w: odd number of arguments", ErrBadArguments)
	}

	out := make(i18n.M, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("%w: key %v is not a name", ErrBadArguments, args[i])
		}
		out[key] = args[i+1]
	}
	return out, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float32:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: count %v is not a number", ErrBadArguments, v)
	}
}

// passthrough interpolates the message id when no translator is bound.
type passthrough struct{}

func (passthrough) Gettext(_, msg string, args ...i18n.M) string {
	return i18n.Interpolate(msg, merge(args))
}

func (passthrough) NGettext(_, singular, plural string, n int, args ...i18n.M) string {
	kw := merge(args)
	if _, ok := kw["num"]; !ok {
		kw["num"] = n
	}
	if n == 1 {
		return i18n.Interpolate(singular, kw)
	}
	return i18n.Interpolate(plural, kw)
}

func merge(args []i18n.M) i18n.M {
	out := i18n.M{}
	for _, m := range args {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}
