package view

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/dmitrymomot/duende/internal"
	"github.com/dmitrymomot/duende/pkg/jsonrpc"
	"github.com/dmitrymomot/duende/pkg/template"
)

// TemplateOverrideKey is the data key a Template view sets to render another template.
const TemplateOverrideKey = "_template"

var (
	// ErrInvalidURL is returned by Redirect views that produce no URL.
	ErrInvalidURL = errors.New("view: view must return a valid URL")
	// ErrInvalidTemplate is returned when the template override is not a string.
	ErrInvalidTemplate = errors.New("view: template override must be a template name")
)

// Data holds the template variables returned by a Template view.
type Data map[string]any

// Restrict returns a middleware rejecting requests whose method is not one of
// methods with 405 Method Not Allowed and an Allow header.
func Restrict(methods ...string) internal.Middleware {
	allowed := make([]string, len(methods))
	for i, m := range methods {
		allowed[i] = strings.ToUpper(m)
	}
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if !slices.Contains(allowed, c.Request().Method) {
				return internal.ErrMethodNotAllowed(allowed)
			}
			return next(c)
		}
	}
}

// Redirect answers with 302 Found to the URL returned by fn.
func Redirect(fn func(c internal.Context) (string, error)) internal.HandlerFunc {
	return func(c internal.Context) error {
		url, err := fn(c)
		if err != nil {
			return err
		}
		if url == "" {
			return fmt.Errorf("%w: %s", ErrInvalidURL, viewName(c))
		}
		return c.Redirect(http.StatusFound, url)
	}
}

// Text answers with the text/plain body returned by fn.
func Text(fn func(c internal.Context) (string, error)) internal.HandlerFunc {
	return func(c internal.Context) error {
		s, err := fn(c)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, s)
	}
}

// JSON answers with fn's value encoded as JSON.
func JSON(fn func(c internal.Context) (any, error)) internal.HandlerFunc {
	return func(c internal.Context) error {
		v, err := fn(c)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, v)
	}
}

// JSONRPC wraps fn's value in a JSON-RPC 2.0 result envelope.
// A *jsonrpc.Error returned by fn becomes the error member of the envelope;
// other errors go to the error middleware.
func JSONRPC(fn func(c internal.Context) (any, error)) internal.HandlerFunc {
	return func(c internal.Context) error {
		v, err := fn(c)
		if err != nil {
			rpcErr, ok := jsonrpc.AsError(err)
			if !ok {
				return err
			}
			return jsonrpc.Write(c.Response(), http.StatusOK, jsonrpc.ErrorResponse(rpcErr), c.Debug())
		}
		return jsonrpc.Write(c.Response(), http.StatusOK, jsonrpc.Result(v), c.Debug())
	}
}

// XML answers with the document returned by fn.
// A non-empty filename is sent as an attachment.
func XML(fn func(c internal.Context) (doc []byte, filename string, err error)) internal.HandlerFunc {
	return func(c internal.Context) error {
		doc, filename, err := fn(c)
		if err != nil {
			return err
		}
		if filename != "" {
			c.SetHeader("Content-Disposition", "attachment; filename="+filename)
		}
		return c.Blob(http.StatusOK, "text/xml; charset=utf-8", doc)
	}
}

// Template renders name with the data returned by fn. Nil data renders the
// template without variables. The content type is guessed from the extension
// of name, even when the data overrides the template with TemplateOverrideKey.
func Template(name string, fn func(c internal.Context) (Data, error)) internal.HandlerFunc {
	return func(c internal.Context) error {
		contentType, err := template.ContentType(name)
		if err != nil {
			return err
		}

		data, err := fn(c)
		if err != nil {
			return err
		}
		if data == nil {
			data = Data{}
		}

		render := name
		if v, ok := data[TemplateOverrideKey]; ok {
			s, ok := v.(string)
			if !ok || s == "" {
				return fmt.Errorf("%w: %v", ErrInvalidTemplate, v)
			}
			render = s
		}

		env, err := c.Template()
		if err != nil {
			return err
		}

		var b template.Bindings
		if f, err := c.Flash(); err == nil {
			b.Flash = f
		} else {
			c.LogInfo("flash is not enabled")
		}
		if tm := c.Translations(); tm != nil {
			b.Translator = tm
		}

		c.LogDebug("rendering template", "template", render)

		var buf bytes.Buffer
		if err := env.Render(&buf, render, map[string]any(data), b); err != nil {
			return err
		}
		return c.Blob(http.StatusOK, contentType, buf.Bytes())
	}
}

func viewName(c internal.Context) string {
	if v := c.View(); v != nil {
		return v.String()
	}
	return c.Request().URL.Path
}
