package template

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Component adapts a named template to templ.Component. Request bindings are
// read from the render context, see WithBindings.
func (e *Environment) Component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return e.Render(w, name, data, BindingsFrom(ctx))
	})
}
