package middlewares

import (
	"fmt"

	"github.com/dmitrymomot/duende/internal"
	"github.com/dmitrymomot/duende/pkg/template"
)

// Template returns middleware installing env for RenderTemplate and the view
// helpers. It must run after Locale: gettext globals need the request translations.
func Template(env *template.Environment) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if env == nil {
				return fmt.Errorf("%w: template environment is nil", ErrMisconfigured)
			}
			if c.Translations() == nil {
				return fmt.Errorf("%w: locale middleware missing", internal.ErrNoTranslation)
			}

			c.Set(internal.TemplateKey{}, env)
			return next(c)
		}
	}
}
