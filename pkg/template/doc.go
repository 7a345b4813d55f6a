// Package template renders application templates with html/template.
//
// Every enabled application contributes its template directory. Templates are
// addressed as "app/path" or "app:path", so one application can include
// another application's partials:
//
//	env, err := template.NewFromDirs(map[string]string{
//		"blog": "resources/blog/templates",
//	}, template.WithURL(mapping.URL), template.WithDebug(true))
//
//	err = env.Render(w, "blog:posts/list.html", data, template.Bindings{
//		Translator: manager,
//		Flash:      messages,
//	})
//
// # Globals
//
// Templates can call url, DEBUG, gettext, ngettext, _, flash, markdown,
// sanitize, striptags, slugify and dict. Translation functions take keyword
// arguments either as a map or as alternating names and values, and they
// interpolate %(name)s placeholders:
//
//	{{ gettext "blog" "Hello %(name)s" "name" .User }}
//	{{ ngettext "blog" "%(num)d post" "%(num)d posts" .Count }}
//	{{ _ "Archive" }}            {{/* domain taken from the template name */}}
//	{{ _ "Archive" "shared" }}
//
// Values returned by gettext are plain strings, so html/template escapes
// them in context.
//
// # Reloading
//
// Watch uses fsnotify to reparse every template after a change. It is meant
// for debug mode and only works for environments built with NewFromDirs.
//
// # templ
//
// Component wraps a template as a templ.Component so templ pages can embed
// it. Request bindings travel in the render context via WithBindings.
package template
