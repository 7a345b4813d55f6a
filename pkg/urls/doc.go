// Package urls maps application names to base URLs and builds links.
//
// A url file declares the enabled applications and optional resources.
// INI and YAML files are accepted:
//
//	[apps]
//	site = /
//	blog = /blog
//
//	[resources]
//	favicon.ico = egg:site#static/favicon.ico
//	home = url:site:/
//
// or
//
//	apps:
//	  site: /
//	  blog: /blog
//	resources:
//	  favicon.ico: egg:site#static/favicon.ico
//
// Exactly one application must be mapped to "/". It is the root application and
// receives every request whose first path segment is not another app's base URL.
//
// Building links:
//
//	m, err := urls.Load("urls.ini", urls.WithPrefix("/mysite"))
//	link, err := m.URL("blog:/post/view?id=%d", 10) // "/mysite/blog/post/view?id=10"
//	link = urls.Apply(link, map[string]any{"tag": []string{"go", "web"}})
package urls
