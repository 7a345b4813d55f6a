// Package resource handles mapped resource uris and per-application static
// content.
//
// The [resources] section of the url file maps a path to a uri:
//
//	/feed   = call:blog.feed#rss   ; run a registered view
//	/about  = url:pages:about      ; redirect to an application url
//	/robots = egg:site#robots.txt  ; serve a file from an application resource directory
//
// Application resources live under a common root, one directory per
// application (dots in the name become nested directories), with templates,
// static and locale sub directories. Text content types are served with a
// utf8 charset.
package resource
