package resource

import (
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Resource uri schemes used in the [resources] section of the url file.
const (
	SchemeURL  = "url"
	SchemeCall = "call"
	SchemeEgg  = "egg"
)

// Directories inside an application resource directory.
const (
	TemplatesDir = "templates"
	StaticDir    = "static"
	LocaleDir    = "locale"
)

// utfTypes are served with an explicit utf8 charset.
var utfTypes = []string{
	"text/css",
	"application/x-javascript",
	"application/javascript",
	"text/html",
	"text/xml",
	"application/xml",
	"application/xhtml+xml",
	"text/plain",
	"text/csv",
}

// URI is a parsed resource uri such as "call:blog.feed#rss".
type URI struct {
	Scheme string
	Target string
}

// Parse splits a resource uri at the first colon.
func Parse(uri string) (URI, error) {
	scheme, target, ok := strings.Cut(uri, ":")
	if !ok || target == "" {
		return URI{}, fmt.Errorf("%w: %q", ErrInvalidURI, uri)
	}
	switch scheme {
	case SchemeURL, SchemeCall, SchemeEgg:
		return URI{Scheme: scheme, Target: target}, nil
	default:
		return URI{}, fmt.Errorf("%w: %q", ErrUnknownScheme, uri)
	}
}

// String returns the uri in its mapped form.
func (u URI) String() string { return u.Scheme + ":" + u.Target }

// Call splits a call target into module path and view name.
func (u URI) Call() (module, view string, err error) {
	return u.pair()
}

// Egg splits an egg target into application and file path.
func (u URI) Egg() (app, file string, err error) {
	return u.pair()
}

func (u URI) pair() (string, string, error) {
	left, right, ok := strings.Cut(u.Target, "#")
	if !ok || left == "" || right == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidURI, u.String())
	}
	return left, right, nil
}

// Dir returns the resource directory of an application. Dotted application
// names map to nested directories.
func Dir(root, app string) string {
	return filepath.Join(root, filepath.FromSlash(strings.ReplaceAll(app, ".", "/")))
}

// Sub returns a directory inside the application resource directory.
func Sub(root, app, sub string) string {
	return filepath.Join(Dir(root, app), sub)
}

// Dirs maps each application to one of its resource sub directories,
// skipping applications where it does not exist.
func Dirs(root string, apps []string, sub string) map[string]string {
	out := make(map[string]string, len(apps))
	for _, app := range apps {
		dir := Sub(root, app, sub)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			out[app] = dir
		}
	}
	return out
}

// ContentType guesses the content type of a file from its extension.
// Text types get a utf8 charset. Unknown types are served as octet streams.
func ContentType(name string) string {
	typ := mime.TypeByExtension(path.Ext(name))
	if typ == "" {
		return "application/octet-stream"
	}
	media, _, err := mime.ParseMediaType(typ)
	if err != nil {
		return typ
	}
	if slices.Contains(utfTypes, media) {
		return media + "; charset=utf8"
	}
	return media
}
