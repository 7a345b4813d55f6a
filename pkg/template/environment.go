package template

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dmitrymomot/duende/pkg/logger"
)

// URLFunc builds application URLs, usually urls.Mapping.URL.
type URLFunc func(u string, args ...any) (string, error)

// Environment holds the parsed templates of every enabled application.
// Templates are addressed as "app/path" or "app:path".
type Environment struct {
	apps   map[string]fs.FS
	dirs   map[string]string
	set    *template.Template
	url    URLFunc
	extra  template.FuncMap
	logger *slog.Logger
	mu     sync.RWMutex
	debug  bool
}

// Option configures an Environment.
type Option func(*Environment)

// WithDebug sets the DEBUG global.
func WithDebug(debug bool) Option {
	return func(e *Environment) { e.debug = debug }
}

// WithURL sets the function behind the url global.
func WithURL(fn URLFunc) Option {
	return func(e *Environment) { e.url = fn }
}

// WithFuncs adds application functions. They cannot replace built-in globals.
func WithFuncs(funcs template.FuncMap) Option {
	return func(e *Environment) {
		for name, fn := range funcs {
			e.extra[name] = fn
		}
	}
}

// WithLogger sets the environment logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Environment) {
		if l != nil {
			e.logger = l
		}
	}
}

// New parses the templates found in each application file system.
// A nil file system is skipped.
func New(apps map[string]fs.FS, opts ...Option) (*Environment, error) {
	e := &Environment{
		apps:   make(map[string]fs.FS, len(apps)),
		extra:  template.FuncMap{},
		logger: logger.NewNope(),
		url:    func(u string, args ...any) (string, error) { return fmt.Sprintf(u, args...), nil },
	}
	for app, fsys := range apps {
		if fsys != nil {
			e.apps[app] = fsys
		}
	}
	for _, opt := range opts {
		opt(e)
	}

	set, err := e.parse()
	if err != nil {
		return nil, err
	}
	e.set = set
	return e, nil
}

// NewFromDirs loads templates from one directory per application.
// Missing directories are skipped. Environments built this way can Watch.
func NewFromDirs(dirs map[string]string, opts ...Option) (*Environment, error) {
	apps := make(map[string]fs.FS, len(dirs))
	found := make(map[string]string, len(dirs))
	for app, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		apps[app] = os.DirFS(dir)
		found[app] = dir
	}

	e, err := New(apps, opts...)
	if err != nil {
		return nil, err
	}
	e.dirs = found
	return e, nil
}

// Apps returns the application names with templates, sorted.
func (e *Environment) Apps() []string {
	names := make([]string, 0, len(e.apps))
	for app := range e.apps {
		names = append(names, app)
	}
	sort.Strings(names)
	return names
}

// Debug reports the DEBUG global.
func (e *Environment) Debug() bool { return e.debug }

// Has reports whether a template exists.
func (e *Environment) Has(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.set.Lookup(Normalize(name)) != nil
}

// Render executes the named template with data. Bindings provide the
// request-bound globals: translations and flash messages.
func (e *Environment) Render(w io.Writer, name string, data any, b Bindings) error {
	name = Normalize(name)

	e.mu.RLock()
	base := e.set
	e.mu.RUnlock()

	if base.Lookup(name) == nil {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}

	// The shared set is never executed, so clones can rebind globals.
	t, err := base.Clone()
	if err != nil {
		return errors.Join(ErrRender, err)
	}
	t.Funcs(e.requestFuncs(name, b))

	e.logger.Debug("rendering template", slog.String("template", name))
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		return errors.Join(ErrRender, err)
	}
	return nil
}

// Reload parses every template again and swaps the set on success.
func (e *Environment) Reload() error {
	set, err := e.parse()
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.set = set
	e.mu.Unlock()
	return nil
}

func (e *Environment) parse() (*template.Template, error) {
	set := template.New("").Funcs(e.baseFuncs())

	for _, app := range e.Apps() {
		fsys := e.apps[app]
		err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			hidden := p != "." && strings.HasPrefix(d.Name(), ".")
			if d.IsDir() {
				if hidden {
					return fs.SkipDir
				}
				return nil
			}
			if hidden {
				return nil
			}
			content, err := fs.ReadFile(fsys, p)
			if err != nil {
				return err
			}
			name := app + "/" + p
			if _, err := set.New(name).Parse(string(content)); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Join(ErrParse, err)
		}
	}
	return set, nil
}

// Normalize converts "app:path" to "app/path" and cleans the path.
func Normalize(name string) string {
	if app, rel, ok := strings.Cut(name, ":"); ok && !strings.Contains(app, "/") {
		name = app + "/" + rel
	}
	return strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(name)), "/")
}

// Domain returns the translation domain of a template: the first segment of its name.
func Domain(name string) string {
	first, _, _ := strings.Cut(Normalize(name), "/")
	return first
}

// ContentType guesses the response content type from the template extension.
func ContentType(name string) (string, error) {
	typ := mime.TypeByExtension(path.Ext(name))
	if typ == "" {
		return "", fmt.Errorf("%w for template %s", ErrUnknownMimeType, name)
	}
	media, _, err := mime.ParseMediaType(typ)
	if err != nil {
		return "", fmt.Errorf("%w for template %s", ErrUnknownMimeType, name)
	}
	return media + "; charset=utf-8", nil
}
